package models

import (
	"github.com/google/uuid"
)

// ScanStatus is the final safety classification of a scanned URL
type ScanStatus string

const (
	StatusSafe   ScanStatus = "safe"
	StatusUnsafe ScanStatus = "unsafe"
)

// DetectionMethod identifies which layer drove the final verdict
type DetectionMethod string

const (
	MethodThreatIntelligence DetectionMethod = "Threat Intelligence"
	MethodHeuristicAnalysis  DetectionMethod = "Heuristic Analysis"
	MethodMachineLearning    DetectionMethod = "Machine Learning"
	MethodCombinedAnalysis   DetectionMethod = "Combined Analysis"
	MethodNoThreatsDetected  DetectionMethod = "No threats detected"
)

// ScanRequest is a request to scan a single URL
type ScanRequest struct {
	URL      string `json:"url"`
	DeviceID string `json:"device_id,omitempty"`
	Source   string `json:"source,omitempty"` // "browser", "sms", "email", "app"
}

// ScanBatchRequest is a request to scan multiple URLs
type ScanBatchRequest struct {
	URLs     []string `json:"urls"`
	DeviceID string   `json:"device_id,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// HeuristicFinding is the outcome of one structural check. Immutable once
// computed.
type HeuristicFinding struct {
	Check  string `json:"check"`
	Weight int    `json:"weight"`
	Label  string `json:"label"`
}

// HeuristicResult aggregates all heuristic findings for a URL.
// Confidence is the clamped sum of triggered findings' weights, always
// within [0, 100].
type HeuristicResult struct {
	Suspicious bool               `json:"suspicious"`
	Confidence int                `json:"confidence"`
	Reasons    []string           `json:"reasons"`
	Findings   []HeuristicFinding `json:"findings,omitempty"`
}

// ReputationResult is the outcome of a threat intelligence lookup
type ReputationResult struct {
	Hit    bool   `json:"hit"`
	Reason string `json:"reason"`
}

// ClassifierResult is the outcome of a classifier prediction.
// Available is false when no model is loaded; the fusion engine then
// substitutes zero for the ML term without renormalizing.
type ClassifierResult struct {
	Available         bool    `json:"available"`
	Probability       float64 `json:"probability"`
	PredictedPositive bool    `json:"predicted_positive"`
}

// HeuristicDetail is the heuristic layer's entry in the scan breakdown
type HeuristicDetail struct {
	Suspicious bool     `json:"suspicious"`
	Score      int      `json:"score"`
	Reasons    []string `json:"reasons"`
}

// ReputationDetail is the threat intelligence layer's entry in the scan breakdown
type ReputationDetail struct {
	Hit    bool   `json:"hit"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ClassifierDetail is the ML layer's entry in the scan breakdown
type ClassifierDetail struct {
	Status      string  `json:"status,omitempty"` // set when the model is not loaded
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
	Error       string  `json:"error,omitempty"`
}

// ScanDetails is the per-layer breakdown returned with every verdict
type ScanDetails struct {
	Heuristic          HeuristicDetail  `json:"heuristic"`
	ThreatIntelligence ReputationDetail `json:"threat_intelligence"`
	MachineLearning    ClassifierDetail `json:"machine_learning"`
}

// ScanVerdict is the fused decision across all detection layers.
// Derived per request and never persisted.
type ScanVerdict struct {
	RiskScore int             `json:"risk_score"`
	Status    ScanStatus      `json:"status"`
	Method    DetectionMethod `json:"detection_method"`
	Reasons   []string        `json:"reasons"`
}

// ScanResult is the full record returned to callers
type ScanResult struct {
	ScanID          uuid.UUID       `json:"scan_id"`
	URL             string          `json:"url"`
	Status          ScanStatus      `json:"status"`
	RiskScore       int             `json:"risk_score"`
	Reason          string          `json:"reason"`
	DetectionMethod DetectionMethod `json:"detection_method"`
	Timestamp       string          `json:"timestamp"`
	Details         ScanDetails     `json:"details"`
}

// ScanBatchResponse is the response to a batch scan
type ScanBatchResponse struct {
	Results     []ScanResult `json:"results"`
	TotalCount  int          `json:"total_count"`
	SafeCount   int          `json:"safe_count"`
	UnsafeCount int          `json:"unsafe_count"`
}

// ScanStats describes the running service and its detection layers
type ScanStats struct {
	ModelLoaded     bool     `json:"model_loaded"`
	DetectionLayers []string `json:"detection_layers"`
	FeatureNames    []string `json:"available_features"`
	TotalScans      int64    `json:"total_scans"`
	UnsafeScans     int64    `json:"unsafe_scans"`
}
