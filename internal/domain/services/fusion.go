package services

import (
	"fmt"
	"math"

	"phishshield/internal/config"
	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

// safeReason is returned when no detection layer contributed a reason.
const safeReason = "URL appears safe based on all detection layers"

// FusionEngine combines the heuristic score, the reputation hit flag and
// the classifier probability into one verdict. Weights and thresholds are
// static configuration; when the classifier is unavailable its term is
// zero and the remaining weights are NOT renormalized, matching the
// reference scoring exactly.
type FusionEngine struct {
	cfg    config.ScanConfig
	logger *logger.Logger
}

// NewFusionEngine creates a fusion engine from the static scan configuration
func NewFusionEngine(cfg config.ScanConfig, log *logger.Logger) *FusionEngine {
	return &FusionEngine{
		cfg:    cfg,
		logger: log.WithComponent("fusion"),
	}
}

// Fuse produces the final verdict. The only error path is an invariant
// violation in the inputs; collaborator degradation is expressed through
// the inputs themselves (no hit, unavailable classifier), never as an
// error here.
func (e *FusionEngine) Fuse(
	heuristic models.HeuristicResult,
	reputation models.ReputationResult,
	classifier models.ClassifierResult,
) (models.ScanVerdict, error) {
	if heuristic.Confidence < 0 || heuristic.Confidence > 100 {
		return models.ScanVerdict{}, fmt.Errorf("heuristic confidence %d out of range [0,100]", heuristic.Confidence)
	}
	if classifier.Available && (classifier.Probability < 0 || classifier.Probability > 1) {
		return models.ScanVerdict{}, fmt.Errorf("classifier probability %f out of range [0,1]", classifier.Probability)
	}

	mlTerm := 0.0
	if classifier.Available {
		mlTerm = classifier.Probability * 100
	}
	repTerm := 0.0
	if reputation.Hit {
		repTerm = 100
	}

	blended := e.cfg.HeuristicWeight*float64(heuristic.Confidence) +
		e.cfg.MLWeight*mlTerm +
		e.cfg.ReputationWeight*repTerm

	// Truncate, don't round: golden outputs depend on it.
	score := clampInt(int(math.Floor(blended)), 0, 100)

	verdict := models.ScanVerdict{
		RiskScore: score,
		Status:    models.StatusSafe,
		Reasons:   []string{},
	}
	if score >= e.cfg.UnsafeThreshold {
		verdict.Status = models.StatusUnsafe
	}

	verdict.Method = e.primaryMethod(heuristic, reputation, classifier, verdict.Status)

	if heuristic.Suspicious {
		verdict.Reasons = append(verdict.Reasons, heuristic.Reasons...)
	}
	if reputation.Hit {
		verdict.Reasons = append(verdict.Reasons, "Threat Intel: "+reputation.Reason)
	}
	if classifier.Available && classifier.PredictedPositive {
		verdict.Reasons = append(verdict.Reasons,
			fmt.Sprintf("ML Model: %.1f%% confidence of phishing", classifier.Probability*100))
	}
	if len(verdict.Reasons) == 0 {
		verdict.Reasons = append(verdict.Reasons, safeReason)
	}

	return verdict, nil
}

// primaryMethod picks the label for the layer that drove the verdict,
// first match wins.
func (e *FusionEngine) primaryMethod(
	heuristic models.HeuristicResult,
	reputation models.ReputationResult,
	classifier models.ClassifierResult,
	status models.ScanStatus,
) models.DetectionMethod {
	switch {
	case reputation.Hit:
		return models.MethodThreatIntelligence
	case heuristic.Suspicious && heuristic.Confidence >= e.cfg.HeuristicPrimary:
		return models.MethodHeuristicAnalysis
	case classifier.Available && classifier.PredictedPositive && classifier.Probability > e.cfg.MLPrimaryProbability:
		return models.MethodMachineLearning
	case status == models.StatusUnsafe:
		return models.MethodCombinedAnalysis
	default:
		return models.MethodNoThreatsDetected
	}
}
