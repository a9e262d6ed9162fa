package services

import (
	"testing"

	"phishshield/internal/domain/models"
)

func TestFuse_NoRenormalizationWithoutClassifier(t *testing.T) {
	engine := NewFusionEngine(testScanCfg(), testLog())

	// With the classifier unavailable its term is zero; the heuristic
	// weight stays 0.4 instead of being rescaled.
	verdict, err := engine.Fuse(
		models.HeuristicResult{Suspicious: true, Confidence: 55, Reasons: []string{"Contains suspicious keyword"}},
		models.ReputationResult{Hit: false},
		models.ClassifierResult{Available: false},
	)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}

	if verdict.RiskScore != 22 {
		t.Errorf("risk score = %d, want floor(0.4*55) = 22", verdict.RiskScore)
	}
	if verdict.Status != models.StatusSafe {
		t.Errorf("status = %s, want safe", verdict.Status)
	}
}

func TestFuse_UnsafeBoundary(t *testing.T) {
	engine := NewFusionEngine(testScanCfg(), testLog())

	tests := []struct {
		name       string
		confidence int
		wantScore  int
		wantStatus models.ScanStatus
	}{
		// 0.4*75 + 0.2*100 = 50, exactly at the threshold
		{"exactly at threshold", 75, 50, models.StatusUnsafe},
		// 0.4*73 + 0.2*100 = 49.2, floors to 49
		{"just below threshold", 73, 49, models.StatusSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := engine.Fuse(
				models.HeuristicResult{Suspicious: true, Confidence: tt.confidence, Reasons: []string{"x"}},
				models.ReputationResult{Hit: true, Reason: "listed"},
				models.ClassifierResult{Available: false},
			)
			if err != nil {
				t.Fatalf("Fuse: %v", err)
			}
			if verdict.RiskScore != tt.wantScore {
				t.Errorf("risk score = %d, want %d", verdict.RiskScore, tt.wantScore)
			}
			if verdict.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", verdict.Status, tt.wantStatus)
			}
		})
	}
}

func TestFuse_PrimaryMethodLadder(t *testing.T) {
	engine := NewFusionEngine(testScanCfg(), testLog())

	tests := []struct {
		name       string
		heuristic  models.HeuristicResult
		reputation models.ReputationResult
		classifier models.ClassifierResult
		wantMethod models.DetectionMethod
	}{
		{
			name:       "reputation hit outranks everything",
			heuristic:  models.HeuristicResult{Suspicious: true, Confidence: 90, Reasons: []string{"x"}},
			reputation: models.ReputationResult{Hit: true, Reason: "listed"},
			classifier: models.ClassifierResult{Available: true, Probability: 0.95, PredictedPositive: true},
			wantMethod: models.MethodThreatIntelligence,
		},
		{
			name:       "strong heuristic outranks classifier",
			heuristic:  models.HeuristicResult{Suspicious: true, Confidence: 65, Reasons: []string{"x"}},
			reputation: models.ReputationResult{Hit: false},
			classifier: models.ClassifierResult{Available: true, Probability: 0.9, PredictedPositive: true},
			wantMethod: models.MethodHeuristicAnalysis,
		},
		{
			name:       "confident classifier alone",
			heuristic:  models.HeuristicResult{Suspicious: false, Confidence: 30},
			reputation: models.ReputationResult{Hit: false},
			classifier: models.ClassifierResult{Available: true, Probability: 0.8, PredictedPositive: true},
			wantMethod: models.MethodMachineLearning,
		},
		{
			name:       "unsafe with no dominant layer",
			heuristic:  models.HeuristicResult{Suspicious: true, Confidence: 58, Reasons: []string{"x"}},
			reputation: models.ReputationResult{Hit: false},
			classifier: models.ClassifierResult{Available: true, Probability: 0.69, PredictedPositive: true},
			wantMethod: models.MethodCombinedAnalysis,
		},
		{
			name:       "nothing triggered",
			heuristic:  models.HeuristicResult{Suspicious: false, Confidence: 0},
			reputation: models.ReputationResult{Hit: false},
			classifier: models.ClassifierResult{Available: false},
			wantMethod: models.MethodNoThreatsDetected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := engine.Fuse(tt.heuristic, tt.reputation, tt.classifier)
			if err != nil {
				t.Fatalf("Fuse: %v", err)
			}
			if verdict.Method != tt.wantMethod {
				t.Errorf("method = %s, want %s", verdict.Method, tt.wantMethod)
			}
		})
	}
}

func TestFuse_ReasonAssembly(t *testing.T) {
	engine := NewFusionEngine(testScanCfg(), testLog())

	verdict, err := engine.Fuse(
		models.HeuristicResult{Suspicious: true, Confidence: 45, Reasons: []string{"Contains suspicious keyword"}},
		models.ReputationResult{Hit: true, Reason: "known phishing domain"},
		models.ClassifierResult{Available: true, Probability: 0.9, PredictedPositive: true},
	)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}

	want := []string{
		"Contains suspicious keyword",
		"Threat Intel: known phishing domain",
		"ML Model: 90.0% confidence of phishing",
	}
	if len(verdict.Reasons) != len(want) {
		t.Fatalf("reasons = %v, want %v", verdict.Reasons, want)
	}
	for i := range want {
		if verdict.Reasons[i] != want[i] {
			t.Errorf("reason %d = %q, want %q", i, verdict.Reasons[i], want[i])
		}
	}
}

func TestFuse_SafeReason(t *testing.T) {
	engine := NewFusionEngine(testScanCfg(), testLog())

	verdict, err := engine.Fuse(
		models.HeuristicResult{Suspicious: false, Confidence: 0},
		models.ReputationResult{Hit: false},
		models.ClassifierResult{Available: false},
	)
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}

	if len(verdict.Reasons) != 1 || verdict.Reasons[0] != safeReason {
		t.Errorf("reasons = %v, want [%q]", verdict.Reasons, safeReason)
	}
}

func TestFuse_InvalidInputs(t *testing.T) {
	engine := NewFusionEngine(testScanCfg(), testLog())

	tests := []struct {
		name       string
		heuristic  models.HeuristicResult
		classifier models.ClassifierResult
	}{
		{"negative confidence", models.HeuristicResult{Confidence: -1}, models.ClassifierResult{}},
		{"confidence above 100", models.HeuristicResult{Confidence: 101}, models.ClassifierResult{}},
		{"probability above 1", models.HeuristicResult{Confidence: 10}, models.ClassifierResult{Available: true, Probability: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Fuse(tt.heuristic, models.ReputationResult{}, tt.classifier)
			if err == nil {
				t.Error("expected error")
			}
		})
	}
}
