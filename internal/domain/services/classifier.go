package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"phishshield/internal/config"
	"phishshield/internal/domain/models"
	"phishshield/pkg/logger"
)

// Classifier predicts the phishing probability for a feature vector.
// The positive class index is fixed at 1 (phishing). A classifier may be
// "not loaded"; callers must treat that as unavailable, not as an error.
type Classifier interface {
	Loaded() bool
	Predict(ctx context.Context, features []float64) (models.ClassifierResult, error)
}

// LogisticModel is a serialized logistic regression over standardized
// URL features, exported by the offline training pipeline as JSON.
type LogisticModel struct {
	FeatureNames []string  `json:"feature_names"`
	Weights      []float64 `json:"weights"`
	Intercept    float64   `json:"intercept"`
	Means        []float64 `json:"means"`
	Scales       []float64 `json:"scales"`
}

// LoadLogisticModel reads a model from a JSON file and validates its
// shape against the feature vector contract.
func LoadLogisticModel(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var m LogisticModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model file: %w", err)
	}

	n := len(m.Weights)
	if n == 0 {
		return nil, fmt.Errorf("model has no weights")
	}
	if len(m.Means) != n || len(m.Scales) != n {
		return nil, fmt.Errorf("model shape mismatch: %d weights, %d means, %d scales",
			n, len(m.Means), len(m.Scales))
	}

	return &m, nil
}

// Loaded reports whether the model carries usable weights
func (m *LogisticModel) Loaded() bool {
	return m != nil && len(m.Weights) > 0
}

// Predict standardizes the features and applies the logistic function.
// The probability is that of the positive (phishing) class.
func (m *LogisticModel) Predict(ctx context.Context, features []float64) (models.ClassifierResult, error) {
	if err := ctx.Err(); err != nil {
		return models.ClassifierResult{}, err
	}
	if !m.Loaded() {
		return models.ClassifierResult{Available: false}, nil
	}
	if len(features) != len(m.Weights) {
		return models.ClassifierResult{}, fmt.Errorf(
			"feature vector length %d does not match model dimension %d",
			len(features), len(m.Weights))
	}

	z := m.Intercept
	for i, w := range m.Weights {
		x := features[i]
		if m.Scales[i] != 0 {
			x = (x - m.Means[i]) / m.Scales[i]
		}
		z += w * x
	}

	p := 1.0 / (1.0 + math.Exp(-z))

	return models.ClassifierResult{
		Available:         true,
		Probability:       p,
		PredictedPositive: p >= 0.5,
	}, nil
}

// notLoadedClassifier is the explicit unavailable variant
type notLoadedClassifier struct{}

func (notLoadedClassifier) Loaded() bool { return false }

func (notLoadedClassifier) Predict(ctx context.Context, features []float64) (models.ClassifierResult, error) {
	return models.ClassifierResult{Available: false}, nil
}

// NotLoadedClassifier returns a classifier that is permanently
// unavailable
func NotLoadedClassifier() Classifier {
	return notLoadedClassifier{}
}

// NewClassifierFromConfig loads the configured model. A missing or
// unreadable model disables ML detection instead of failing startup,
// mirroring how the service has always behaved without a trained model.
func NewClassifierFromConfig(cfg config.MLConfig, log *logger.Logger) Classifier {
	log = log.WithComponent("classifier")

	if !cfg.Enabled {
		log.Info().Msg("ML detection disabled by configuration")
		return NotLoadedClassifier()
	}

	model, err := LoadLogisticModel(cfg.ModelPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.ModelPath).Msg("model not loaded, ML detection disabled")
		return NotLoadedClassifier()
	}

	log.Info().Str("path", cfg.ModelPath).Int("features", len(model.Weights)).Msg("ML model loaded")
	return model
}
