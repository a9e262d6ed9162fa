package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"phishshield/internal/config"
	"phishshield/internal/domain/models"
	"phishshield/internal/infrastructure/cache"
	"phishshield/pkg/logger"
)

// modelNotLoadedStatus is recorded in the ML layer detail when no model
// is available.
const modelNotLoadedStatus = "Model not loaded"

// ScanService orchestrates the three detection layers for each request.
// The layers are independent: no layer's outcome gates whether another
// runs, and a collaborator failure degrades that layer instead of
// aborting the scan. Scans share no mutable state and may run
// concurrently.
type ScanService struct {
	heuristics *HeuristicAnalyzer
	reputation ReputationClient
	classifier Classifier
	features   *FeatureExtractor
	fusion     *FusionEngine
	cache      *cache.RedisCache // optional, aggregate counters only
	timeout    time.Duration
	logger     *logger.Logger
}

// NewScanService creates a scan service. cache may be nil; counters are
// then skipped.
func NewScanService(
	cfg config.ScanConfig,
	reputation ReputationClient,
	classifier Classifier,
	c *cache.RedisCache,
	log *logger.Logger,
) *ScanService {
	return &ScanService{
		heuristics: NewHeuristicAnalyzer(cfg, log),
		reputation: reputation,
		classifier: classifier,
		features:   NewFeatureExtractor(),
		fusion:     NewFusionEngine(cfg, log),
		cache:      c,
		timeout:    cfg.CollaboratorTimeout,
		logger:     log.WithComponent("scanner"),
	}
}

// Scan runs all three detection layers for one URL and fuses them into a
// verdict. Only a fusion failure is returned as an error; collaborator
// failures are absorbed into the per-layer details.
func (s *ScanService) Scan(ctx context.Context, req *models.ScanRequest) (*models.ScanResult, error) {
	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		return nil, fmt.Errorf("url is required")
	}

	s.logger.Info().Str("url", raw).Str("source", req.Source).Msg("scanning URL")

	// Layer 1: heuristic analysis, in-process and infallible.
	heuristic := s.heuristics.Analyze(raw)

	// Layers 2 and 3 are independent external calls; issue them
	// concurrently and wait for both before fusing.
	var (
		wg         sync.WaitGroup
		reputation models.ReputationResult
		repErr     error
		classified models.ClassifierResult
		clsErr     error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		reputation, repErr = s.reputation.Lookup(callCtx, raw)
	}()

	go func() {
		defer wg.Done()
		if !s.classifier.Loaded() {
			classified = models.ClassifierResult{Available: false}
			return
		}
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		classified, clsErr = s.classifier.Predict(callCtx, s.features.Extract(raw))
	}()

	wg.Wait()

	details := models.ScanDetails{
		Heuristic: models.HeuristicDetail{
			Suspicious: heuristic.Suspicious,
			Score:      heuristic.Confidence,
			Reasons:    heuristic.Reasons,
		},
	}

	if repErr != nil {
		s.logger.Warn().Err(repErr).Str("url", raw).Msg("reputation lookup failed, degrading layer")
		reputation = models.ReputationResult{Hit: false}
		details.ThreatIntelligence = models.ReputationDetail{Error: repErr.Error()}
	} else {
		details.ThreatIntelligence = models.ReputationDetail{
			Hit:    reputation.Hit,
			Reason: reputation.Reason,
		}
	}

	switch {
	case clsErr != nil:
		s.logger.Warn().Err(clsErr).Str("url", raw).Msg("classifier prediction failed, degrading layer")
		classified = models.ClassifierResult{Available: false}
		details.MachineLearning = models.ClassifierDetail{Error: clsErr.Error()}
	case !classified.Available:
		details.MachineLearning = models.ClassifierDetail{Status: modelNotLoadedStatus}
	default:
		prediction := 0
		if classified.PredictedPositive {
			prediction = 1
		}
		details.MachineLearning = models.ClassifierDetail{
			Prediction:  prediction,
			Probability: classified.Probability,
		}
	}

	verdict, err := s.fusion.Fuse(heuristic, reputation, classified)
	if err != nil {
		// The one failure mode surfaced as an error response instead
		// of a risk classification.
		return nil, fmt.Errorf("fusing detection signals: %w", err)
	}

	s.recordCounters(ctx, verdict.Status)

	result := &models.ScanResult{
		ScanID:          uuid.New(),
		URL:             req.URL,
		Status:          verdict.Status,
		RiskScore:       verdict.RiskScore,
		Reason:          strings.Join(verdict.Reasons, "; "),
		DetectionMethod: verdict.Method,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Details:         details,
	}

	s.logger.Info().
		Str("url", raw).
		Str("status", string(result.Status)).
		Int("risk_score", result.RiskScore).
		Str("method", string(result.DetectionMethod)).
		Msg("scan complete")

	return result, nil
}

// ScanBatch scans multiple URLs sequentially. Individual scan failures
// are logged and skipped so one bad entry cannot sink the batch.
func (s *ScanService) ScanBatch(ctx context.Context, req *models.ScanBatchRequest) (*models.ScanBatchResponse, error) {
	response := &models.ScanBatchResponse{
		Results:    make([]models.ScanResult, 0, len(req.URLs)),
		TotalCount: len(req.URLs),
	}

	for _, rawURL := range req.URLs {
		result, err := s.Scan(ctx, &models.ScanRequest{
			URL:      rawURL,
			DeviceID: req.DeviceID,
			Source:   req.Source,
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("url", rawURL).Msg("failed to scan URL in batch")
			continue
		}
		response.Results = append(response.Results, *result)
		if result.Status == models.StatusSafe {
			response.SafeCount++
		} else {
			response.UnsafeCount++
		}
	}

	return response, nil
}

// Stats reports the detection layer lineup and aggregate counters
func (s *ScanService) Stats(ctx context.Context) (*models.ScanStats, error) {
	stats := &models.ScanStats{
		ModelLoaded:  s.classifier.Loaded(),
		FeatureNames: s.features.FeatureNames(),
		DetectionLayers: []string{
			"Heuristic Analysis",
			"Threat Intelligence",
			"Machine Learning",
		},
	}
	if !stats.ModelLoaded {
		stats.DetectionLayers[2] = "Machine Learning (Disabled)"
	}

	if s.cache != nil {
		if total, err := s.cache.GetInt64(ctx, cache.KeyScansTotal); err == nil {
			stats.TotalScans = total
		}
		if unsafe, err := s.cache.GetInt64(ctx, cache.KeyScansUnsafe); err == nil {
			stats.UnsafeScans = unsafe
		}
	}

	return stats, nil
}

// recordCounters bumps the aggregate scan counters. Counter failures are
// invisible to callers; the verdict is already decided.
func (s *ScanService) recordCounters(ctx context.Context, status models.ScanStatus) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, cache.KeyScansTotal); err != nil {
		s.logger.Debug().Err(err).Msg("failed to bump scan counter")
		return
	}
	if status == models.StatusUnsafe {
		_, _ = s.cache.Incr(ctx, cache.KeyScansUnsafe)
	}
}
