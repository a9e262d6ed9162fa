package handlers

import (
	"phishshield/internal/domain/services"
	"phishshield/internal/infrastructure/cache"
	"phishshield/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health *HealthHandler
	Scan   *ScanHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	ScanService *services.ScanService
	Cache       *cache.RedisCache
	Logger      *logger.Logger
}

// NewHandlers creates all handlers from the shared dependencies
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Cache, deps.Logger),
		Scan:   NewScanHandler(deps.ScanService, deps.Logger),
	}
}
