package services

import (
	"context"
	"time"

	"modkeeper/internal/config"
	"modkeeper/internal/env"
	"modkeeper/internal/logger"
	"modkeeper/internal/models"
)

type Server struct {
	cfg       *config.AppConfig
	mods      *ModManager
	startTime time.Time
}

/**
 * Create new server instance
 * @param {*config.AppConfig} cfg - Application configuration
 * @param {*ModManager} mods - Mod manager serving the HTTP API
 * @returns {*Server} Returns new server instance
 */
func NewServer(cfg *config.AppConfig, mods *ModManager) *Server {
	return &Server{
		cfg:       cfg,
		mods:      mods,
		startTime: time.Now(),
	}
}

func (s *Server) Mods() *ModManager {
	return s.mods
}

/**
 * Periodically refetch the catalog until ctx ends
 * @param {context.Context} ctx - Stops the loop
 * @description
 * - Does nothing when catalog.refresh_interval is not positive
 * - A failed refresh keeps the previous catalog and is retried next tick
 */
func (s *Server) StartCatalogRefresh(ctx context.Context) {
	interval := s.cfg.Catalog.RefreshInterval
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.mods.Reload(ctx); err != nil {
				logger.Warnf("Catalog refresh failed: %v", err)
			}
		}
	}
}

/**
 * Get server health status
 * @returns {models.HealthResponse} Version, uptime, request counters, and mod statistics
 * @example
 * server := NewServer(cfg, mods)
 * health := server.GetHealthz()
 * fmt.Printf("Server status: %s, Uptime: %s\n", health.Status, health.Uptime)
 */
func (s *Server) GetHealthz() models.HealthResponse {
	uptime := time.Since(s.startTime)

	mods := s.mods.GetMods()
	installed, enabled := 0, 0
	for _, m := range mods {
		if m.Installed {
			installed++
			if m.Enabled {
				enabled++
			}
		}
	}

	return models.HealthResponse{
		Version:   env.SoftwareVer,
		StartTime: s.startTime.Format(time.RFC3339),
		Status:    "UP",
		Uptime:    uptime.Round(time.Second).String(),
		Metrics: models.Metrics{
			TotalRequests: GetTotalRequestCount(),
			ErrorRequests: GetTotalErrorCount(),
			TotalMods:     len(mods),
			InstalledMods: installed,
			EnabledMods:   enabled,
			ApiState:      s.mods.ApiState().State,
		},
	}
}
