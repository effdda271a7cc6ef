package services

import (
	"context"
	"fmt"

	"modkeeper/internal/catalog"
	"modkeeper/internal/config"
	"modkeeper/internal/download"
	"modkeeper/internal/logger"
	"modkeeper/internal/models"
	"modkeeper/internal/store"

	"github.com/hashicorp/go-version"
)

// CatalogFetcher 获取远程目录
type CatalogFetcher interface {
	FetchContent(ctx context.Context) (*models.ModLinks, error)
}

// catalogConfigurer 支持重新配置目录地址的获取器
type catalogConfigurer interface {
	Configure(cfg config.CatalogConfig)
}

/**
 * Mod manager ties the catalog, the installed record, and the installer
 * together and resolves mods by name for the CLI and the HTTP API
 */
type ModManager struct {
	cfg       *config.AppConfig
	settings  *config.Settings
	installed *store.Store
	db        *catalog.Database
	fetcher   CatalogFetcher
	installer *Installer
}

var modManager *ModManager

/**
 * Get the mod manager created by InitModManager
 * @returns {*ModManager} Shared instance, nil before initialization
 */
func GetModManager() *ModManager {
	return modManager
}

/**
 * Create mod manager
 * @param {*config.AppConfig} cfg - Application configuration
 * @param {*store.Store} installed - Installed record
 * @param {CatalogFetcher} fetcher - Catalog source used by Reload
 * @param {Downloader} dl - Download client for mods and runtime support
 * @returns {*ModManager} Manager with an empty catalog
 * @returns {error} Error if the runtime support version is invalid
 */
func NewModManager(cfg *config.AppConfig, installed *store.Store, fetcher CatalogFetcher, dl Downloader) (*ModManager, error) {
	api, err := newApiSpec(cfg.Api)
	if err != nil {
		return nil, err
	}
	m := &ModManager{
		cfg:       cfg,
		settings:  config.NewSettings(cfg.Install),
		installed: installed,
		db:        new(catalog.Database),
		fetcher:   fetcher,
	}
	m.installer = NewInstaller(m.settings, installed, m.db, dl, api)
	return m, nil
}

func newApiSpec(cfg config.ApiConfig) (ApiSpec, error) {
	ver, err := version.NewVersion(cfg.Version)
	if err != nil {
		return ApiSpec{}, fmt.Errorf("invalid runtime support version '%s': %v", cfg.Version, err)
	}
	return ApiSpec{
		Url:           cfg.Url,
		Sha256:        cfg.Sha256,
		Version:       ver,
		RequiredMajor: cfg.RequiredMajor,
		ActiveFile:    cfg.ActiveFile,
		ShelvedFile:   cfg.ShelvedFile,
	}, nil
}

/**
 * Apply a reloaded configuration to the running manager
 * @param {context.Context} ctx - Abandons the gate wait
 * @param {*config.AppConfig} cfg - New configuration
 * @returns {error} Validation errors, nothing is applied then
 * @description
 * - Swaps the folder layout and the runtime support package while holding the gate
 * - Points the catalog fetcher at the new locations, Reload fetches from them
 * - Server address, log, state file and download timeout need a restart
 */
func (m *ModManager) Reconfigure(ctx context.Context, cfg *config.AppConfig) error {
	if cfg.Install.ManagedDir == "" {
		return fmt.Errorf("install.managed_dir is not configured")
	}
	api, err := newApiSpec(cfg.Api)
	if err != nil {
		return err
	}
	settings := config.NewSettings(cfg.Install)
	err = m.installer.Exclusive(ctx, func() error {
		m.cfg = cfg
		m.settings = settings
		m.installer.settings = settings
		m.installer.api = api
		if f, ok := m.fetcher.(catalogConfigurer); ok {
			f.Configure(cfg.Catalog)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Infof("Configuration applied, mods folder '%s'", settings.ModsFolder())
	return nil
}

/**
 * Build the shared mod manager from configuration
 * @param {context.Context} ctx - Bounds the initial catalog fetch
 * @param {*config.AppConfig} cfg - Application configuration
 * @returns {*ModManager} Initialized manager
 * @returns {error} Record load, configuration, or catalog errors
 * @description
 * - Loads the installed record and drops entries whose files are gone
 * - Fetches the catalog with fallback and seeds mod states from the record
 */
func InitModManager(ctx context.Context, cfg *config.AppConfig) (*ModManager, error) {
	if cfg.Install.ManagedDir == "" {
		return nil, fmt.Errorf("install.managed_dir is not configured")
	}
	installed, err := store.Load(cfg.State.Path)
	if err != nil {
		return nil, err
	}
	settings := config.NewSettings(cfg.Install)
	dropped, err := installed.Reconcile(settings.ModsFolder(), settings.DisabledFolder())
	if err != nil {
		logger.Warnf("Reconcile installed record failed: %v", err)
	}
	for _, name := range dropped {
		logger.Infof("Mod '%s' is no longer on disk, dropped from record", name)
	}

	m, err := NewModManager(cfg, installed, catalog.NewFetcher(cfg.Catalog), download.NewClient(cfg.Install.DownloadTimeout))
	if err != nil {
		return nil, err
	}
	if err := m.Reload(ctx); err != nil {
		return nil, err
	}
	modManager = m
	return m, nil
}

/**
 * Refetch the catalog and rebuild mod states from the installed record
 * @param {context.Context} ctx - Bounds the fetch and the gate wait
 * @returns {error} Fetch or parse errors, the previous catalog stays in place then
 */
func (m *ModManager) Reload(ctx context.Context) error {
	ml, err := m.fetcher.FetchContent(ctx)
	if err != nil {
		return err
	}
	return m.installer.Exclusive(ctx, func() error {
		if err := m.db.Load(m.installed, ml); err != nil {
			return err
		}
		logger.Infof("Catalog loaded with %d mods", len(ml.Manifests))
		return nil
	})
}

func (m *ModManager) Installer() *Installer {
	return m.installer
}

// GetMods 返回全部模组详情，按名称排序
func (m *ModManager) GetMods() []models.ModDetail {
	items := m.db.Items()
	details := make([]models.ModDetail, 0, len(items))
	for _, item := range items {
		details = append(details, item.GetDetail())
	}
	return details
}

/**
 * Find mod by name
 * @param {string} name - Mod name
 * @returns {*models.Mod} Catalog entry
 * @returns {error} ErrModNotFound if the catalog has no such mod
 */
func (m *ModManager) GetMod(name string) (*models.Mod, error) {
	mod := m.db.Find(name)
	if mod == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrModNotFound, name)
	}
	return mod, nil
}

func (m *ModManager) Install(ctx context.Context, name string, enable bool, progress models.ProgressFunc) error {
	mod, err := m.GetMod(name)
	if err != nil {
		return err
	}
	if err := m.installer.Install(ctx, mod, progress, enable); err != nil {
		logger.Errorf("Install '%s' failed: %v", name, err)
		return err
	}
	return nil
}

func (m *ModManager) Uninstall(ctx context.Context, name string) error {
	mod, err := m.GetMod(name)
	if err != nil {
		return err
	}
	if err := m.installer.Uninstall(ctx, mod); err != nil {
		logger.Errorf("Uninstall '%s' failed: %v", name, err)
		return err
	}
	return nil
}

func (m *ModManager) Toggle(ctx context.Context, name string) error {
	mod, err := m.GetMod(name)
	if err != nil {
		return err
	}
	return m.installer.Toggle(ctx, mod)
}

func (m *ModManager) InstallApi(ctx context.Context) error {
	return m.installer.InstallApi(ctx)
}

func (m *ModManager) ToggleApi(ctx context.Context) error {
	return m.installer.ToggleApi(ctx)
}

func (m *ModManager) ApiState() models.ApiDetail {
	return models.NewApiDetail(m.installed.ApiInstall())
}
