package config

import "path/filepath"

/**
 * Directory roots derived from the install configuration
 * @property {string} Managed - Game root
 * @property {string} Mods - Active root, "<managed>/BepInEx/plugins" by default
 * @property {string} Disabled - Inactive root, sibling "Disabled" of the active root by default
 */
type Settings struct {
	Managed  string
	Mods     string
	Disabled string
	AutoRm   bool
}

/**
 * Build settings from install configuration
 * @param {InstallConfig} cfg - Install section
 * @returns {*Settings} Absolute-when-possible directory roots
 */
func NewSettings(cfg InstallConfig) *Settings {
	managed := cfg.ManagedDir
	if abs, err := filepath.Abs(managed); err == nil && managed != "" {
		managed = abs
	}
	mods := cfg.ModsDir
	if !filepath.IsAbs(mods) {
		mods = filepath.Join(managed, mods)
	}
	disabled := cfg.DisabledDir
	if !filepath.IsAbs(disabled) {
		disabled = filepath.Join(mods, disabled)
	}
	return &Settings{
		Managed:  managed,
		Mods:     filepath.Clean(mods),
		Disabled: filepath.Clean(disabled),
		AutoRm:   cfg.AutoRemoveDeps,
	}
}

func (s *Settings) ManagedFolder() string  { return s.Managed }
func (s *Settings) ModsFolder() string     { return s.Mods }
func (s *Settings) DisabledFolder() string { return s.Disabled }
func (s *Settings) AutoRemoveDeps() bool   { return s.AutoRm }
