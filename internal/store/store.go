package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"modkeeper/internal/logger"
	"modkeeper/internal/models"

	"github.com/hashicorp/go-version"
)

/**
 * Persisted record of one installed package
 */
type InstalledRecord struct {
	Version string `json:"Version"`
	Enabled bool   `json:"Enabled"`
}

// installedFile InstalledMods.json 文件结构
type installedFile struct {
	Mods       map[string]InstalledRecord `json:"Mods"`
	ApiInstall *InstalledRecord           `json:"ApiInstall"`
}

/**
 * Store persists installed mods and runtime support state to a JSON file
 */
type Store struct {
	path string
	mu   sync.RWMutex
	data installedFile
}

/**
 * Load the installed-mods record
 * @param {string} path - Record file, a missing file yields an empty store
 * @returns {*Store} Loaded store
 * @returns {error} Read or decode errors
 */
func Load(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: installedFile{Mods: map[string]InstalledRecord{}},
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read '%s' failed: %v", path, err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("unmarshal '%s' failed: %v", path, err)
	}
	if s.data.Mods == nil {
		s.data.Mods = map[string]InstalledRecord{}
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

/**
 * Record the current state of a mod
 * @param {*models.Mod} mod - Mod whose state is Installed
 * @returns {error} Error if the mod is not installed or the file cannot be written
 */
func (s *Store) RecordInstalledState(mod *models.Mod) error {
	st, ok := mod.State().(models.Installed)
	if !ok {
		return fmt.Errorf("cannot record '%s': state is %s", mod.Name, models.StateName(mod.State()))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Mods[mod.Name] = InstalledRecord{Version: versionString(st.Version), Enabled: st.Enabled}
	return s.save()
}

func (s *Store) RecordUninstall(mod *models.Mod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.Mods[mod.Name]; !ok {
		return nil
	}
	delete(s.data.Mods, mod.Name)
	return s.save()
}

/**
 * Record runtime support state
 * @param {models.State} state - NotInstalled clears the record
 */
func (s *Store) RecordApiState(state models.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch st := state.(type) {
	case models.NotInstalled:
		s.data.ApiInstall = nil
	case models.Installed:
		s.data.ApiInstall = &InstalledRecord{Version: versionString(st.Version), Enabled: st.Enabled}
	default:
		return fmt.Errorf("unexpected state %T", state)
	}
	return s.save()
}

func (s *Store) ApiInstall() models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.ApiInstall == nil {
		return models.NotInstalled{}
	}
	ver, err := version.NewVersion(s.data.ApiInstall.Version)
	if err != nil {
		logger.Warnf("Recorded runtime support version '%s' is invalid: %v", s.data.ApiInstall.Version, err)
		ver = version.Must(version.NewVersion("0.0.0"))
	}
	return models.Installed{Enabled: s.data.ApiInstall.Enabled, Version: ver, Updated: true}
}

/**
 * Seed the state of a catalog entry from the record
 * @param {models.Manifest} m - Catalog entry
 * @returns {models.State} Installed with Updated set when the recorded version equals the catalog version
 */
func (s *Store) FromManifest(m models.Manifest) models.State {
	s.mu.RLock()
	rec, ok := s.data.Mods[m.Name]
	s.mu.RUnlock()
	if !ok {
		return models.NotInstalled{}
	}
	installed, err := version.NewVersion(rec.Version)
	if err != nil {
		logger.Warnf("Recorded version '%s' of '%s' is invalid: %v", rec.Version, m.Name, err)
		return models.Installed{Enabled: rec.Enabled, Version: version.Must(version.NewVersion("0.0.0"))}
	}
	updated := false
	if latest, err := version.NewVersion(m.Version); err == nil {
		updated = installed.Equal(latest)
	}
	return models.Installed{Enabled: rec.Enabled, Version: installed, Updated: updated}
}

// Records 返回记录快照
func (s *Store) Records() map[string]InstalledRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]InstalledRecord, len(s.data.Mods))
	for k, v := range s.data.Mods {
		out[k] = v
	}
	return out
}

/**
 * Drop records whose files are gone
 * @param {string} modsDir - Active root
 * @param {string} disabledDir - Inactive root
 * @returns {[]string} Names of dropped records
 * @returns {error} Error if the file cannot be written
 * @description
 * - A record survives when "<root>/<name>" exists in either root
 * - The record's Enabled flag follows the root the directory was found in
 */
func (s *Store) Reconcile(modsDir, disabledDir string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var dropped []string
	changed := false
	for name, rec := range s.data.Mods {
		inMods := dirExists(filepath.Join(modsDir, name))
		inDisabled := dirExists(filepath.Join(disabledDir, name))
		switch {
		case !inMods && !inDisabled:
			delete(s.data.Mods, name)
			dropped = append(dropped, name)
			changed = true
		case inMods != rec.Enabled && inMods != inDisabled:
			rec.Enabled = inMods
			s.data.Mods[name] = rec
			changed = true
		}
	}
	if !changed {
		return nil, nil
	}
	return dropped, s.save()
}

func (s *Store) save() error {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("write '%s' failed: %v", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace '%s' failed: %v", s.path, err)
	}
	return nil
}

func versionString(v *version.Version) string {
	if v == nil {
		return "0.0.0"
	}
	return v.Original()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
