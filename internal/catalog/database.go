package catalog

import (
	"fmt"
	"sort"
	"sync"

	"modkeeper/internal/models"

	"github.com/hashicorp/go-version"
)

// StateSource 根据本地记录推导目录项的初始状态
type StateSource interface {
	FromManifest(m models.Manifest) models.State
}

/**
 * Database holds the catalog as mods sorted by name
 */
type Database struct {
	mu    sync.RWMutex
	items []*models.Mod
	index map[string]*models.Mod
}

/**
 * Build a database from a fetched catalog
 * @param {StateSource} source - Seeds each mod's state
 * @param {*models.ModLinks} ml - Parsed catalog
 * @returns {*Database} Database sorted by name
 * @returns {error} Error if a manifest version cannot be parsed
 */
func NewDatabase(source StateSource, ml *models.ModLinks) (*Database, error) {
	db := &Database{}
	if err := db.Load(source, ml); err != nil {
		return nil, err
	}
	return db, nil
}

/**
 * Replace the database contents
 * @param {StateSource} source - Seeds each mod's state
 * @param {*models.ModLinks} ml - Parsed catalog
 * @returns {error} Error if a manifest version cannot be parsed, contents are untouched then
 */
func (db *Database) Load(source StateSource, ml *models.ModLinks) error {
	items := make([]*models.Mod, 0, len(ml.Manifests))
	index := make(map[string]*models.Mod, len(ml.Manifests))
	for _, m := range ml.Manifests {
		ver, err := version.NewVersion(m.Version)
		if err != nil {
			return fmt.Errorf("manifest '%s' has invalid version '%s': %w", m.Name, m.Version, err)
		}
		link := m.Links.Current()
		if link == nil {
			return fmt.Errorf("manifest '%s' has no download link for this platform", m.Name)
		}
		mod := models.NewMod(m.Name, link.URL, ver, link.Sha256, m.Dependencies, source.FromManifest(m))
		mod.Description = m.Description
		mod.Repository = m.Repository
		items = append(items, mod)
		index[m.Name] = mod
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})

	db.mu.Lock()
	db.items = items
	db.index = index
	db.mu.Unlock()
	return nil
}

// Items 返回按名称排序的模组列表
func (db *Database) Items() []*models.Mod {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]*models.Mod, len(db.items))
	copy(out, db.items)
	return out
}

func (db *Database) Find(name string) *models.Mod {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.index[name]
}
