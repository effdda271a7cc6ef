package models

import (
	"sync"

	"github.com/hashicorp/go-version"
)

/**
 * Mod is one catalog entry together with its mutable installation state
 * @property {string} Name - Unique identifier, also the directory name under the active/inactive roots
 * @property {string} Link - Download URL for the running OS
 * @property {*version.Version} Version - Version advertised by the catalog
 * @property {string} Sha256 - Expected SHA-256 of the downloaded payload (hex)
 * @property {[]string} Dependencies - Names of mods this one depends on, in declaration order
 */
type Mod struct {
	Name         string
	Link         string
	Version      *version.Version
	Sha256       string
	Description  string
	Repository   string
	Dependencies []string

	mu    sync.RWMutex
	state State
}

func NewMod(name, link string, ver *version.Version, sha256 string, deps []string, state State) *Mod {
	if state == nil {
		state = NotInstalled{}
	}
	return &Mod{
		Name:         name,
		Link:         link,
		Version:      ver,
		Sha256:       sha256,
		Dependencies: deps,
		state:        state,
	}
}

func (m *Mod) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return NotInstalled{}
	}
	return m.state
}

func (m *Mod) SetState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

/**
 * Mod object (serialized to JSON format)
 */
type ModDetail struct {
	Name             string   `json:"name"`
	Version          string   `json:"version"`
	Description      string   `json:"description"`
	Repository       string   `json:"repository"`
	Link             string   `json:"link"`
	Dependencies     []string `json:"dependencies"`
	State            string   `json:"state"`
	Installed        bool     `json:"installed"`
	Enabled          bool     `json:"enabled"`
	InstalledVersion string   `json:"installedVersion,omitempty"`
	Updated          bool     `json:"updated"`
}

func (m *Mod) GetDetail() ModDetail {
	detail := ModDetail{
		Name:         m.Name,
		Description:  m.Description,
		Repository:   m.Repository,
		Link:         m.Link,
		Dependencies: m.Dependencies,
	}
	if m.Version != nil {
		detail.Version = m.Version.Original()
	}
	if detail.Dependencies == nil {
		detail.Dependencies = []string{}
	}
	st := m.State()
	detail.State = StateName(st)
	if inst, ok := st.(Installed); ok {
		detail.Installed = true
		detail.Enabled = inst.Enabled
		detail.Updated = inst.Updated
		if inst.Version != nil {
			detail.InstalledVersion = inst.Version.Original()
		}
	}
	return detail
}

/**
 * Runtime support state (serialized to JSON format)
 */
type ApiDetail struct {
	State     string `json:"state"`
	Installed bool   `json:"installed"`
	Enabled   bool   `json:"enabled"`
	Version   string `json:"version,omitempty"`
}

func NewApiDetail(st State) ApiDetail {
	detail := ApiDetail{State: StateName(st)}
	if inst, ok := st.(Installed); ok {
		detail.Installed = true
		detail.Enabled = inst.Enabled
		if inst.Version != nil {
			detail.Version = inst.Version.Original()
		}
	}
	return detail
}
