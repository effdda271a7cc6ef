package models

import (
	"testing"

	"github.com/hashicorp/go-version"
	"github.com/stretchr/testify/assert"
)

func TestStateName(t *testing.T) {
	v := version.Must(version.NewVersion("1.2.0.0"))
	assert.Equal(t, StateNotInstalled, StateName(NotInstalled{}))
	assert.Equal(t, StateEnabled, StateName(Installed{Enabled: true, Version: v}))
	assert.Equal(t, StateDisabled, StateName(Installed{Version: v}))
}

func TestModDetail(t *testing.T) {
	v := version.Must(version.NewVersion("1.2.0.0"))
	m := NewMod("Alpha", "https://example.com/alpha.zip", v, "ABC", nil, nil)
	d := m.GetDetail()
	assert.Equal(t, StateNotInstalled, d.State)
	assert.False(t, d.Installed)
	assert.Equal(t, "1.2.0.0", d.Version)
	assert.Equal(t, []string{}, d.Dependencies)

	m.SetState(Installed{Enabled: false, Version: v, Updated: true})
	d = m.GetDetail()
	assert.Equal(t, StateDisabled, d.State)
	assert.True(t, d.Installed)
	assert.True(t, d.Updated)
	assert.Equal(t, "1.2.0.0", d.InstalledVersion)
}

func TestLinksForOS(t *testing.T) {
	win := &Link{URL: "w"}
	mac := &Link{URL: "m"}
	lin := &Link{URL: "l"}
	links := Links{Windows: win, Mac: mac, Linux: lin}
	assert.Same(t, win, links.ForOS("windows"))
	assert.Same(t, mac, links.ForOS("darwin"))
	assert.Same(t, lin, links.ForOS("linux"))

	single := &Link{URL: "s"}
	assert.Same(t, single, Links{Single: single}.ForOS("windows"))
}

func TestDownloadProgressPercent(t *testing.T) {
	assert.Equal(t, float64(-1), DownloadProgress{BytesRead: 5, TotalBytes: -1}.Percent())
	assert.Equal(t, float64(50), DownloadProgress{BytesRead: 5, TotalBytes: 10}.Percent())
}
