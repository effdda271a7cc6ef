package store

import (
	"os"
	"path/filepath"
	"testing"

	"modkeeper/internal/models"

	"github.com/hashicorp/go-version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMod(name, ver string, st models.State) *models.Mod {
	return models.NewMod(name, "https://example.com/"+name+".zip", version.Must(version.NewVersion(ver)), "", nil, st)
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "InstalledMods.json"))
	require.NoError(t, err)
	assert.Empty(t, s.Records())
	assert.Equal(t, models.NotInstalled{}, s.ApiInstall())
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "InstalledMods.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestRecordAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "InstalledMods.json")
	s, err := Load(path)
	require.NoError(t, err)

	v := version.Must(version.NewVersion("1.0.2.0"))
	alpha := newMod("Alpha", "1.0.2.0", models.Installed{Enabled: true, Version: v, Updated: true})
	beta := newMod("Beta", "2.0.0.0", models.Installed{Enabled: false, Version: version.Must(version.NewVersion("1.9.0.0"))})
	require.NoError(t, s.RecordInstalledState(alpha))
	require.NoError(t, s.RecordInstalledState(beta))
	require.NoError(t, s.RecordApiState(models.Installed{Enabled: false, Version: version.Must(version.NewVersion("1.0.0"))}))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]InstalledRecord{
		"Alpha": {Version: "1.0.2.0", Enabled: true},
		"Beta":  {Version: "1.9.0.0", Enabled: false},
	}, reloaded.Records())

	api, ok := reloaded.ApiInstall().(models.Installed)
	require.True(t, ok)
	assert.False(t, api.Enabled)
	assert.Equal(t, 1, api.Version.Segments()[0])

	st := reloaded.FromManifest(models.Manifest{Name: "Alpha", Version: "1.0.2.0"})
	assert.Equal(t, models.Installed{Enabled: true, Version: st.(models.Installed).Version, Updated: true}, st)

	st = reloaded.FromManifest(models.Manifest{Name: "Beta", Version: "2.0.0.0"})
	inst := st.(models.Installed)
	assert.False(t, inst.Updated)
	assert.False(t, inst.Enabled)

	assert.Equal(t, models.NotInstalled{}, reloaded.FromManifest(models.Manifest{Name: "Gamma", Version: "1.0"}))
}

func TestRecordInstalledStateRejectsNotInstalled(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "InstalledMods.json"))
	require.NoError(t, err)
	assert.Error(t, s.RecordInstalledState(newMod("Alpha", "1.0", models.NotInstalled{})))
}

func TestRecordUninstall(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "InstalledMods.json"))
	require.NoError(t, err)
	v := version.Must(version.NewVersion("1.0"))
	alpha := newMod("Alpha", "1.0", models.Installed{Enabled: true, Version: v})
	require.NoError(t, s.RecordInstalledState(alpha))

	require.NoError(t, s.RecordUninstall(alpha))
	require.NoError(t, s.RecordUninstall(alpha))
	assert.Empty(t, s.Records())

	require.NoError(t, s.RecordApiState(models.NotInstalled{}))
	assert.Equal(t, models.NotInstalled{}, s.ApiInstall())
}

func TestReconcile(t *testing.T) {
	root := t.TempDir()
	mods := filepath.Join(root, "plugins")
	disabled := filepath.Join(root, "Disabled")
	require.NoError(t, os.MkdirAll(filepath.Join(mods, "Alpha"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(mods, "Beta"), 0755))

	s, err := Load(filepath.Join(root, "InstalledMods.json"))
	require.NoError(t, err)
	v := version.Must(version.NewVersion("1.0"))
	require.NoError(t, s.RecordInstalledState(newMod("Alpha", "1.0", models.Installed{Enabled: true, Version: v})))
	require.NoError(t, s.RecordInstalledState(newMod("Beta", "1.0", models.Installed{Enabled: false, Version: v})))
	require.NoError(t, s.RecordInstalledState(newMod("Gone", "1.0", models.Installed{Enabled: true, Version: v})))

	dropped, err := s.Reconcile(mods, disabled)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gone"}, dropped)
	assert.Equal(t, map[string]InstalledRecord{
		"Alpha": {Version: "1.0", Enabled: true},
		"Beta":  {Version: "1.0", Enabled: true},
	}, s.Records())
}
