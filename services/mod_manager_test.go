package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"modkeeper/internal/config"
	"modkeeper/internal/integrity"
	"modkeeper/internal/models"
	"modkeeper/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFetcher struct {
	ml  *models.ModLinks
	err error
}

func (f *staticFetcher) FetchContent(ctx context.Context) (*models.ModLinks, error) {
	return f.ml, f.err
}

func newTestManager(t *testing.T) (*ModManager, *fakeDownloader, *staticFetcher) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.AppConfig{
		Install: config.InstallConfig{ManagedDir: root, ModsDir: "BepInEx/plugins", DisabledDir: "../Disabled"},
		Api: config.ApiConfig{
			Url: apiURL, Version: "1.0.0", RequiredMajor: 1,
			ActiveFile: "winhttp.dll", ShelvedFile: "winhttp.dll.v",
		},
		State: config.StateConfig{Path: filepath.Join(root, "InstalledMods.json")},
	}
	installed, err := store.Load(cfg.State.Path)
	require.NoError(t, err)

	alpha := makeZip(t, map[string]string{"Alpha.dll": "a"})
	dl := &fakeDownloader{files: map[string]payload{
		apiURL:                                 {data: makeZip(t, map[string]string{"winhttp.dll": "x"}), filename: "loader.zip"},
		"https://mods.example/Alpha/Alpha.zip": {data: alpha, filename: "Alpha.zip"},
	}}
	fetcher := &staticFetcher{ml: &models.ModLinks{Manifests: []models.Manifest{
		{Name: "Beta", Version: "2.0", Links: models.Links{Single: &models.Link{URL: "https://mods.example/Beta/Beta.zip"}}},
		{Name: "Alpha", Version: "1.0", Links: models.Links{Single: &models.Link{URL: "https://mods.example/Alpha/Alpha.zip", Sha256: integrity.Sha256Hex(alpha)}}},
	}}}

	m, err := NewModManager(cfg, installed, fetcher, dl)
	require.NoError(t, err)
	require.NoError(t, m.Reload(context.Background()))
	return m, dl, fetcher
}

func TestModManagerLifecycle(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	mods := m.GetMods()
	require.Len(t, mods, 2)
	assert.Equal(t, "Alpha", mods[0].Name)
	assert.Equal(t, models.StateNotInstalled, mods[0].State)

	require.NoError(t, m.Install(ctx, "Alpha", true, nil))
	assert.Equal(t, models.StateEnabled, m.GetMods()[0].State)
	assert.True(t, m.ApiState().Enabled)

	require.NoError(t, m.Toggle(ctx, "Alpha"))
	assert.Equal(t, models.StateDisabled, m.GetMods()[0].State)

	require.NoError(t, m.Uninstall(ctx, "Alpha"))
	assert.Equal(t, models.StateNotInstalled, m.GetMods()[0].State)

	require.NoError(t, m.ToggleApi(ctx))
	assert.False(t, m.ApiState().Enabled)
	require.NoError(t, m.InstallApi(ctx))
	assert.True(t, m.ApiState().Enabled)
}

func TestModManagerUnknownMod(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	assert.ErrorIs(t, m.Install(ctx, "Ghost", true, nil), ErrModNotFound)
	assert.ErrorIs(t, m.Uninstall(ctx, "Ghost"), ErrModNotFound)
	assert.ErrorIs(t, m.Toggle(ctx, "Ghost"), ErrModNotFound)
}

func TestModManagerReloadKeepsInstalledState(t *testing.T) {
	m, _, fetcher := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, m.Install(ctx, "Alpha", false, nil))

	fetcher.ml.Manifests[1].Version = "1.1"
	require.NoError(t, m.Reload(ctx))

	alpha, err := m.GetMod("Alpha")
	require.NoError(t, err)
	st, ok := alpha.State().(models.Installed)
	require.True(t, ok)
	assert.False(t, st.Enabled)
	assert.False(t, st.Updated)
}

func TestModManagerReloadFailureKeepsCatalog(t *testing.T) {
	m, _, fetcher := newTestManager(t)
	fetcher.err = errors.New("offline")

	assert.Error(t, m.Reload(context.Background()))
	assert.Len(t, m.GetMods(), 2)
}

func TestNewModManagerRejectsBadApiVersion(t *testing.T) {
	_, err := NewModManager(&config.AppConfig{Api: config.ApiConfig{Version: "x.y"}}, nil, nil, nil)
	assert.Error(t, err)
}

func TestServerHealthz(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Install(context.Background(), "Alpha", true, nil))

	health := NewServer(&config.AppConfig{}, m).GetHealthz()
	assert.Equal(t, "UP", health.Status)
	assert.Equal(t, 2, health.Metrics.TotalMods)
	assert.Equal(t, 1, health.Metrics.InstalledMods)
	assert.Equal(t, 1, health.Metrics.EnabledMods)
	assert.Equal(t, models.StateEnabled, health.Metrics.ApiState)
}

func TestModManagerReconfigure(t *testing.T) {
	m, dl, _ := newTestManager(t)
	ctx := context.Background()

	next := t.TempDir()
	const nextApi = "https://mods.example/api/loader-2.zip"
	dl.files[nextApi] = payload{data: makeZip(t, map[string]string{"winhttp.dll": "y"}), filename: "loader-2.zip"}

	cfg := *m.cfg
	cfg.Install.ManagedDir = next
	cfg.Api.Url = nextApi
	cfg.Api.Version = "2.0.0"
	require.NoError(t, m.Reconfigure(ctx, &cfg))

	require.NoError(t, m.Install(ctx, "Alpha", true, nil))
	assert.FileExists(t, filepath.Join(next, "BepInEx", "plugins", "Alpha", "Alpha.dll"))
	assert.FileExists(t, filepath.Join(next, "winhttp.dll"))
	assert.Equal(t, "2.0.0", m.ApiState().Version)
	assert.Equal(t, 1, countURL(dl, nextApi))
	assert.Equal(t, 0, countURL(dl, apiURL))
}

func TestModManagerReconfigureRejectsInvalid(t *testing.T) {
	m, _, _ := newTestManager(t)
	before := m.installer.settings

	cfg := *m.cfg
	cfg.Api.Version = "not-a-version"
	assert.Error(t, m.Reconfigure(context.Background(), &cfg))

	cfg = *m.cfg
	cfg.Install.ManagedDir = ""
	assert.Error(t, m.Reconfigure(context.Background(), &cfg))
	assert.Same(t, before, m.installer.settings)
}

func countURL(dl *fakeDownloader, url string) int {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	n := 0
	for _, c := range dl.calls {
		if c == url {
			n++
		}
	}
	return n
}
