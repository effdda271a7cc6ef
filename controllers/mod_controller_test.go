package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"modkeeper/internal/config"
	"modkeeper/internal/download"
	"modkeeper/internal/integrity"
	"modkeeper/internal/models"
	"modkeeper/internal/store"
	"modkeeper/services"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memDownloader map[string]*download.Result

func (m memDownloader) Download(ctx context.Context, url string, progress download.ProgressFunc) (*download.Result, error) {
	res, ok := m[url]
	if !ok {
		return nil, fmt.Errorf("download '%s': unexpected status 404 Not Found", url)
	}
	return res, nil
}

type memFetcher struct{ ml *models.ModLinks }

func (f memFetcher) FetchContent(ctx context.Context) (*models.ModLinks, error) {
	return f.ml, nil
}

func zipOf(t *testing.T, name, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	root := t.TempDir()
	cfg := &config.AppConfig{
		Install: config.InstallConfig{ManagedDir: root, ModsDir: "BepInEx/plugins", DisabledDir: "../Disabled"},
		Api: config.ApiConfig{
			Url: "https://mods.example/loader.zip", Version: "1.0.0", RequiredMajor: 1,
			ActiveFile: "winhttp.dll", ShelvedFile: "winhttp.dll.v",
		},
		State: config.StateConfig{Path: filepath.Join(root, "InstalledMods.json")},
	}
	installed, err := store.Load(cfg.State.Path)
	require.NoError(t, err)

	alpha := zipOf(t, "Alpha.dll", "alpha")
	dl := memDownloader{
		"https://mods.example/loader.zip": {Data: zipOf(t, "winhttp.dll", "x"), FileName: "loader.zip"},
		"https://mods.example/Alpha.zip":  {Data: alpha, FileName: "Alpha.zip"},
		"https://mods.example/Bad.zip":    {Data: alpha, FileName: "Bad.zip"},
	}
	fetcher := memFetcher{ml: &models.ModLinks{Manifests: []models.Manifest{
		{Name: "Alpha", Version: "1.0", Links: models.Links{Single: &models.Link{URL: "https://mods.example/Alpha.zip", Sha256: integrity.Sha256Hex(alpha)}}},
		{Name: "Bad", Version: "1.0", Links: models.Links{Single: &models.Link{URL: "https://mods.example/Bad.zip", Sha256: "00"}}},
	}}}

	mods, err := services.NewModManager(cfg, installed, fetcher, dl)
	require.NoError(t, err)
	require.NoError(t, mods.Reload(context.Background()))

	r := gin.New()
	NewModController(mods).RegisterRoutes(r)
	NewAPIController(services.NewServer(cfg, mods)).RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestListMods(t *testing.T) {
	r := setupRouter(t)

	w := do(r, "GET", APIPrefix+"/mods")
	require.Equal(t, 200, w.Code)
	mods := decode[[]models.ModDetail](t, w)
	require.Len(t, mods, 2)
	assert.Equal(t, "Alpha", mods[0].Name)
	assert.Equal(t, models.StateNotInstalled, mods[0].State)
}

func TestModLifecycleOverHTTP(t *testing.T) {
	r := setupRouter(t)

	w := do(r, "POST", APIPrefix+"/mods/Alpha/install?enable=false")
	require.Equal(t, 200, w.Code, w.Body.String())
	assert.Equal(t, models.StateDisabled, decode[models.ModDetail](t, w).State)

	w = do(r, "POST", APIPrefix+"/mods/Alpha/toggle")
	require.Equal(t, 200, w.Code)
	assert.Equal(t, models.StateEnabled, decode[models.ModDetail](t, w).State)

	w = do(r, "DELETE", APIPrefix+"/mods/Alpha")
	require.Equal(t, 200, w.Code)
	assert.Equal(t, models.StateNotInstalled, decode[models.ModDetail](t, w).State)

	w = do(r, "GET", APIPrefix+"/api")
	require.Equal(t, 200, w.Code)
	assert.True(t, decode[models.ApiDetail](t, w).Enabled)

	w = do(r, "POST", APIPrefix+"/api/toggle")
	require.Equal(t, 200, w.Code)
	assert.False(t, decode[models.ApiDetail](t, w).Enabled)

	w = do(r, "POST", APIPrefix+"/api/install")
	require.Equal(t, 200, w.Code)
	assert.True(t, decode[models.ApiDetail](t, w).Enabled)
}

func TestModErrorsOverHTTP(t *testing.T) {
	r := setupRouter(t)

	w := do(r, "GET", APIPrefix+"/mods/Ghost")
	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "mod.not_found", decode[models.ErrorResponse](t, w).Code)

	w = do(r, "POST", APIPrefix+"/mods/Alpha/toggle")
	assert.Equal(t, 409, w.Code)
	assert.Equal(t, "mod.invalid_operation", decode[models.ErrorResponse](t, w).Code)

	// 运行时支持包尚未安装，必须在任何安装请求之前检查
	w = do(r, "POST", APIPrefix+"/api/toggle")
	assert.Equal(t, 409, w.Code)
	assert.Equal(t, "mod.invalid_operation", decode[models.ErrorResponse](t, w).Code)

	w = do(r, "POST", APIPrefix+"/mods/Bad/install")
	assert.Equal(t, 422, w.Code)
	assert.Equal(t, "mod.checksum_mismatch", decode[models.ErrorResponse](t, w).Code)

	w = do(r, "POST", APIPrefix+"/mods/Alpha/install?enable=maybe")
	assert.Equal(t, 400, w.Code)

	// 失败的安装已经装好运行时支持包
	w = do(r, "POST", APIPrefix+"/api/toggle")
	assert.Equal(t, 200, w.Code)
	assert.False(t, decode[models.ApiDetail](t, w).Enabled)
}

func TestHealthzAndMetrics(t *testing.T) {
	r := setupRouter(t)

	w := do(r, "GET", "/healthz")
	require.Equal(t, 200, w.Code)
	health := decode[models.HealthResponse](t, w)
	assert.Equal(t, "UP", health.Status)
	assert.Equal(t, 2, health.Metrics.TotalMods)

	w = do(r, "GET", "/metrics")
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "modkeeper_download_bytes_total")
}

func TestReloadAppliesConfiguration(t *testing.T) {
	r := setupRouter(t)
	prev := config.App()
	defer config.SetApp(prev)

	next := t.TempDir()
	file := filepath.Join(t.TempDir(), "modkeeper.yaml")
	writeConfig := func(managed string) {
		require.NoError(t, os.WriteFile(file, []byte(fmt.Sprintf(`install:
  managed_dir: %q
api:
  url: https://mods.example/loader.zip
  version: 1.0.0
`, managed)), 0644))
	}
	writeConfig(next)
	require.NoError(t, config.Load(file))
	config.SetApp(prev)

	w := do(r, "POST", APIPrefix+"/reload")
	require.Equal(t, 200, w.Code, w.Body.String())
	assert.Equal(t, next, config.App().Install.ManagedDir)

	w = do(r, "POST", APIPrefix+"/mods/Alpha/install")
	require.Equal(t, 200, w.Code, w.Body.String())
	assert.FileExists(t, filepath.Join(next, "BepInEx", "plugins", "Alpha", "Alpha.dll"))

	// 无效配置不会生效
	writeConfig("")
	w = do(r, "POST", APIPrefix+"/reload")
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "config.invalid", decode[models.ErrorResponse](t, w).Code)
	assert.Equal(t, next, config.App().Install.ManagedDir)
}
