package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"modkeeper/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadWithContentDisposition(t *testing.T) {
	payload := strings.Repeat("x", 64*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="Alpha.zip"`)
		w.Write([]byte(payload))
	}))
	defer server.Close()

	var samples []models.DownloadProgress
	res, err := NewClient(5*time.Second).Download(context.Background(), server.URL+"/files/download?id=1", func(p models.DownloadProgress) {
		samples = append(samples, p)
	})
	require.NoError(t, err)
	assert.Equal(t, "Alpha.zip", res.FileName)
	assert.Equal(t, payload, string(res.Data))

	require.NotEmpty(t, samples)
	last := samples[len(samples)-1]
	assert.Equal(t, int64(len(payload)), last.BytesRead)
	for i := 1; i < len(samples); i++ {
		assert.GreaterOrEqual(t, samples[i].BytesRead, samples[i-1].BytesRead)
	}
}

func TestDownloadFallsBackToURLName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("dll"))
	}))
	defer server.Close()

	res, err := NewClient(0).Download(context.Background(), server.URL+"/releases/Beta.dll", nil)
	require.NoError(t, err)
	assert.Equal(t, "Beta.dll", res.FileName)
	assert.Equal(t, "dll", string(res.Data))
}

func TestDownloadRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := NewClient(0).Download(context.Background(), server.URL+"/missing.zip", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestDownloadHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewClient(0).Download(ctx, server.URL+"/slow.zip", nil)
	assert.Error(t, err)
}

func TestFileNameFromResponse(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	assert.Equal(t, "Gamma.zip", FileNameFromResponse(resp, "https://example.com/a/Gamma.zip?raw=1"))

	resp.Header.Set("Content-Disposition", `attachment; filename=""`)
	assert.Equal(t, "Gamma.zip", FileNameFromResponse(resp, "https://example.com/a/Gamma.zip"))

	resp.Header.Set("Content-Disposition", `attachment; filename=Delta.dll`)
	assert.Equal(t, "Delta.dll", FileNameFromResponse(resp, "https://example.com/a/Gamma.zip"))
}
