package utils

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/hashicorp/go-version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name  string   `json:"name"`
	State string   `json:"state"`
	Deps  []string `json:"deps"`
}

func capture(t *testing.T) *bytes.Buffer {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })
	return buf
}

func TestStructToOrderedMapKeepsOrder(t *testing.T) {
	m, err := StructToOrderedMap(row{Name: "Alpha", State: "enabled"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "state", "deps"}, m.Keys())
}

func TestPrintTable(t *testing.T) {
	buf := capture(t)
	require.NoError(t, Print(FormatTable, []row{
		{Name: "Alpha", State: "enabled", Deps: []string{"Core", "Lib"}},
		{Name: "Beta", State: "not-installed"},
	}))
	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Core,Lib")
	assert.Less(t, strings.Index(out, "Alpha"), strings.Index(out, "Beta"))
}

func TestPrintJSONAndYAML(t *testing.T) {
	buf := capture(t)
	require.NoError(t, Print(FormatJSON, row{Name: "Alpha"}))
	assert.Contains(t, buf.String(), `"name": "Alpha"`)

	buf.Reset()
	require.NoError(t, Print(FormatYAML, row{Name: "Alpha", Deps: []string{"Core"}}))
	assert.Contains(t, buf.String(), "name: Alpha")
	assert.Contains(t, buf.String(), "- Core")

	assert.Error(t, Print("xml", row{}))
}

func TestVersionHelpers(t *testing.T) {
	assert.Equal(t, "-", FormatVersion(nil))
	assert.Equal(t, "1.2.0", FormatVersion(version.Must(version.NewVersion("1.2.0"))))
	assert.True(t, UpdateAvailable("1.0.0", "1.1.0"))
	assert.False(t, UpdateAvailable("1.1.0", "1.1.0"))
	assert.False(t, UpdateAvailable("", "1.1.0"))
}
