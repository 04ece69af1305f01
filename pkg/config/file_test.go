package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileMissing(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.False(t, f.AllowNonRootAccess())
	assert.Equal(t, 16, f.EventBuffer())
	assert.Nil(t, f.Defaults())
}

func TestNewFileEmpty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(p, []byte("  \n"), 0644))

	f, err := NewFile(p)
	require.NoError(t, err)
	assert.Equal(t, 16, f.EventBuffer())
}

func TestNewFileMalformed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte("{"), 0644))

	_, err := NewFile(p)
	assert.ErrorContains(t, err, "failed to unmarshal config")
}

func TestLoadDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "geomodel.json")
	body := `{"allowNonRootAccess": true, "eventBuffer": 0, "defaults": {"wavelength": 1.54e-10}}`
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))

	f, err := NewFile(p)
	require.NoError(t, err)

	assert.True(t, f.AllowNonRootAccess())
	assert.Equal(t, 16, f.EventBuffer(), "non-positive buffer falls back to default")
	assert.Equal(t, map[string]float64{"wavelength": 1.54e-10}, f.Defaults())

	// the returned map is a copy
	f.Defaults()["distance"] = 1
	assert.Len(t, f.Defaults(), 1)
}

func TestSaveThenLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "geomodel.json")
	f := NewFileFromConfig(nil, p)
	f.SetAllowNonRootAccess(true)
	f.SetEventBuffer(64)
	f.SetDefault("distance", 0.1)
	f.SetDefault("rotation1", 0)
	f.UnsetDefault("rotation1")
	require.NoError(t, f.Save())

	g, err := NewFile(p)
	require.NoError(t, err)
	assert.True(t, g.AllowNonRootAccess())
	assert.Equal(t, 64, g.EventBuffer())
	assert.Equal(t, map[string]float64{"distance": 0.1}, g.Defaults())

	raw, err := NewRawFileConfigFromConfig(g)
	require.NoError(t, err)
	assert.Equal(t, 64, *raw.EventBuffer)

	_, err = NewRawFileConfigFromConfig(nil)
	assert.Error(t, err)
}

func TestSetEventBufferRejectsNonPositive(t *testing.T) {
	f := NewFileFromConfig(nil, "")
	assert.Panics(t, func() { f.SetEventBuffer(0) })
}
