package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "./out/", c.Output)
	assert.Equal(t, 256, c.Size)
	assert.Zero(t, c.Threads)
	assert.ErrorIs(t, c.Validate(), ErrNoInput)
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blockrender.toml")
	require.NoError(t, os.WriteFile(path, []byte("input = \"blocks.bin\"\nthreads = 3\n"), 0o644))

	c := Default()
	require.NoError(t, c.LoadFile(path))
	assert.Equal(t, "blocks.bin", c.Input)
	assert.Equal(t, 3, c.Threads)
	assert.Equal(t, 256, c.Size, "absent keys keep defaults")
	assert.Equal(t, 3, c.Workers())
	require.NoError(t, c.Validate())
}

func TestLoadFileErrors(t *testing.T) {
	c := Default()
	assert.Error(t, c.LoadFile(filepath.Join(t.TempDir(), "missing.toml")))
	assert.Error(t, c.decode([]byte("colour = \"red\"\n")), "unknown keys are rejected")
	assert.Error(t, c.decode([]byte("threads = \"many\"\n")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		want error
	}{
		{"ok", func(c *Config) {}, nil},
		{"negative threads", func(c *Config) { c.Threads = -1 }, ErrBadThreads},
		{"zero size", func(c *Config) { c.Size = 0 }, ErrBadSize},
		{"huge size", func(c *Config) { c.Size = MaxSize + 1 }, ErrBadSize},
		{"no input", func(c *Config) { c.Input = "" }, ErrNoInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.Input = "blocks.bin"
			tt.mod(&c)
			err := c.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateRestoresEmptyOutput(t *testing.T) {
	c := Config{Input: "x", Size: 16}
	require.NoError(t, c.Validate())
	assert.Equal(t, DefaultOutput, c.Output)
}

func TestWorkersDefaultsToCPUs(t *testing.T) {
	c := Default()
	assert.Equal(t, runtime.NumCPU(), c.Workers())
}
