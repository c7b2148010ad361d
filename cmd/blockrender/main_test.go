package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"blockrender/internal/config"
	"blockrender/internal/render"
	"blockrender/internal/world"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags([]string{"-i", "blocks.bin"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "blocks.bin", cfg.Input)
	assert.Equal(t, "./out/", cfg.Output)
	assert.Equal(t, 256, cfg.Size)
	assert.Zero(t, cfg.Threads)
}

func TestParseFlagsErrors(t *testing.T) {
	_, err := parseFlags(nil, io.Discard)
	assert.ErrorIs(t, err, config.ErrNoInput)

	_, err = parseFlags([]string{"-i", "x", "--threads", "-2"}, io.Discard)
	assert.ErrorIs(t, err, config.ErrBadThreads)

	_, err = parseFlags([]string{"--bogus"}, io.Discard)
	assert.Error(t, err)

	_, err = parseFlags([]string{"--help"}, io.Discard)
	assert.ErrorIs(t, err, pflag.ErrHelp)

	_, err = parseFlags([]string{"-i", "x", "stray"}, io.Discard)
	assert.Error(t, err)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blockrender.toml")
	require.NoError(t, os.WriteFile(path, []byte("input = \"from-file.bin\"\nthreads = 2\nsize = 64\n"), 0o644))

	cfg, err := parseFlags([]string{"-c", path, "--threads", "5"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "from-file.bin", cfg.Input)
	assert.Equal(t, 5, cfg.Threads)
	assert.Equal(t, 64, cfg.Size)
}

func TestRunRendersPalette(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "blocks.bin")
	f, err := os.Create(input)
	require.NoError(t, err)
	require.NoError(t, world.Save(f, []*world.Block{
		{Name: "minecraft:stone"},
		{Name: "minecraft:oak_log", Properties: map[string]string{"axis": "x"}},
	}))
	require.NoError(t, f.Close())

	out := filepath.Join(dir, "nested", "out")
	cfg := config.Default()
	cfg.Input = input
	cfg.Output = out
	cfg.Size = 8
	cfg.Threads = 2

	var progress bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &progress))
	assert.FileExists(t, filepath.Join(out, render.Filename(0, "minecraft:stone")))
	assert.FileExists(t, filepath.Join(out, render.Filename(1, "minecraft:oak_log")))
	assert.Contains(t, progress.String(), "2 / 2")
}

func TestRunStartupErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Output = filepath.Join(dir, "out")

	cfg.Input = filepath.Join(dir, "missing.bin")
	assert.Error(t, run(context.Background(), cfg, io.Discard))

	cfg.Textures = filepath.Join(dir, "no-pack")
	assert.Error(t, run(context.Background(), cfg, io.Discard))

	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.Output = filepath.Join(blocker, "out")
	assert.Error(t, run(context.Background(), cfg, io.Discard))
}
