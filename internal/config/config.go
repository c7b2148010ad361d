package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultOutput = "./out/"
	DefaultSize   = 256

	MinSize = 1
	MaxSize = 4096
)

var (
	ErrNoInput    = errors.New("no input file given")
	ErrBadThreads = errors.New("thread count must not be negative")
	ErrBadSize    = fmt.Errorf("image size must be between %d and %d", MinSize, MaxSize)
)

// Config holds the settings of one run. Zero Threads means one worker per CPU.
type Config struct {
	Input    string `toml:"input"`
	Output   string `toml:"output"`
	Textures string `toml:"textures"`
	Threads  int    `toml:"threads"`
	Size     int    `toml:"size"`
	Verbose  bool   `toml:"verbose"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Output: DefaultOutput,
		Size:   DefaultSize,
	}
}

// LoadFile overlays the TOML file at path onto c. Keys absent from the file
// keep their current values; unknown keys are an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	return c.decode(data)
}

func (c *Config) decode(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// Validate checks the settings before any work starts.
func (c *Config) Validate() error {
	if c.Input == "" {
		return ErrNoInput
	}
	if c.Threads < 0 {
		return fmt.Errorf("%w: %d", ErrBadThreads, c.Threads)
	}
	if c.Size < MinSize || c.Size > MaxSize {
		return fmt.Errorf("%w: %d", ErrBadSize, c.Size)
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	return nil
}

// Workers resolves the worker pool size.
func (c *Config) Workers() int {
	if c.Threads > 0 {
		return c.Threads
	}
	return runtime.NumCPU()
}
