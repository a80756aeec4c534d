// Package config loads the optional inkjournal.yaml of a journal.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/inkjournal/pkg/adapters/fs"
	"github.com/aretw0/inkjournal/pkg/core"
	"github.com/aretw0/inkjournal/pkg/ink"
	"github.com/aretw0/inkjournal/pkg/recognition"
)

// FileName is the configuration file looked up in the journal root. The
// repository never reads it as a note.
const FileName = fs.ConfigFileName

// Recognition engines.
const (
	EngineNone   = "none"
	EngineStatic = "static"
	EngineHTTP   = "http"
)

// Config is the on-disk configuration of a journal.
type Config struct {
	Format     string     `yaml:"format"`
	Versioning bool       `yaml:"versioning"`
	Smoothing  Smoothing  `yaml:"smoothing"`
	Recognizer Recognizer `yaml:"recognizer"`
	Export     Export     `yaml:"export"`
	Server     Server     `yaml:"server"`
}

// Smoothing sets the centered moving-average window used when strokes are
// captured and, with Export.Smooth, when they are drawn. A window of 1
// leaves points untouched.
type Smoothing struct {
	Window int `yaml:"window"`
}

// Recognizer selects the handwriting recognition engine. Candidates feed
// the static engine; Endpoint, APIKeyEnv and Language the http one. The key
// itself is read from the environment variable named by APIKeyEnv.
type Recognizer struct {
	Engine     string   `yaml:"engine"`
	Endpoint   string   `yaml:"endpoint"`
	APIKeyEnv  string   `yaml:"api_key_env"`
	Language   string   `yaml:"language"`
	Candidates []string `yaml:"candidates,omitempty"`
}

// Export holds the PDF export defaults: whether strokes are smoothed when
// drawn and the directory the file is written to.
type Export struct {
	Smooth bool   `yaml:"smooth"`
	Dir    string `yaml:"dir"`
}

// Server configures the HTTP API. With Advertise set the journal is
// announced over mDNS under Name.
type Server struct {
	Addr      string `yaml:"addr"`
	Advertise bool   `yaml:"advertise"`
	Name      string `yaml:"name"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Format:    fs.FormatJSON,
		Smoothing: Smoothing{Window: ink.DefaultWindow},
		Recognizer: Recognizer{
			Engine:   EngineNone,
			Language: "en_US",
		},
		Export: Export{Smooth: true, Dir: "."},
		Server: Server{Addr: "127.0.0.1:8787", Name: "inkjournal"},
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects unsupported formats and engines and non-positive windows.
func (c Config) Validate() error {
	if _, err := fs.SerializerFor(c.Format); err != nil {
		return err
	}
	if c.Smoothing.Window <= 0 {
		return fmt.Errorf("smoothing.window must be positive, got %d", c.Smoothing.Window)
	}
	switch c.Recognizer.Engine {
	case "", EngineNone, EngineStatic:
	case EngineHTTP:
		if c.Recognizer.Endpoint == "" {
			return fmt.Errorf("recognizer.endpoint is required for the http engine")
		}
	default:
		return fmt.Errorf("unknown recognizer engine %q", c.Recognizer.Engine)
	}
	return nil
}

// Save writes the configuration as YAML, replacing any previous file
// atomically.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := fs.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// TextRecognizer builds the recognizer described by the configuration.
// It returns nil for the "none" engine.
func (c Config) TextRecognizer(logger *slog.Logger) core.TextRecognizer {
	r := c.Recognizer
	switch r.Engine {
	case EngineStatic:
		return recognition.NewService(recognition.Static{Candidates: r.Candidates}, recognition.WithLogger(logger))
	case EngineHTTP:
		var key string
		if r.APIKeyEnv != "" {
			key = os.Getenv(r.APIKeyEnv)
		}
		return recognition.NewService(recognition.NewHTTPEngine(r.Endpoint, key, r.Language), recognition.WithLogger(logger))
	default:
		return nil
	}
}
