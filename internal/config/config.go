// Package config loads the viewer and relay configuration from a TOML file
// with environment overrides for deployment secrets.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Catalog selects the media source: a SQLite database when DBPath is set,
// otherwise a JSON file.
type Catalog struct {
	DBPath   string `toml:"db_path"`
	FilePath string `toml:"file_path"`
}

// Relay configures the control relay server and, optionally, the Valkey bus
// that lets several relays share sessions.
type Relay struct {
	Bind       string `toml:"bind"`
	ValkeyAddr string `toml:"valkey_addr"`
	BusChannel string `toml:"bus_channel"`
}

// Viewer configures the desktop window and the default arrangement.
type Viewer struct {
	Title    string  `toml:"title"`
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	Seed     float64 `toml:"seed"`
	Zoom     float64 `toml:"zoom"`
	RelayURL string  `toml:"relay_url"`
	Session  string  `toml:"session"`
}

// Audio configures ambient playback.
type Audio struct {
	Enabled bool `toml:"enabled"`
}

// Logging configures log output.
type Logging struct {
	Format string `toml:"format"` // "text" or "json"
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
}

type Config struct {
	Catalog Catalog `toml:"catalog"`
	Relay   Relay   `toml:"relay"`
	Viewer  Viewer  `toml:"viewer"`
	Audio   Audio   `toml:"audio"`
	Logging Logging `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Catalog: Catalog{FilePath: "catalog.json"},
		Relay: Relay{
			Bind:       ":8090",
			BusChannel: "echoes",
		},
		Viewer: Viewer{
			Title:   "echoes",
			Width:   1280,
			Height:  800,
			Seed:    1,
			Zoom:    0,
			Session: "default",
		},
		Audio:   Audio{Enabled: true},
		Logging: Logging{Format: "text", Level: "info"},
	}
}

// Load reads the config at path, falling back to defaults when the file does
// not exist, then applies environment overrides and validates. A .env file in
// the working directory is honored.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Defaults plus environment only.
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrideString(&c.Catalog.DBPath, "ECHOES_CATALOG_DB")
	overrideString(&c.Catalog.FilePath, "ECHOES_CATALOG_FILE")
	overrideString(&c.Relay.Bind, "ECHOES_RELAY_BIND")
	overrideString(&c.Relay.ValkeyAddr, "ECHOES_VALKEY_ADDR")
	overrideString(&c.Relay.BusChannel, "ECHOES_BUS_CHANNEL")
	overrideString(&c.Viewer.RelayURL, "ECHOES_RELAY_URL")
	overrideString(&c.Viewer.Session, "ECHOES_SESSION")
	overrideFloat(&c.Viewer.Seed, "ECHOES_SEED")
	overrideFloat(&c.Viewer.Zoom, "ECHOES_ZOOM")
	overrideString(&c.Logging.Format, "ECHOES_LOG_FORMAT")
	overrideString(&c.Logging.Level, "ECHOES_LOG_LEVEL")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// Validate rejects configurations the viewer or relay cannot run with.
func (c *Config) Validate() error {
	if c.Catalog.DBPath == "" && c.Catalog.FilePath == "" {
		return errors.New("config: catalog needs db_path or file_path")
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("config: invalid viewer size %dx%d", c.Viewer.Width, c.Viewer.Height)
	}
	if c.Viewer.Zoom < 0 || c.Viewer.Zoom > 1 {
		return fmt.Errorf("config: viewer zoom %v outside [0,1]", c.Viewer.Zoom)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Logging.Level)
	}
	if c.Relay.Bind == "" {
		return errors.New("config: relay bind must not be empty")
	}
	return nil
}
