package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all monologue configuration.
type Config struct {
	Extract ExtractConfig `yaml:"extract"`
	Server  ServerConfig  `yaml:"server"`
	Archive ArchiveConfig `yaml:"archive"`
}

// ExtractConfig is the pipeline configuration. The compiled-in defaults are
// used when the CLI is invoked without positional arguments.
type ExtractConfig struct {
	Input   string `yaml:"input"`
	Speaker string `yaml:"speaker"`
	Output  string `yaml:"output"`
	Policy  string `yaml:"policy"` // "single-line", "until-next-record"
	Format  string `yaml:"format"` // "single-line", "multi-line"
	Dedupe  bool   `yaml:"dedupe"` // off by default: breaks order/multiplicity
	Preview int    `yaml:"preview"`
}

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // resolved at runtime via store.DefaultDBPath()
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Extract: ExtractConfig{
			Input:   "chat.txt",
			Speaker: "swern",
			Output:  "1.txt",
			Policy:  "single-line",
			Format:  "single-line",
			Preview: 3,
		},
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37778,
		},
	}
}

// DefaultPath returns the default config location: ~/.monologue/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".monologue", "config.yaml")
}

// Load reads a YAML config file over the defaults. An empty path means the
// default location, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("MONOLOGUE_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if dbPath := os.Getenv("MONOLOGUE_DB"); dbPath != "" {
		cfg.Archive.Path = dbPath
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
