package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	Schema         int    `json:"schema"`
	ServerURL      string `json:"server_url"`
	APIKey         string `json:"api_key,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	PageSize       int    `json:"page_size,omitempty"`
	DataDir        string `json:"data_dir,omitempty"`
}

const CurrentConfigSchema = 1

// DefaultServerURL matches the server's default listen address.
const DefaultServerURL = "http://127.0.0.1:8791"

func DefaultConfig() *Config {
	return &Config{
		Schema:         CurrentConfigSchema,
		ServerURL:      DefaultServerURL,
		TimeoutSeconds: 30,
		PageSize:       20,
		DataDir:        defaultDataDir(),
	}
}

func Load(configPath string) (*Config, error) {
	paths := getConfigPaths(configPath)

	for _, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		var cfg Config
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}

		cfg.applyDefaults()
		return &cfg, nil
	}

	return DefaultConfig(), nil
}

func getConfigPaths(explicit string) []string {
	home, _ := os.UserHomeDir()

	var paths []string

	if explicit != "" {
		paths = append(paths, explicit)
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "ipcq", "config.json"))

	return paths
}

func defaultDataDir() string {
	xdgData := os.Getenv("XDG_DATA_HOME")
	if xdgData == "" {
		home, _ := os.UserHomeDir()
		xdgData = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(xdgData, "ipcq")
}

func (c *Config) applyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.PageSize <= 0 {
		c.PageSize = 20
	}
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if len(c.DataDir) > 0 && c.DataDir[0] == '~' {
		home, _ := os.UserHomeDir()
		c.DataDir = filepath.Join(home, c.DataDir[1:])
	}
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

func (c *Config) PageCacheDir() string {
	return filepath.Join(c.DataDir, "pages")
}
