package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"pagesim/paging"
)

// Config of the simulator. Zero values are replaced by the defaults.
type Config struct {
	PageSize    int    `json:"page_size"`
	MemorySize  int    `json:"memory_size"`
	LogPath     string `json:"log_path"`
	LogLevel    string `json:"log_level"`
	HTTPAddr    string `json:"http_addr"`
	DumpPath    string `json:"dump_path"`
	StepDelay   int    `json:"step_delay_ms"`
	Seed        int64  `json:"seed"`
	HistorySize int    `json:"history_size"`
}

// defaults:
const (
	DefaultLogPath     = "pagesim.log"
	DefaultLogLevel    = "INFO"
	DefaultHTTPAddr    = ":8080"
	DefaultDumpPath    = "pagesim.dot"
	DefaultHistorySize = 64
)

// Default returns the configuration used without a config file
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the JSON file at path. An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	c := &Config{}
	if err := setupConfig(path, c); err != nil {
		return nil, errors.Wrapf(err, "can't load config %s", path)
	}
	c.applyDefaults()
	if err := c.Geometry().Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

// Geometry of the simulated memory
func (c *Config) Geometry() paging.Geometry {
	return paging.Geometry{PageSize: c.PageSize, MemorySize: c.MemorySize}
}

func (c *Config) applyDefaults() {
	if c.PageSize == 0 {
		c.PageSize = paging.PageSize
	}
	if c.MemorySize == 0 {
		c.MemorySize = paging.PhysicalMemorySize
	}
	if c.LogPath == "" {
		c.LogPath = DefaultLogPath
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
	if c.DumpPath == "" {
		c.DumpPath = DefaultDumpPath
	}
	if c.HistorySize <= 0 {
		c.HistorySize = DefaultHistorySize
	}
}

func setupConfig(filePath string, config interface{}) error {
	configFile, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer configFile.Close()

	jsonParser := json.NewDecoder(configFile)
	jsonParser.DisallowUnknownFields()
	return jsonParser.Decode(config)
}
