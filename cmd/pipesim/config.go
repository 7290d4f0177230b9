package main

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// Config is the optional demonstration-only workload descriptor for
// cmd/pipesim. The core packages (pipeline, cache, ioctl) never read a
// file themselves; only this command loads one, and only when -config
// is given.
type Config struct {
	Cache struct {
		BlockSize  int `yaml:"blockSize"`
		Lines      int `yaml:"lines"`
		Ways       int `yaml:"ways"`
		MemorySize int `yaml:"memorySize"`
	} `yaml:"cache"`
	IODemo struct {
		Duration time.Duration `yaml:"duration"`
	} `yaml:"ioDemo"`
}

func defaultConfig() Config {
	cfg := Config{}
	cfg.Cache.BlockSize = 4
	cfg.Cache.Lines = 16
	cfg.Cache.Ways = 1
	cfg.Cache.MemorySize = 1024
	cfg.IODemo.Duration = 2 * time.Second
	return cfg
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("pipesim: reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("pipesim: parsing config %q: %w", path, err)
	}
	return cfg, nil
}
