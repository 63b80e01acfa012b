// Copyright 2026 The Fastlayer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hotpaths

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Config selects the implementation and the size thresholds
type Config struct {
	Impl  string `json:"impl,omitempty"`
	Small int    `json:"small"`
	Med   int    `json:"med"`
}

// DefaultConfig is the config used when nothing is cached or set
var DefaultConfig = Config{
	Impl:  "auto",
	Small: 8000,
	Med:   200000,
}

// CachePath is the path of the cached config file. FASTLAYER_CACHE overrides
// the cache directory.
func CachePath() string {
	dir := os.Getenv("FASTLAYER_CACHE")
	if dir == "" {
		var err error
		dir, err = os.UserCacheDir()
		if err != nil {
			dir = "."
		}
	}
	return filepath.Join(dir, "fastlayer.json")
}

func loadCached() Config {
	config := DefaultConfig
	data, err := os.ReadFile(CachePath())
	if err != nil {
		return config
	}
	cached := Config{}
	if err := json.Unmarshal(data, &cached); err != nil {
		debugf("bad config cache %s: %v", CachePath(), err)
		return config
	}
	if cached.Impl != "" {
		config.Impl = cached.Impl
	}
	if cached.Small > 0 {
		config.Small = cached.Small
	}
	if cached.Med > 0 {
		config.Med = cached.Med
	}
	return config
}

var (
	configOnce sync.Once
	config     Config
)

// LoadConfig is the config resolved from defaults, the cache file, and the
// environment, with the environment winning. The result is memoized, see
// Reload.
func LoadConfig() Config {
	configOnce.Do(func() {
		config = loadCached()
		if impl := os.Getenv("DOT_IMPL"); impl != "" {
			config.Impl = strings.ToLower(strings.TrimSpace(impl))
		}
		if small, err := strconv.Atoi(os.Getenv("DOT_SMALL")); err == nil && small > 0 {
			config.Small = small
		}
		if med, err := strconv.Atoi(os.Getenv("DOT_MED")); err == nil && med > 0 {
			config.Med = med
		}
		debugf("config: impl=%s small=%d med=%d", config.Impl, config.Small, config.Med)
	})
	return config
}

// Reload drops the memoized config so the next LoadConfig resolves it again
func Reload() {
	configOnce = sync.Once{}
}

// SaveConfig writes the config to the cache file
func SaveConfig(config Config) error {
	path := CachePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
