package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxItems        = 20
	DefaultRefreshInterval = 3600
	DefaultTimeout         = 30
	DefaultPostType        = "post"
)

var ErrSiteNotFound = errors.New("site not found")

type ConfigCache struct {
	sitesDir string
	cache    map[string]*Config
	mu       sync.RWMutex
}

func NewConfigCache(sitesDir string) *ConfigCache {
	return &ConfigCache{
		sitesDir: sitesDir,
		cache:    make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.sitesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.sitesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		siteName := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := cc.LoadConfig(siteName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Configuration loaded", "site", siteName, "upstream", config.HasUpstream(), "max_items", config.MaxItems)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(siteName string) (*Config, error) {
	if siteName == "" || strings.ContainsAny(siteName, `/\`) || strings.HasPrefix(siteName, ".") {
		return nil, fmt.Errorf("site name '%s': %w", siteName, ErrSiteNotFound)
	}

	configFile := cc.getConfigFilePath(siteName)
	if _, err := os.Stat(configFile); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("site config file %s: %w", configFile, ErrSiteNotFound)
	}

	siteConfig, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	siteConfig.Name = siteName

	if err := cc.validateConfig(siteConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[siteConfig.Name] = siteConfig

	return siteConfig, nil
}

func (cc *ConfigCache) GetConfig(siteName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	siteConfig, ok := cc.cache[siteName]
	if !ok {
		return nil, fmt.Errorf("site config with name '%s': %w", siteName, ErrSiteNotFound)
	}
	return siteConfig, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

// GetUpstreamConfigs returns the sites that import posts from an upstream feed.
func (cc *ConfigCache) GetUpstreamConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	upstreamConfigs := make(map[string]*Config)
	for k, v := range cc.cache {
		if v.HasUpstream() {
			upstreamConfigs[k] = v
		}
	}
	return upstreamConfigs
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var siteConfig Config
	if err := yaml.Unmarshal(data, &siteConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if siteConfig.MaxItems == 0 {
		siteConfig.MaxItems = DefaultMaxItems
	}
	if len(siteConfig.PostTypes) == 0 {
		siteConfig.PostTypes = map[string][]string{
			DefaultPostType: {"title", "excerpt", "thumbnail", "author"},
		}
	}
	if siteConfig.Upstream.PostType == "" {
		siteConfig.Upstream.PostType = DefaultPostType
	}
	if siteConfig.Upstream.RefreshInterval == 0 {
		siteConfig.Upstream.RefreshInterval = DefaultRefreshInterval
	}
	if siteConfig.Upstream.Timeout == 0 {
		siteConfig.Upstream.Timeout = DefaultTimeout
	}

	return &siteConfig, nil
}

func (cc *ConfigCache) validateConfig(siteConfig *Config) error {
	if siteConfig == nil {
		return fmt.Errorf("siteConfig is nil")
	}

	if siteConfig.Name == "" {
		return fmt.Errorf("site name is required")
	}

	if siteConfig.Title == "" && !siteConfig.HasUpstream() {
		return fmt.Errorf("title is required when no upstream feed is configured")
	}

	nonNegativeFields := map[string]int{
		"max items":        siteConfig.MaxItems,
		"refresh interval": siteConfig.Upstream.RefreshInterval,
		"timeout":          siteConfig.Upstream.Timeout,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	supports := make(map[string]Supports, len(siteConfig.PostTypes))
	for postType, names := range siteConfig.PostTypes {
		s, err := ParseSupports(names)
		if err != nil {
			return fmt.Errorf("post type %s: %w", postType, err)
		}
		supports[postType] = s
	}
	siteConfig.supports = supports

	if siteConfig.HasUpstream() {
		if _, ok := supports[siteConfig.Upstream.PostType]; !ok {
			return fmt.Errorf("upstream post type %s is not listed in post_types", siteConfig.Upstream.PostType)
		}
	}

	for i, filter := range siteConfig.Filters {
		if !validFilterFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(siteName string) string {
	return filepath.Join(cc.sitesDir, siteName+".yml")
}
