package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location when no --config flag is
// given.
const EnvConfigPath = "JIRA_MCP_CONFIG"

// SiteConfig holds the connection settings for one JIRA site.
type SiteConfig struct {
	URL      string `yaml:"url"       mapstructure:"url"`
	Email    string `yaml:"email"     mapstructure:"email"`
	APIToken string `yaml:"api_token" mapstructure:"api_token"`
	Cloud    bool   `yaml:"cloud"     mapstructure:"cloud"`
}

// ServerConfig holds the server identity and every configured JIRA site,
// keyed by alias.
type ServerConfig struct {
	Name             string                `yaml:"name"               mapstructure:"name"`
	LogLevel         string                `yaml:"log_level"          mapstructure:"log_level"`
	DefaultSiteAlias string                `yaml:"default_site_alias" mapstructure:"default_site_alias"`
	Sites            map[string]SiteConfig `yaml:"sites"              mapstructure:"sites"`

	path string
}

// Path returns the file this configuration was loaded from.
func (c ServerConfig) Path() string { return c.path }

// DefaultPath returns the default config file path
// (~/.config/jira-mcp/config.yaml or the platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("jira-mcp", "config.yaml")
	}
	return filepath.Join(dir, "jira-mcp", "config.yaml")
}

// Template returns a starter configuration with one placeholder site.
func Template() ServerConfig {
	return ServerConfig{
		Name:             "jira-mcp",
		LogLevel:         "info",
		DefaultSiteAlias: "default",
		Sites: map[string]SiteConfig{
			"default": {
				URL:      "https://your-domain.atlassian.net",
				Email:    "you@example.com",
				APIToken: "your-api-token",
				Cloud:    true,
			},
		},
	}
}

// Load reads the server configuration. The file is resolved from configPath,
// then the JIRA_MCP_CONFIG env var, then the default path. A missing file at
// the default path is created from Template so a fresh install starts with
// something editable; a missing file anywhere else is an error.
func Load(configPath string) (ServerConfig, error) {
	explicit := configPath != ""
	if configPath == "" {
		configPath = os.Getenv(EnvConfigPath)
		explicit = configPath != ""
	}
	if configPath == "" {
		configPath = DefaultPath()
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if explicit {
			return ServerConfig{}, fmt.Errorf("config file not found: %s", configPath)
		}
		if err := Save(Template(), configPath); err != nil {
			return ServerConfig{}, fmt.Errorf("creating starter config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return ServerConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.Name == "" {
		cfg.Name = "jira-mcp"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	applyEnvOverrides(&cfg)
	cfg.path = configPath

	return cfg, nil
}

// applyEnvOverrides patches the default site from JIRA_URL, JIRA_EMAIL and
// JIRA_TOKEN, creating it when the file has no sites at all. This keeps
// single-site setups runnable without a config file edit.
func applyEnvOverrides(cfg *ServerConfig) {
	url := os.Getenv("JIRA_URL")
	email := os.Getenv("JIRA_EMAIL")
	token := os.Getenv("JIRA_TOKEN")
	if url == "" && email == "" && token == "" {
		return
	}

	alias := cfg.DefaultSiteAlias
	if alias == "" {
		alias = "default"
	}
	if cfg.Sites == nil {
		cfg.Sites = make(map[string]SiteConfig)
	}
	site, ok := cfg.Sites[alias]
	if !ok {
		site = SiteConfig{Cloud: true}
		if cfg.DefaultSiteAlias == "" {
			cfg.DefaultSiteAlias = alias
		}
	}
	if url != "" {
		site.URL = url
	}
	if email != "" {
		site.Email = email
	}
	if token != "" {
		site.APIToken = token
	}
	cfg.Sites[alias] = site
}

// Site resolves which site a request should talk to. An explicit alias must
// exist; otherwise the default alias is used, and a configuration with a
// single site needs no default at all.
func (c ServerConfig) Site(alias string) (SiteConfig, error) {
	if alias != "" {
		site, ok := c.Sites[alias]
		if !ok {
			return SiteConfig{}, fmt.Errorf("unknown site alias %q (configured: %s)", alias, strings.Join(c.Aliases(), ", "))
		}
		return site, nil
	}
	if c.DefaultSiteAlias != "" {
		site, ok := c.Sites[c.DefaultSiteAlias]
		if !ok {
			return SiteConfig{}, fmt.Errorf("default_site_alias %q does not match any configured site", c.DefaultSiteAlias)
		}
		return site, nil
	}
	if len(c.Sites) == 1 {
		for _, site := range c.Sites {
			return site, nil
		}
	}
	return SiteConfig{}, fmt.Errorf("no site alias given and no default_site_alias configured (configured: %s)", strings.Join(c.Aliases(), ", "))
}

// Aliases returns the configured site aliases in sorted order.
func (c ServerConfig) Aliases() []string {
	aliases := make([]string, 0, len(c.Sites))
	for alias := range c.Sites {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that the configuration is complete enough to serve with.
func (c ServerConfig) Validate() error {
	if !logLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	if len(c.Sites) == 0 {
		return fmt.Errorf("no JIRA sites configured (add a sites entry or set JIRA_URL, JIRA_EMAIL and JIRA_TOKEN)")
	}
	if c.DefaultSiteAlias != "" {
		if _, ok := c.Sites[c.DefaultSiteAlias]; !ok {
			return fmt.Errorf("default_site_alias %q does not match any configured site", c.DefaultSiteAlias)
		}
	}
	for _, alias := range c.Aliases() {
		site := c.Sites[alias]
		if site.URL == "" {
			return fmt.Errorf("site %q: url is required", alias)
		}
		if site.Email == "" {
			return fmt.Errorf("site %q: email is required", alias)
		}
		if site.APIToken == "" {
			return fmt.Errorf("site %q: api_token is required", alias)
		}
	}
	return nil
}

// Save writes the config to the given path (or the default path if empty),
// creating parent directories as needed. The file is written 0600 because it
// holds API tokens.
func Save(cfg ServerConfig, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
