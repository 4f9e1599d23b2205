package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/sqladmin"
	ConfigFileName    = "sqladmin.yml"
)

// Attribute sources
const (
	SourceDefault     = "default"
	SourceFile        = "file"
	SourceEnvironment = "environment"
)

// Config holds all sqladmin configuration settings
type Config struct {
	// AdminPrincipal is the principal granted AdminPermission on every admin page
	AdminPrincipal string `yaml:"admin_principal" json:"admin_principal"`

	// AdminPermission is the permission required by the admin pages
	AdminPermission string `yaml:"admin_permission" json:"admin_permission"`

	// ListLimitMax is the maximum number of rows shown on a list page
	ListLimitMax int `yaml:"list_limit_max" json:"list_limit_max"`

	// SiteTitle is shown in the page header
	SiteTitle string `yaml:"site_title" json:"site_title"`

	// AuditEnabled enables the audit stream
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// TokenTTLSeconds is the lifetime of issued bearer tokens
	TokenTTLSeconds int `yaml:"token_ttl" json:"token_ttl"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors Config with pointers so that explicit zero values in
// the file are told apart from missing keys
type fileConfig struct {
	AdminPrincipal  *string  `yaml:"admin_principal"`
	AdminPermission *string  `yaml:"admin_permission"`
	ListLimitMax    *int     `yaml:"list_limit_max"`
	SiteTitle       *string  `yaml:"site_title"`
	AuditEnabled    *bool    `yaml:"audit_enabled"`
	TrustedProxies  []string `yaml:"trusted_proxies"`
	TokenTTLSeconds *int     `yaml:"token_ttl"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// newDefault returns a config with default values
func newDefault() *Config {
	c := &Config{
		AdminPrincipal:  "role:admin",
		AdminPermission: "admin",
		ListLimitMax:    1000,
		SiteTitle:       "Admin",
		AuditEnabled:    true,
		TrustedProxies:  []string{},
		TokenTTLSeconds: 480,
		sources:         make(map[string]string),
	}
	for _, name := range attributeNames() {
		c.sources[name] = SourceDefault
	}
	return c
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	configPath := os.Getenv("SQLADMIN_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return LoadFile(filepath.Join(configPath, ConfigFileName))
}

// LoadFile loads configuration from the given file and the environment. A
// missing file is not an error.
func LoadFile(path string) (*Config, error) {
	config := newDefault()
	config.configFilePath = path

	if data, err := os.ReadFile(path); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		config.applyFileConfig(&file)
	}

	config.applyEnvConfig()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func attributeNames() []string {
	return []string{
		"admin_principal", "admin_permission", "list_limit_max",
		"site_title", "audit_enabled", "trusted_proxies", "token_ttl",
	}
}

func (c *Config) applyFileConfig(file *fileConfig) {
	if file.AdminPrincipal != nil {
		c.AdminPrincipal = *file.AdminPrincipal
		c.sources["admin_principal"] = SourceFile
	}
	if file.AdminPermission != nil {
		c.AdminPermission = *file.AdminPermission
		c.sources["admin_permission"] = SourceFile
	}
	if file.ListLimitMax != nil {
		c.ListLimitMax = *file.ListLimitMax
		c.sources["list_limit_max"] = SourceFile
	}
	if file.SiteTitle != nil {
		c.SiteTitle = *file.SiteTitle
		c.sources["site_title"] = SourceFile
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = *file.AuditEnabled
		c.sources["audit_enabled"] = SourceFile
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = SourceFile
	}
	if file.TokenTTLSeconds != nil {
		c.TokenTTLSeconds = *file.TokenTTLSeconds
		c.sources["token_ttl"] = SourceFile
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("SQLADMIN_ADMIN_PRINCIPAL"); val != "" {
		c.AdminPrincipal = val
		c.sources["admin_principal"] = SourceEnvironment
	}
	if val := os.Getenv("SQLADMIN_ADMIN_PERMISSION"); val != "" {
		c.AdminPermission = val
		c.sources["admin_permission"] = SourceEnvironment
	}
	if val := os.Getenv("SQLADMIN_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.ListLimitMax = i
			c.sources["list_limit_max"] = SourceEnvironment
		}
	}
	if val := os.Getenv("SQLADMIN_SITE_TITLE"); val != "" {
		c.SiteTitle = val
		c.sources["site_title"] = SourceEnvironment
	}
	if val := os.Getenv("SQLADMIN_AUDIT_ENABLED"); val != "" {
		if enabled, err := ParseBool(val); err == nil {
			c.AuditEnabled = enabled
			c.sources["audit_enabled"] = SourceEnvironment
		}
	}
	if val := os.Getenv("SQLADMIN_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = SourceEnvironment
	}
	if val := os.Getenv("SQLADMIN_TOKEN_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.TokenTTLSeconds = i
			c.sources["token_ttl"] = SourceEnvironment
		}
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return SourceDefault
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// TokenTTL returns the bearer token TTL as a duration
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}
	if strings.TrimSpace(c.AdminPrincipal) == "" {
		return fmt.Errorf("admin_principal must not be empty")
	}
	if strings.TrimSpace(c.AdminPermission) == "" {
		return fmt.Errorf("admin_permission must not be empty")
	}
	if c.ListLimitMax < 0 {
		return fmt.Errorf("invalid list_limit_max value: %d", c.ListLimitMax)
	}
	if c.TokenTTLSeconds <= 0 {
		return fmt.Errorf("invalid token_ttl value: %d", c.TokenTTLSeconds)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "admin_principal", Value: c.AdminPrincipal, Source: c.Source("admin_principal")},
		{Name: "admin_permission", Value: c.AdminPermission, Source: c.Source("admin_permission")},
		{Name: "list_limit_max", Value: strconv.Itoa(c.ListLimitMax), Source: c.Source("list_limit_max")},
		{Name: "site_title", Value: c.SiteTitle, Source: c.Source("site_title")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTLSeconds), Source: c.Source("token_ttl")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// ParseBool parses a boolean environment value. Besides the forms accepted
// by strconv.ParseBool it takes yes/no and on/off, ignoring case.
func ParseBool(val string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(val))
}
