package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	JWTTTLHours    int    `mapstructure:"JWT_TTL_HOURS"`
	ServerAddr     string `mapstructure:"SERVER_ADDR"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	LogFormat      string `mapstructure:"LOG_FORMAT"`
	LogFile        string `mapstructure:"LOG_FILE"`
	AdminCodes     string `mapstructure:"ADMIN_CODES"`
	AdminCodesFile string `mapstructure:"ADMIN_CODES_FILE"`
}

var AppConfig *Config

var defaults = map[string]any{
	"DATABASE_URL":     "",
	"JWT_SECRET":       "",
	"JWT_TTL_HOURS":    24 * 7,
	"SERVER_ADDR":      ":8080",
	"LOG_LEVEL":        "info",
	"LOG_FORMAT":       "text",
	"LOG_FILE":         "",
	"ADMIN_CODES":      "",
	"ADMIN_CODES_FILE": "",
}

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() error {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// Unmarshal only sees keys viper already knows about, so every key gets a default.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logrus.Info(".env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.JWTTTLHours <= 0 {
		cfg.JWTTTLHours = 24 * 7
	}

	AppConfig = &cfg
	return nil
}

// AdminCodeTable returns the code -> display name table assembled from
// ADMIN_CODES_FILE and ADMIN_CODES. Inline entries win over file entries.
func (c *Config) AdminCodeTable() (map[string]string, error) {
	table := make(map[string]string)

	if c.AdminCodesFile != "" {
		fromFile, err := LoadAdminCodesFile(c.AdminCodesFile)
		if err != nil {
			return nil, err
		}
		for code, name := range fromFile {
			table[code] = name
		}
	}

	inline, err := ParseAdminCodes(c.AdminCodes)
	if err != nil {
		return nil, err
	}
	for code, name := range inline {
		table[code] = name
	}

	return table, nil
}

// ParseAdminCodes parses the inline "code=Name;code2=Name 2" format.
// The code is everything before the first '=' of an entry.
func ParseAdminCodes(raw string) (map[string]string, error) {
	table := make(map[string]string)
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, name, ok := strings.Cut(entry, "=")
		code = strings.TrimSpace(code)
		name = strings.TrimSpace(name)
		if !ok || code == "" || name == "" {
			return nil, fmt.Errorf("malformed admin code entry %q: want code=Name", entry)
		}
		table[code] = name
	}
	return table, nil
}

type adminCodeEntry struct {
	Code string `mapstructure:"code"`
	Name string `mapstructure:"name"`
}

// LoadAdminCodesFile reads a yaml/json/toml file holding an admin_codes list:
//
//	admin_codes:
//	  - code: "M16K3u6uAt"
//	    name: "Admin 1"
//
// A list is used instead of a map because viper lower-cases map keys and
// codes are case-sensitive.
func LoadAdminCodesFile(path string) (map[string]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read admin codes file %s: %w", path, err)
	}

	var entries []adminCodeEntry
	if err := v.UnmarshalKey("admin_codes", &entries); err != nil {
		return nil, fmt.Errorf("decode admin codes file %s: %w", path, err)
	}

	table := make(map[string]string, len(entries))
	for i, e := range entries {
		if e.Code == "" || e.Name == "" {
			return nil, fmt.Errorf("admin codes file %s: entry %d needs both code and name", path, i)
		}
		table[e.Code] = e.Name
	}
	return table, nil
}
