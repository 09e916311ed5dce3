// Package config loads application settings from a YAML file and BOQ_*
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server" json:"server"`
	Reconcile ReconcileConfig `mapstructure:"reconcile" json:"reconcile"`
	Report    ReportConfig    `mapstructure:"report" json:"report"`
	Logger    LoggerConfig    `mapstructure:"logger" json:"logger"`
	Seed      bool            `mapstructure:"seed" json:"seed"`
}

// ServerConfig holds PocketBase and HTTP settings
type ServerConfig struct {
	DataDir        string        `mapstructure:"data_dir" json:"data_dir"`
	HTTPAddr       string        `mapstructure:"http_addr" json:"http_addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" json:"request_timeout"`
}

// ReconcileConfig controls how monetary results are rounded and shown
type ReconcileConfig struct {
	Precision      int32  `mapstructure:"precision" json:"precision"`
	CurrencySymbol string `mapstructure:"currency_symbol" json:"currency_symbol"`
}

// ReportConfig holds the header printed on exported reports
type ReportConfig struct {
	CompanyName string `mapstructure:"company_name" json:"company_name"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level" json:"level"`
	Format     string `mapstructure:"format" json:"format"`
	OutputPath string `mapstructure:"output_path" json:"output_path"`
}

// Load reads configPath (optional) and applies BOQ_* environment overrides,
// e.g. BOQ_RECONCILE_PRECISION=3.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BOQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.data_dir", "pb_data")
	v.SetDefault("server.http_addr", "127.0.0.1:8090")
	v.SetDefault("server.request_timeout", 10*time.Second)

	v.SetDefault("reconcile.precision", 2)
	v.SetDefault("reconcile.currency_symbol", "₹")

	v.SetDefault("report.company_name", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("seed", false)
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Server),
		validation.Field(&c.Reconcile),
		validation.Field(&c.Logger),
	)
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.DataDir, validation.Required),
		validation.Field(&s.HTTPAddr, validation.Required),
		validation.Field(&s.RequestTimeout, validation.Required, validation.Min(time.Second)),
	)
}

func (r ReconcileConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Precision, validation.Min(0), validation.Max(6)),
		validation.Field(&r.CurrencySymbol, validation.Required, validation.Length(1, 8)),
	)
}

func (l LoggerConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.Required, validation.In("json", "console")),
	)
}
