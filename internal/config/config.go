package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/baylot/lotops/internal/fees"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type LotConfig struct {
	// InvoluntaryTowsEnabled requires a Florida wrecker license.
	InvoluntaryTowsEnabled   bool
	MaxAdminFee              float64
	MaxLienFee               float64
	TowStorageExemptionHours float64
	FeeTemplatePath          string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Lot         LotConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	v.SetDefault("LOT_MAX_ADMIN_FEE", fees.MaxAdminFee)
	v.SetDefault("LOT_MAX_LIEN_FEE", fees.MaxLienFee)
	v.SetDefault("LOT_TOW_STORAGE_EXEMPTION_HOURS", fees.DefaultTowStorageExemptionHours)

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Lot: LotConfig{
			InvoluntaryTowsEnabled:   v.GetBool("LOT_ENABLE_INVOLUNTARY_TOWS"),
			MaxAdminFee:              v.GetFloat64("LOT_MAX_ADMIN_FEE"),
			MaxLienFee:               v.GetFloat64("LOT_MAX_LIEN_FEE"),
			TowStorageExemptionHours: v.GetFloat64("LOT_TOW_STORAGE_EXEMPTION_HOURS"),
			FeeTemplatePath:          v.GetString("LOT_FEE_TEMPLATE_PATH"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7110
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Lot.MaxAdminFee <= 0 {
		return fmt.Errorf("LOT_MAX_ADMIN_FEE must be positive")
	}
	if cfg.Lot.TowStorageExemptionHours < 0 {
		return fmt.Errorf("LOT_TOW_STORAGE_EXEMPTION_HOURS cannot be negative")
	}
	return nil
}
