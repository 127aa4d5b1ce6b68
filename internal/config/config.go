// README: Config loader (viper) for HTTP, Google APIs, storage and cache settings.
package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr         string `mapstructure:"TOPPTAXI_ADDR"`
	GoogleAPIKey string `mapstructure:"GOOGLE_API_KEY"`

	SettingsFile string `mapstructure:"TOPPTAXI_SETTINGS_FILE"`

	// Catalog storage backend: "sheets" (default) or "postgres".
	StorageBackend string `mapstructure:"TOPPTAXI_STORAGE"`
	SpreadsheetID  string `mapstructure:"GOOGLE_SHEETS_SPREADSHEET_ID"`
	Credentials    string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_JSON"`
	PlacesSheet    string `mapstructure:"SHEETS_PLACES"`
	RoutesSheet    string `mapstructure:"SHEETS_ROUTES"`
	PricesSheet    string `mapstructure:"SHEETS_PRICES"`
	PostgresDSN    string `mapstructure:"TOPPTAXI_DB_DSN"`

	RedisAddr string `mapstructure:"TOPPTAXI_REDIS_ADDR"`

	// Snapshot TTL in seconds. Zero means every read refetches; writes
	// always force a refresh regardless.
	SnapshotTTLSec int `mapstructure:"TOPPTAXI_SNAPSHOT_TTL"`

	// Per outbound call (maps, geocoding, sheets), in seconds.
	OutboundTimeoutSec int `mapstructure:"TOPPTAXI_OUTBOUND_TIMEOUT"`

	Language    string `mapstructure:"TOPPTAXI_LANGUAGE"`
	CountryBias string `mapstructure:"TOPPTAXI_COUNTRY_BIAS"`
}

func Load() (Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("TOPPTAXI_ADDR", ":8080")
	viper.SetDefault("TOPPTAXI_SETTINGS_FILE", "settings.json")
	viper.SetDefault("TOPPTAXI_STORAGE", "sheets")
	viper.SetDefault("SHEETS_PLACES", "Places")
	viper.SetDefault("SHEETS_ROUTES", "Routes")
	viper.SetDefault("SHEETS_PRICES", "RoutePrices")
	viper.SetDefault("TOPPTAXI_SNAPSHOT_TTL", 0)
	viper.SetDefault("TOPPTAXI_OUTBOUND_TIMEOUT", 20)
	viper.SetDefault("TOPPTAXI_LANGUAGE", "sv")
	viper.SetDefault("TOPPTAXI_COUNTRY_BIAS", "SE|NO")

	// A missing .env is fine; the environment still applies.
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) SnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLSec) * time.Second
}

func (c Config) OutboundTimeout() time.Duration {
	return time.Duration(c.OutboundTimeoutSec) * time.Second
}
