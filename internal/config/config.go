// Package config loads the application configuration from a YAML file with
// environment overrides. Every key has a usable default so the binary runs
// with no file at all.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Cards   CardsConfig   `mapstructure:"cards"`
	Game    GameConfig    `mapstructure:"game"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GatewayConfig controls the WebSocket gateway.
type GatewayConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// CardsConfig points at the card database and string tables.
type CardsConfig struct {
	DatabasePath string `mapstructure:"database_path"`
	StringsPath  string `mapstructure:"strings_path"`
}

// GameConfig seeds the demo duel.
type GameConfig struct {
	Player1Deck string   `mapstructure:"player1_deck"`
	Player2Deck string   `mapstructure:"player2_deck"`
	Seed        []uint64 `mapstructure:"seed"`
	StartingLP  int      `mapstructure:"starting_lp"`
}

// Load reads configuration from path. A missing file is not an error; the
// defaults and DUELVIEW_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("gateway.address", ":8080")
	v.SetDefault("gateway.read_timeout", 60*time.Second)
	v.SetDefault("gateway.write_timeout", 10*time.Second)
	v.SetDefault("cards.database_path", "cards.cdb")
	v.SetDefault("cards.strings_path", "strings.conf")
	v.SetDefault("game.starting_lp", 8000)

	v.SetEnvPrefix("DUELVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
					return nil, fmt.Errorf("config: read %s: %w", path, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}
