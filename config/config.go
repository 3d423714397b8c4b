package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kysee/lemonzk/game"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath              string `env:"LEMONADE_DB_PATH"                envDefault:"lemonade.db"`
	LogLevel            string `env:"LEMONADE_LOG_LEVEL"              envDefault:"info"`
	Seed                uint64 `env:"LEMONADE_SEED"`
	WeatherPolicy       string `env:"LEMONADE_WEATHER_POLICY"         envDefault:"forecast"`
	ForceSecondDaySunny bool   `env:"LEMONADE_FORCE_SECOND_DAY_SUNNY"`
	ExplorerURL         string `env:"LEMONADE_EXPLORER_URL"           envDefault:"https://zkverify-testnet.subscan.io/extrinsic/"`
	LeaderboardLimit    int    `env:"LEMONADE_LEADERBOARD_LIMIT"      envDefault:"100"`
	PlayerKey           string `env:"LEMONADE_PLAYER_KEY"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("LEMONADE_DB_PATH is empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if u, err := url.Parse(c.ExplorerURL); err != nil || !u.IsAbs() {
		return fmt.Errorf("LEMONADE_EXPLORER_URL %q is not an absolute url", c.ExplorerURL)
	}
	if c.LeaderboardLimit <= 0 {
		return fmt.Errorf("LEMONADE_LEADERBOARD_LIMIT must be positive, got %d", c.LeaderboardLimit)
	}
	if _, err := c.PlayerKeyBytes(); err != nil {
		return err
	}
	return nil
}

func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("LEMONADE_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

func (c Config) Policy() (game.WeatherPolicy, error) {
	switch strings.ToLower(c.WeatherPolicy) {
	case "forecast", "":
		return game.ForecastWeather, nil
	case "roll":
		return game.RollAtOpen, nil
	default:
		return 0, fmt.Errorf("LEMONADE_WEATHER_POLICY: unknown policy %q", c.WeatherPolicy)
	}
}

// PlayerKeyBytes decodes the 0x-prefixed private key; nil means a new wallet.
func (c Config) PlayerKeyBytes() ([]byte, error) {
	if c.PlayerKey == "" {
		return nil, nil
	}
	bz, err := hexutil.Decode(c.PlayerKey)
	if err != nil {
		return nil, fmt.Errorf("LEMONADE_PLAYER_KEY: %w", err)
	}
	return bz, nil
}

// EngineOptions translates the game settings into engine options.
func (c Config) EngineOptions(logger zerolog.Logger) []game.Option {
	policy, _ := c.Policy()
	opts := []game.Option{
		game.WithLogger(logger),
		game.WithWeatherPolicy(policy),
	}
	if c.ForceSecondDaySunny {
		opts = append(opts, game.WithSecondDaySunny())
	}
	return opts
}

// Rand returns a source for the configured seed, drawing a fresh seed when
// none is set. The seed is returned so a game can be replayed.
func (c Config) Rand() (game.RandSource, uint64, error) {
	seed := c.Seed
	if seed == 0 {
		var err error
		if seed, err = game.NewSeed(); err != nil {
			return nil, 0, err
		}
	}
	return game.NewSeededRand(seed), seed, nil
}
