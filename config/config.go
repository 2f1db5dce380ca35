package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/minaorangina/guinote/game"
	"go.uber.org/zap"
)

// Config is read from the environment
type Config struct {
	Addr string `env:"GUINOTE_ADDR,default=:8000"`

	// an empty address keeps games in memory
	RedisAddr string `env:"GUINOTE_REDIS_ADDR"`
	RedisDB   int    `env:"GUINOTE_REDIS_DB,default=0"`

	// zero lets players take as long as they like
	TurnTimeout time.Duration `env:"GUINOTE_TURN_TIMEOUT,default=30s"`
	BotDelay    time.Duration `env:"GUINOTE_BOT_DELAY,default=800ms"`

	PartidasPerCoto int `env:"GUINOTE_PARTIDAS_PER_COTO,default=3"`
	CotosPerMatch   int `env:"GUINOTE_COTOS_PER_MATCH,default=2"`

	Debug bool `env:"GUINOTE_DEBUG,default=false"`
}

var ErrInvalidConfig = errors.New("invalid config")

// Load decodes the environment and checks the result. A value that doesn't
// parse is an error, never a silent zero.
func Load() (Config, error) {
	var c Config
	if err := envdecode.StrictDecode(&c); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch {
	case c.TurnTimeout < 0:
		return fmt.Errorf("%w: negative turn timeout %s", ErrInvalidConfig, c.TurnTimeout)
	case c.BotDelay < 0:
		return fmt.Errorf("%w: negative bot delay %s", ErrInvalidConfig, c.BotDelay)
	case c.PartidasPerCoto < 1:
		return fmt.Errorf("%w: partidas per coto must be at least 1", ErrInvalidConfig)
	case c.CotosPerMatch < 1:
		return fmt.Errorf("%w: cotos per match must be at least 1", ErrInvalidConfig)
	}
	return nil
}

func (c Config) MatchOpts() game.MatchOpts {
	return game.MatchOpts{PartidasPerCoto: c.PartidasPerCoto, CotosPerMatch: c.CotosPerMatch}
}

// Logger builds the process logger: human readable when debugging, JSON otherwise
func (c Config) Logger() (*zap.Logger, error) {
	if c.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
