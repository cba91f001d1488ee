package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel   string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Redis      Redis     `yaml:"redis"`
	NATS       NATS      `yaml:"nats"`
	Game       Game      `yaml:"game"`
	WebSocket  WebSocket `yaml:"websocket"`
}

type Redis struct {
	Host       string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port       string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	ArchiveTTL time.Duration `yaml:"archive-ttl" env:"REDIS_ARCHIVE_TTL" env-default:"24h"`
}

// NATS - an empty URL disables event publishing.
type NATS struct {
	URL           string `yaml:"url" env:"NATS_URL"`
	SubjectPrefix string `yaml:"subject-prefix" env:"NATS_SUBJECT_PREFIX" env-default:"battleship.game"`
}

type Game struct {
	Fleet          []int `yaml:"fleet" env:"GAME_FLEET" env-default:"5,4,3,3,2"`
	MaxPlayers     int   `yaml:"max-players" env:"GAME_MAX_PLAYERS" env-default:"0"`
	RecorderBuffer int   `yaml:"recorder-buffer" env:"GAME_RECORDER_BUFFER" env-default:"256"`
}

type WebSocket struct {
	SendBuffer     int           `yaml:"send-buffer" env-default:"64"`
	WriteWait      time.Duration `yaml:"write-wait" env-default:"10s"`
	PongWait       time.Duration `yaml:"pong-wait" env-default:"60s"`
	PingPeriod     time.Duration `yaml:"ping-period" env-default:"54s"`
	MaxMessageSize int64         `yaml:"max-message-size" env-default:"512"`
}

// Load - reads the config file, applies env overrides and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Config) validate() error {
	if err := entity.ValidateFleet(that.Game.Fleet); err != nil {
		return fmt.Errorf("%w: game.fleet: %w", ErrInvalidConfig, err)
	}

	if that.Game.MaxPlayers < 0 || that.Game.RecorderBuffer < 0 || that.WebSocket.SendBuffer <= 0 {
		return fmt.Errorf("%w: negative limits or empty send buffer", ErrInvalidConfig)
	}

	if that.WebSocket.PingPeriod >= that.WebSocket.PongWait {
		return fmt.Errorf("%w: websocket.ping-period must be shorter than websocket.pong-wait", ErrInvalidConfig)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
