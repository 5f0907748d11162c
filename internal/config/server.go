package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Optional Postgres account store; without it logins use open mode or
	// the static token table.
	PostgresDSN string `env:"POSTGRES_DSN"`

	// AdminAPIKey unlocks unlisted levels in the status API.
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	// AuthOpen admits any token as a plain user, for development.
	AuthOpen bool `env:"AUTH_OPEN" envDefault:"false"`

	// WSReadLimit caps one inbound websocket frame, in bytes. Voice frames
	// are the largest legitimate packets.
	WSReadLimit int64 `env:"WS_READ_LIMIT" envDefault:"16384"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
