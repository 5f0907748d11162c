package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type BotConfig struct {
	WSURL     string        `env:"WS_URL" envDefault:"ws://localhost:8080/ws"`
	AccountID int32         `env:"ACCOUNT_ID" envDefault:"900001"`
	Token     string        `env:"TOKEN" envDefault:""`
	LevelID   int64         `env:"LEVEL_ID" envDefault:"1"`
	RoomID    uint32        `env:"ROOM_ID" envDefault:"0"`
	Tick      time.Duration `env:"TICK" envDefault:"250ms"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
