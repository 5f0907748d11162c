// relay-bot is a synthetic client for exercising a relay server: it logs in,
// joins a level and streams a circular movement path at a fixed tick.
package main

import (
	"fmt"
	"math"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"orbit-relay/internal/config"
	"orbit-relay/internal/logging"
	"orbit-relay/internal/protocol"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	defer logging.Shutdown()

	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}

	url := cfg.WSURL
	if cfg.RoomID != 0 {
		url = fmt.Sprintf("%s?room=%d", cfg.WSURL, cfg.RoomID)
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatal().Err(err).Str("url", url).Msg("dial failed")
	}
	defer conn.Close()

	send := func(pkt protocol.Encodable) error {
		frame, err := protocol.Encode(pkt)
		if err != nil {
			return err
		}
		return conn.WriteMessage(websocket.BinaryMessage, frame)
	}

	if err := send(&protocol.Login{AccountID: cfg.AccountID, Token: cfg.Token}); err != nil {
		log.Fatal().Err(err).Msg("login send failed")
	}
	if err := send(&protocol.LevelJoin{LevelID: cfg.LevelID}); err != nil {
		log.Fatal().Err(err).Msg("level join send failed")
	}
	log.Info().Int32("account_id", cfg.AccountID).Int64("level_id", cfg.LevelID).Msg("bot joined")

	go readLoop(conn)

	start := time.Now()
	ticker := time.NewTicker(cfg.Tick)
	defer ticker.Stop()
	for range ticker.C {
		t := float32(time.Since(start).Seconds())
		state := protocol.PlayerState{
			Timestamp: t,
			PosX:      500 + 200*float32(math.Cos(float64(t))),
			PosY:      300 + 100*float32(math.Sin(float64(t))),
			Rotation:  float32(math.Mod(float64(t)*90, 360)),
		}
		if err := send(&protocol.PlayerData{Data: state}); err != nil {
			log.Error().Err(err).Msg("player data send failed")
			return
		}
	}
}

func readLoop(conn *websocket.Conn) {
	for {
		kind, frame, err := conn.ReadMessage()
		if err != nil {
			log.Fatal().Err(err).Msg("connection closed")
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		pkt, err := protocol.DecodeServer(frame)
		if err != nil {
			log.Warn().Err(err).Msg("bad server frame")
			continue
		}
		switch p := pkt.(type) {
		case *protocol.LoggedIn:
			log.Info().Bool("moderator", p.Moderator).Msg("logged in")
		case *protocol.LoginFailed:
			log.Fatal().Str("reason", p.Reason).Msg("login rejected")
		case *protocol.LevelData:
			log.Debug().Int("players", len(p.Players)).Msg("level data")
		case *protocol.ChatMessageBroadcast:
			log.Info().Int32("player_id", p.PlayerID).Str("message", p.Message).Msg("chat")
		case *protocol.SwitchInfo:
			log.Debug().Int32("player_id", p.PlayerID).Float32("timestamp", p.Timestamp).Msg("switch")
		}
	}
}
