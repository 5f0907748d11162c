package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"orbit-relay/internal/config"
	"orbit-relay/internal/logging"
	"orbit-relay/internal/profile"
	"orbit-relay/internal/relay"
	"orbit-relay/internal/room"
	"orbit-relay/internal/store"
	httptransport "orbit-relay/internal/transport/http"
	"orbit-relay/internal/ws"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	defer logging.Shutdown()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}

	var st *store.Store
	var auth relay.Authenticator
	if cfg.PostgresDSN != "" {
		st, err = store.New(cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		defer st.Close()
		if err := st.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		if err := st.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("ensure schema failed")
		}
		auth = store.NewAuthenticator(st)
		log.Info().Msg("using database account store")
	} else {
		auth = profile.NewStaticAuthenticator(nil, cfg.AuthOpen)
		log.Info().Bool("open", cfg.AuthOpen).Msg("using static account store")
	}

	rooms := room.NewManager()
	gw := ws.NewGateway(rooms, cfg.WSReadLimit)
	orch := relay.NewOrchestrator(rooms, auth, profile.NewCache(), gw)
	gw.SetOrchestrator(orch)

	r := httptransport.NewRouter(rooms, gw, st, cfg)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("relay listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
