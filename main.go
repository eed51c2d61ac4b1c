package main

import (
	"flag"
	"net/http"

	"github.com/rs/zerolog/log"

	api "github.com/grvlle/qanda/api"
	"github.com/grvlle/qanda/config"
	database "github.com/grvlle/qanda/db"
	qb "github.com/grvlle/qanda/qbot"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	baseURL := flag.String("base-url", "", "public url prefix used in chat links")
	flag.Parse()

	InitializeLogger("info")
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatal().Err(err).Msg("Unable to load .env")
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to load configuration")
	}
	InitializeLogger(cfg.LogLevel)

	db, err := database.InitializeDB(cfg.DatabaseOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up the database")
	}
	defer db.Close()

	if cfg.Slack.APIToken != "" {
		bot := qb.New(cfg.Slack.APIToken, cfg.Slack.GeneralChannel, *baseURL, db, cfg.Pagination)
		go bot.RunBot()
	} else {
		log.Info().Msg("No Slack token configured, qBot stays offline.")
	}

	router := api.New(db, cfg.Pagination).SetupRoutes()
	log.Info().Str("addr", cfg.Server.Addr).Msg("Serving HTTP")
	if err := http.ListenAndServe(cfg.Server.Addr, router); err != nil {
		log.Fatal().Err(err).Msg("HTTP server stopped")
	}
}
