// Package main provides the API to manage accounts and money movements.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/bankcore/bankcore/cmd/httpserver"
	"github.com/bankcore/bankcore/internal/accountrepo"
	"github.com/bankcore/bankcore/internal/bankservice"
	"github.com/bankcore/bankcore/internal/middleware"
	"github.com/bankcore/bankcore/pkg/configpkg"
	"github.com/bankcore/bankcore/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	var repo bankservice.Repo

	if config.DBSource != "" {
		db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot connect to database")
		}

		repo = accountrepo.NewRepoPGS(db)
	} else {
		repo = accountrepo.NewRepoMem()
	}

	server := httpserver.New(repo, logger, config)

	logger.Info().Msg("BANK API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
