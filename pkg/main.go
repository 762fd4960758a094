package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	pkg "github.com/flatfinder/flatfinder/pkg/internal"
	"github.com/flatfinder/flatfinder/pkg/internal/cache"
	"github.com/flatfinder/flatfinder/pkg/internal/database"
	"github.com/flatfinder/flatfinder/pkg/internal/grpc"
	"github.com/flatfinder/flatfinder/pkg/internal/http"
	"github.com/flatfinder/flatfinder/pkg/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Connect to database
	if err := database.NewSource(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	if err := cache.NewCache(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Connect the asset store for avatar resolution
	if store, err := services.NewBlobAssetStore(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when opening the asset bucket.")
	} else {
		services.Assets = store
		services.SetupAvatarResolver(store)
	}

	// Server
	http.NewServer()
	go http.Listen()

	go func() {
		if err := grpc.NewGrpc().Listen(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.Start()

	log.Info().Msgf("FlatFinder v%s is started...", pkg.AppVersion)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msgf("FlatFinder v%s is quitting...", pkg.AppVersion)

	quartz.Stop()
}
