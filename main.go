package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dueday/backend/internal/engine"
	"github.com/dueday/backend/internal/models"
	"github.com/dueday/backend/internal/router"
	"github.com/dueday/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	dsn, ok := os.LookupEnv("DB_DSN")
	if !ok {
		// Create the data directory for the default sqlite database
		dataDir := filepath.Join(".", "data")
		err := os.MkdirAll(dataDir, os.ModePerm)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}

		dsn = "data/gorm.db"
	}

	// Connect to the database
	err := models.Connect(dsn)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// The timer collaborator for automatic payments: catch up on startup,
	// then once per interval.
	go runScheduledPayments()

	r, err := router.Router()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}

// runScheduledPayments executes the scheduled payment batch periodically.
//
// The batch is idempotent, so running it more often than once per day is
// harmless.
func runScheduledPayments() {
	interval := time.Hour
	if value, ok := os.LookupEnv("SCHEDULE_INTERVAL"); ok {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			log.Fatal().Msgf("SCHEDULE_INTERVAL is not a valid duration: %s", value)
		}
		interval = parsed
	}

	for {
		engine.RunScheduledPayments(types.Today())
		time.Sleep(interval)
	}
}
