// Package main is the entry point for dbcheck, a small connectivity and
// query tool built on the database handle. It loads configuration, probes
// the database with SELECT 1, and optionally runs an ad-hoc query and
// prints the result rows as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/oyvinh/dbhandle/internal/config"
	"github.com/oyvinh/dbhandle/internal/database"
)

// Version information is set during build time through linker flags.
var (
	// version represents the release version of the application.
	version = "dev"

	// commit is the git commit hash from which the application was built.
	commit = "none"
)

// init loads environment variables from a .env file if present.
func init() {
	// Not finding a .env file is a non-fatal condition, as configuration
	// might be provided by other means.
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found or couldn't be loaded")
	}
}

func main() {
	var (
		configPath  string
		queryText   string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "./configs/config.yaml", "Path to configuration file")
	flag.StringVar(&queryText, "query", "", "Optional SQL query to execute after the connectivity check")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("dbcheck\nVersion: %s\nCommit: %s\n", version, commit)
		os.Exit(0)
	}

	// Initialize zerolog with Unix timestamp format
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	handle, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create database handle")
	}
	defer handle.Close()

	ctx := context.Background()

	if !handle.IsConnected(ctx) {
		log.Error().
			Str("host", cfg.Database.Host).
			Str("database", cfg.Database.Name).
			Msg("Database is not reachable")
		os.Exit(1)
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.Name).
		Msg("Database is reachable")

	if queryText == "" {
		return
	}

	rows, err := handle.Query(ctx, queryText)
	if err != nil {
		log.Fatal().Err(err).Msg("Query failed")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		log.Fatal().Err(err).Msg("Failed to encode result rows")
	}
}
