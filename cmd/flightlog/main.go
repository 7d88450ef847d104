package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yegors/flightlog/internal/api"
	"github.com/yegors/flightlog/internal/config"
	"github.com/yegors/flightlog/internal/debrief"
	"github.com/yegors/flightlog/internal/geojson"
	"github.com/yegors/flightlog/internal/igc"
	"github.com/yegors/flightlog/internal/storage/sqlite"
	"github.com/yegors/flightlog/pkg/logger"
)

func main() {
	configPath := flag.String("config", "flightlog.toml", "path to the TOML configuration file")
	convertPath := flag.String("convert", "", "one-shot mode: parse the given IGC file and print its GeoJSON feature")
	offset := flag.Float64("offset", 0, "altitude offset in meters for -convert")
	flag.Parse()

	if *convertPath != "" {
		if err := convert(*convertPath, *offset); err != nil {
			fmt.Fprintf(os.Stderr, "flightlog: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := serve(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "flightlog: %v\n", err)
		os.Exit(1)
	}
}

// convert parses one IGC file and writes the GeoJSON feature to stdout.
func convert(path string, offset float64) error {
	flight, err := igc.NewParser(logger.Nop()).Parse(igc.Options{Path: path})
	if err != nil {
		return err
	}

	feature, err := geojson.FromFixes(flight.Fixes, offset)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(feature)
}

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("Starting flightlog",
		logger.String("config", configPath),
		logger.String("storage", cfg.Storage.Path))

	db, err := sqlite.Open(cfg.Storage.Path, log)
	if err != nil {
		return err
	}
	defer db.Close()

	storage, err := sqlite.NewFlightStorage(db, log)
	if err != nil {
		return err
	}

	parser := igc.NewParser(log)

	var debriefService api.DebriefService
	if cfg.Debrief.Enabled {
		debriefService = debrief.NewService(cfg.Debrief.OpenAIAPIKey, debrief.Config{
			Model:          cfg.Debrief.Model,
			TimeoutSeconds: cfg.Debrief.TimeoutSeconds,
		}, log)
		log.Info("Flight debrief enabled", logger.String("model", cfg.Debrief.Model))
	}

	router := api.NewRouter(parser, storage, debriefService, cfg, log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("Shutting down", logger.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Shutdown complete")
	return nil
}
