// Command apiserver serves the cube draft engine over HTTP and WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/ramonehamilton/cubedraft/internal/api"
	"github.com/ramonehamilton/cubedraft/internal/config"
	"github.com/ramonehamilton/cubedraft/internal/cube/scryfall"
	"github.com/ramonehamilton/cubedraft/internal/draft"
	"github.com/ramonehamilton/cubedraft/internal/events"
	"github.com/ramonehamilton/cubedraft/internal/facade"
	"github.com/ramonehamilton/cubedraft/internal/formats"
	"github.com/ramonehamilton/cubedraft/internal/logging"
	"github.com/ramonehamilton/cubedraft/internal/metrics"
	"github.com/ramonehamilton/cubedraft/internal/storage"
	"github.com/ramonehamilton/cubedraft/internal/version"
)

var (
	configPath = flag.String("config", "", "Config file (default: ~/.cubedraft/config.toml)")
	port       = flag.Int("port", 0, "API server port (overrides config)")
	dbPath     = flag.String("db-path", "", "Database path (overrides config)")
)

func main() {
	flag.Parse()

	// .env feeds the CUBEDRAFT_* overrides
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("API server failed")
	}
}

func loadConfig() (*config.Config, error) {
	path := *configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	return cfg, cfg.Validate()
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("version", version.GetVersion()).
		Str("database", cfg.Database.Path).
		Str("formats", cfg.Formats.Dir).
		Int("port", cfg.Server.Port).
		Msg("starting cubedraft API server")

	// Storage
	dbConfig := storage.DefaultConfig(cfg.Database.Path)
	dbConfig.AutoMigrate = cfg.Database.AutoMigrate
	dbConfig.JournalMode = cfg.Database.JournalMode
	dbConfig.BusyTimeout, _ = cfg.GetBusyTimeout()
	db, err := storage.Open(dbConfig)
	if err != nil {
		return err
	}
	store := storage.NewService(db)
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("error closing storage")
		}
	}()

	dispatcher := events.NewEventDispatcher()

	// Format library
	standard := draft.DefaultFormat(cfg.Draft.DefaultPacks, cfg.Draft.DefaultPackSize)
	standard.DefaultSeats = cfg.Draft.DefaultSeats
	formatDir := cfg.Formats.Dir
	if _, err := os.Stat(formatDir); err != nil {
		log.Warn().Str("dir", formatDir).Msg("formats directory not found; only the standard format is available")
		formatDir = ""
	}
	library, err := formats.Load(formatDir,
		formats.WithStandard(standard),
		formats.WithReloadHook(func(names []string) {
			dispatcher.Dispatch(events.NewEvent(ctx, events.TypeFormatsReloaded, events.FormatsReloadedEvent{
				Dir:     formatDir,
				Formats: names,
			}))
		}),
	)
	if err != nil {
		return err
	}
	if cfg.Formats.Watch && formatDir != "" {
		go func() {
			if err := library.Watch(ctx); err != nil {
				log.Error().Err(err).Msg("format watcher stopped")
			}
		}()
	}

	// Optional NATS publishing
	if cfg.Events.NATSURL != "" {
		natsConfig := events.DefaultNATSConfig()
		natsConfig.URL = cfg.Events.NATSURL
		natsConfig.SubjectPrefix = cfg.Events.SubjectPrefix
		nc, err := events.Connect(natsConfig)
		if err != nil {
			return err
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				log.Error().Err(err).Msg("error draining NATS connection")
			}
		}()
		dispatcher.Register(events.NewNATSObserver(nc, natsConfig.SubjectPrefix))
	}

	var importer *scryfall.Importer
	if cfg.Scryfall.Enabled {
		importer = scryfall.NewImporter(scryfall.NewClient(scryfall.Options{
			BaseURL:           cfg.Scryfall.BaseURL,
			UserAgent:         cfg.Scryfall.UserAgent,
			RequestsPerSecond: cfg.Scryfall.RequestsPerSecond,
		}))
	}

	clock := clockwork.NewRealClock()
	services := &facade.Services{
		Storage:           store,
		Formats:           library,
		Generator:         draft.NewGenerator(draft.WithClock(clock), draft.WithDefaultSeats(cfg.Draft.DefaultSeats)),
		Dispatcher:        dispatcher,
		Importer:          importer,
		MaxSeats:          cfg.Draft.MaxSeats,
		SimulationWorkers: cfg.Draft.SimulationWorkers,
		Metrics:           metrics.NewGenerationMetrics(clock),
		Clock:             clock,
	}

	apiConfig := api.DefaultConfig()
	apiConfig.Port = cfg.Server.Port
	apiConfig.CORSOrigins = cfg.Server.CORSOrigins
	apiConfig.RequestTimeout, _ = cfg.GetRequestTimeout()

	server := api.NewServer(apiConfig, services)
	dispatcher.Register(server.NewWebSocketObserver())

	if err := server.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	dispatcher.Wait()

	log.Info().Msg("API server stopped")
	return nil
}
