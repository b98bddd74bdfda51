package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	userService "userdesk/internal/application/user"
	"userdesk/internal/infrastructure/config"
	"userdesk/internal/infrastructure/kv"
	"userdesk/internal/infrastructure/logging"
	"userdesk/internal/infrastructure/remote"
	"userdesk/internal/infrastructure/repository"
)

// app holds the components wired from configuration
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  kv.Store
	users  userService.Service
}

// loadConfig reads the config file and applies command line overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Store.Backend, _ = flags.GetString("backend")
	}
	if flags.Changed("latency") {
		latency, _ := flags.GetDuration("latency")
		cfg.Latency = config.Duration(latency)
	}
	if offline, _ := flags.GetBool("offline"); offline {
		cfg.Remote.Disabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	store, err := kv.Open(cfg.KVOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}

	slot := repository.NewRecordSlot(store, cfg.Store.SlotKey, logger)
	repo := repository.NewUserRepository(slot,
		repository.WithLatency(cfg.Latency.Duration()),
		repository.WithLogger(logger),
	)

	var fetcher userService.Fetcher
	if cfg.RemoteEnabled() {
		fetcher = remote.NewClient(cfg.Remote.URL, cfg.Remote.Timeout.Duration())
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store,
		users:  userService.NewService(repo, fetcher, logger),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
