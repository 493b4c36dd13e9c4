package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/targetplatform/internal/api"
	"github.com/nerrad567/targetplatform/internal/configstore"
	"github.com/nerrad567/targetplatform/internal/infrastructure/config"
	"github.com/nerrad567/targetplatform/internal/infrastructure/influxdb"
	"github.com/nerrad567/targetplatform/internal/infrastructure/logging"
	"github.com/nerrad567/targetplatform/internal/infrastructure/mqtt"
	"github.com/nerrad567/targetplatform/internal/relay"
)

// defaultSampleInterval is used when influxdb.flush_interval is unset.
const defaultSampleInterval = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and device event relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), c.configPath())
		},
	}
}

// run is the service lifecycle. It returns when ctx is cancelled or
// startup fails; deferred cleanup runs in reverse order of startup.
func run(ctx context.Context, configPath string) error {
	log := logging.Default()
	log.Info("target platform service starting",
		"version", version,
		"commit", commit,
		"build_date", buildDate,
	)

	cfg, log, err := loadConfig(configPath, false)
	if err != nil {
		return err
	}
	log.Info("configuration loaded", "path", configPath)

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	store, err := configstore.Open(ctx, configstore.Options{
		Backend:    cfg.ConfigStore.Backend,
		Path:       cfg.ConfigStore.Path,
		BaseLayers: cfg.ConfigStore.BaseLayers,
		DB:         db.DB,
	})
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	log.Info("config store opened", "backend", cfg.ConfigStore.Backend)

	module := newModule(cfg, store, detectHost(ctx, log), log)
	defer func() {
		log.Info("shutting down target module")
		if shutdownErr := module.Shutdown(); shutdownErr != nil {
			log.Error("error shutting down target module", "error", shutdownErr)
		}
	}()

	rel := relay.New(log.With("component", "relay"))
	recorder := relay.NewRecorder(db.DB)
	rel.AddSink("history", recorder)
	checks := map[string]api.HealthChecker{"database": db}

	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := connectMQTT(cfg.MQTT, log)
		if mqttErr != nil {
			return mqttErr
		}
		defer func() {
			log.Info("closing MQTT connection")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		rel.AddSink("mqtt", relay.NewMQTTSink(mqttClient))
		checks["mqtt"] = mqttClient

		announcer := relay.NewAnnouncer(module, log.With("component", "announcer"))
		if listenErr := announcer.Listen(mqttClient, byte(cfg.MQTT.QoS)); listenErr != nil {
			return fmt.Errorf("subscribing to device announcements: %w", listenErr)
		}
		log.Info("listening for device announcements")
	} else {
		log.Info("MQTT disabled")
	}

	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(ctx, cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)

		rel.AddSink("influxdb", relay.NewInfluxSink(influxClient))
		checks["influxdb"] = influxClient

		interval := time.Duration(cfg.InfluxDB.FlushInterval) * time.Second
		if interval <= 0 {
			interval = defaultSampleInterval
		}
		go relay.SampleRegistrySizes(ctx, module, influxClient, interval)
	} else {
		log.Info("InfluxDB disabled")
	}

	srv, err := api.New(api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log.With("component", "api"),
		Module:  module,
		Events:  recorder,
		Checks:  checks,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	rel.AddSink("websocket", srv.Hub())
	rel.AddSink("metrics", srv.Metrics())

	relayCtx, stopRelay := context.WithCancel(ctx)
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		rel.Run(relayCtx)
	}()
	defer func() {
		stopRelay()
		<-relayDone
		log.Info("event relay stopped")
	}()

	// Attach before preloading so devices added from now on are relayed.
	rel.Attach(module)
	for _, name := range cfg.Target.Preload {
		t, targetErr := module.Target(name)
		if targetErr != nil {
			return fmt.Errorf("preloading target: %w", targetErr)
		}
		log.Info("target preloaded", "target", t.Name(), "devices", t.Registry().Count())
	}

	if startErr := srv.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if healthErr := healthCheck(ctx, checks); healthErr != nil {
		return fmt.Errorf("health check failed: %w", healthErr)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	log.Info("target platform service stopped")
	return nil
}

// connectMQTT connects to the broker and logs connection changes.
func connectMQTT(cfg config.MQTTConfig, log *logging.Logger) (*mqtt.Client, error) {
	client, err := mqtt.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log)
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected", "broker", cfg.Broker.Host, "port", cfg.Broker.Port)
	return client, nil
}

// healthCheck runs every dependency check in name order and returns the
// first failure.
func healthCheck(ctx context.Context, checks map[string]api.HealthChecker) error {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := checks[name].HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
