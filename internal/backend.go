package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markusressel/hwmon2go/internal/api"
	"github.com/markusressel/hwmon2go/internal/aquacomputer"
	"github.com/markusressel/hwmon2go/internal/computer"
	"github.com/markusressel/hwmon2go/internal/configuration"
	"github.com/markusressel/hwmon2go/internal/hardware"
	"github.com/markusressel/hwmon2go/internal/heatmaster"
	"github.com/markusressel/hwmon2go/internal/mainboard"
	"github.com/markusressel/hwmon2go/internal/persistence"
	"github.com/markusressel/hwmon2go/internal/statistics"
	"github.com/markusressel/hwmon2go/internal/tbalancer"
	"github.com/markusressel/hwmon2go/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

func RunDaemon() {
	if os.Geteuid() != 0 {
		ui.Warning("Not running as root, some devices may not be accessible")
	}

	config := configuration.CurrentConfig

	settings := persistence.NewBoltSettings(config.DbPath)
	if err := settings.Init(); err != nil {
		ui.Fatal("Unable to open settings database at %s: %v", config.DbPath, err)
	}

	c := CreateComputer(config, settings)
	c.Open()
	ui.Info("Detected %d hardware devices with %d sensors", len(c.Hardware()), len(c.Sensors()))
	if len(c.Sensors()) <= 0 {
		ui.NotifyWarn("hwmon2go", "No sensors detected, check the device configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		// === hardware update loop
		g.Add(func() error {
			return runUpdateLoop(ctx, c, config.UpdateRate)
		}, func(err error) {
			cancel()
		})
	}
	if config.Statistics.Enabled {
		// === Prometheus Exporter
		statistics.Register(
			statistics.NewSensorCollector(c),
			statistics.NewHardwareCollector(c),
		)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: fmt.Sprintf(":%d", config.Statistics.Port), Handler: mux}

		g.Add(func() error {
			ui.Info("Serving statistics on %s/metrics", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("cannot start prometheus metrics endpoint: %w", err)
			}
			return nil
		}, func(err error) {
			ui.Info("Stopping statistics server...")
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer timeoutCancel()
			if err := server.Shutdown(timeoutCtx); err != nil {
				ui.Warning("Error stopping statistics server: %v", err)
			}
		})
	}
	if config.Api.Enabled {
		// === REST API
		rest := api.CreateRestService(c, prometheus.DefaultRegisterer)
		addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)

		g.Add(func() error {
			ui.Info("Serving REST API on %s", addr)
			if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("cannot start REST API: %w", err)
			}
			return nil
		}, func(err error) {
			ui.Info("Stopping REST API...")
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer timeoutCancel()
			if err := rest.Shutdown(timeoutCtx); err != nil {
				ui.Warning("Error stopping REST API: %v", err)
			}
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	err := g.Run()
	c.Close()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ui.Info("Done.")
}

type updater interface {
	Update()
}

// runUpdateLoop refreshes all hardware once per tick until ctx is cancelled
func runUpdateLoop(ctx context.Context, u updater, rate time.Duration) error {
	tick := time.NewTicker(rate)
	defer tick.Stop()

	u.Update()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			u.Update()
		}
	}
}

// CreateComputer creates the hardware registry for all enabled device groups
func CreateComputer(config configuration.Configuration, settings hardware.Settings) *computer.Computer {
	return computer.New(settings, groupFactories(config)...)
}

func groupFactories(config configuration.Configuration) []computer.GroupFactory {
	var factories []computer.GroupFactory

	if config.Mainboard.Enabled {
		options := mainboard.DefaultOptions()
		options.SmbiosPath = config.Mainboard.SmbiosPath
		options.Hwmon = config.Mainboard.Hwmon
		factories = append(factories, func(settings hardware.Settings) computer.Group {
			return mainboard.NewGroup(settings, options)
		})
	}
	if config.TBalancer.Enabled {
		options := tbalancer.DefaultOptions()
		options.VendorId = uint16(config.TBalancer.VendorId)
		options.ProductId = uint16(config.TBalancer.ProductId)
		options.BaudRate = config.TBalancer.BaudRate
		factories = append(factories, func(settings hardware.Settings) computer.Group {
			return tbalancer.NewGroup(settings, options)
		})
	}
	if config.Heatmaster.Enabled {
		options := heatmaster.DefaultOptions()
		options.VendorId = uint16(config.Heatmaster.VendorId)
		options.ProductId = uint16(config.Heatmaster.ProductId)
		options.BaudRate = config.Heatmaster.BaudRate
		factories = append(factories, func(settings hardware.Settings) computer.Group {
			return heatmaster.NewGroup(settings, options)
		})
	}
	if config.Aquacomputer.Enabled {
		options := aquacomputer.DefaultOptions()
		options.VendorId = uint16(config.Aquacomputer.VendorId)
		options.ProductId = uint16(config.Aquacomputer.ProductId)
		factories = append(factories, func(settings hardware.Settings) computer.Group {
			return aquacomputer.NewGroup(settings, options)
		})
	}

	return factories
}
