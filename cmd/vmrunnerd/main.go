// Copyright 2025 the libevm authors.
//
// The libevm additions to go-ethereum are free software: you can redistribute
// them and/or modify them under the terms of the GNU Lesser General Public License
// as published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// The libevm additions are distributed in the hope that they will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see
// <http://www.gnu.org/licenses/>.

// Command vmrunnerd runs the batch-output scheduler as a standalone
// process: an in-memory or pebble-backed IoSink, the demo batch source, the
// ConcurrentOutputHandlerFactory/WatermarkTask pair, and optional
// Prometheus/websocket-status HTTP servers.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/matter-labs/vm-runner/iosink/memsink"
	"github.com/matter-labs/vm-runner/iosink/pebblesink"
	"github.com/matter-labs/vm-runner/log"
	"github.com/matter-labs/vm-runner/metrics"
	"github.com/matter-labs/vm-runner/outputhandler"
	"github.com/matter-labs/vm-runner/pubdata"
	"github.com/matter-labs/vm-runner/statusserver"
	"github.com/matter-labs/vm-runner/vmrunner"
	"github.com/matter-labs/vm-runner/vmrunner/demo"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to a TOML config file",
	}
	demoFlag = &cli.BoolFlag{
		Name:  "demo",
		Usage: "run against an in-memory IoSink with a no-op handler",
	}
	pebbleDirFlag = &cli.StringFlag{
		Name:  "pebble-dir",
		Usage: "directory for the persistent IoSink (ignored with --demo)",
	}
	statusAddrFlag = &cli.StringFlag{
		Name:  "status-addr",
		Usage: "address to serve the websocket status push on, e.g. :8546",
	}
	metricsAddrFlag = &cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "address to serve Prometheus metrics on, e.g. :6060",
	}
	parallelFlag = &cli.BoolFlag{
		Name:  "parallel",
		Usage: "route demo block execution through the prefetch/process worker pool instead of running it inline",
	}
)

func main() {
	app := &cli.App{
		Name:  "vmrunnerd",
		Usage: "run or inspect the batch-output scheduler",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the batch-output scheduler until interrupted",
				Flags: []cli.Flag{configFlag, demoFlag, pebbleDirFlag, statusAddrFlag, metricsAddrFlag, parallelFlag},
				Action: func(c *cli.Context) error {
					cfg, err := configFromFlags(c)
					if err != nil {
						return err
					}
					return runServe(c.Context, cfg, c.Bool(parallelFlag.Name))
				},
			},
			{
				Name:  "inspect",
				Usage: "print the current watermark and last-considered batch as JSON",
				Flags: []cli.Flag{configFlag, demoFlag, pebbleDirFlag},
				Action: func(c *cli.Context) error {
					cfg, err := configFromFlags(c)
					if err != nil {
						return err
					}
					return runInspect(cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Crit("vmrunnerd exited with error", "err", err)
	}
}

func configFromFlags(c *cli.Context) (Config, error) {
	cfg, err := loadConfig(c.String(configFlag.Name))
	if err != nil {
		return cfg, err
	}
	if c.Bool(demoFlag.Name) {
		cfg.Demo = true
	}
	if v := c.String(pebbleDirFlag.Name); v != "" {
		cfg.PebbleDir = v
	}
	if v := c.String(statusAddrFlag.Name); v != "" {
		cfg.StatusAddr = v
	}
	if v := c.String(metricsAddrFlag.Name); v != "" {
		cfg.MetricsAddr = v
	}
	return cfg, nil
}

// inspectReport is the JSON shape printed by `vmrunnerd inspect`. DataAvail
// is fixed to pubdata.Calldata here: this command inspects the watermark,
// not a specific batch's recorded pubdata mode (no concrete IoSink in this
// module persists per-batch metadata), so it's included to demonstrate the
// wire format a caller building a richer IoSink would reuse.
type inspectReport struct {
	Current        outputhandler.BatchNumber `json:"current"`
	LastConsidered outputhandler.BatchNumber `json:"last_considered"`
	DataAvail      pubdata.Mode              `json:"data_avail"`
}

func runInspect(cfg Config) error {
	var io outputhandler.IoSink
	if cfg.Demo {
		io = memsink.New(0, 0)
	} else {
		sink, err := pebblesink.Open(cfg.PebbleDir, 0)
		if err != nil {
			return fmt.Errorf("opening pebble IoSink: %w", err)
		}
		defer sink.Close()
		io = sink
	}

	report := inspectReport{
		Current:        io.Current(),
		LastConsidered: io.LastConsidered(),
		DataAvail:      pubdata.Calldata,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func runServe(ctx context.Context, cfg Config, parallel bool) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var io outputhandler.IoSink
	if cfg.Demo {
		io = memsink.New(0, 0)
		log.Info("vmrunnerd: using in-memory IoSink (demo mode)")
	} else {
		sink, err := pebblesink.Open(cfg.PebbleDir, 0)
		if err != nil {
			return fmt.Errorf("opening pebble IoSink: %w", err)
		}
		defer sink.Close()
		io = sink
		log.Info("vmrunnerd: using pebble IoSink", "dir", cfg.PebbleDir)
	}

	factory, task := outputhandler.New[vmrunner.Updates](io, demo.NewFactory(nil))

	var status *statusserver.Server
	if cfg.StatusAddr != "" {
		status = statusserver.New()
		srv := &http.Server{Addr: cfg.StatusAddr, Handler: status}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("statusserver failed", "err", err)
			}
		}()
		go func() {
			<-ctx.Done()
			srv.Close()
		}()
		log.Info("vmrunnerd: serving status websocket", "addr", cfg.StatusAddr)
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server failed", "err", err)
			}
		}()
		go func() {
			<-ctx.Done()
			srv.Close()
		}()
		log.Info("vmrunnerd: serving metrics", "addr", cfg.MetricsAddr)
	}

	// task.OnAdvance and runner.Hooks are the only place metrics and the
	// status server learn about progress; both stay fully decorative
	// otherwise.
	task.OnAdvance = func(n outputhandler.BatchNumber) {
		collector.SetWatermark(uint32(n))
		if status != nil {
			status.Broadcast(statusserver.Update{Batch: uint32(n)})
		}
	}

	stop := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(stop)
	}()

	var exec vmrunner.BlockExecutor[vmrunner.Updates]
	if parallel {
		pe := demo.NewParallelExecutor(cfg.Prefetchers, cfg.Processors)
		defer pe.Close()
		exec = pe
		log.Info("vmrunnerd: routing demo execution through worker pool", "prefetchers", cfg.Prefetchers, "processors", cfg.Processors)
	} else {
		exec = demo.NoopExecutor{}
	}

	source := demo.NewSequentialSource(4, 500*time.Millisecond)
	runner := vmrunner.NewRunner[vmrunner.Updates](source, exec, factory, task, func(n outputhandler.BatchNumber) *vmrunner.Updates {
		return &vmrunner.Updates{Batch: vmrunner.BatchRef(n)}
	})
	runner.Hooks = vmrunner.Hooks{
		OnBatchDiscovered: func(n outputhandler.BatchNumber) { collector.SetLastConsidered(uint32(n)) },
		OnBatchDuration:   func(_ outputhandler.BatchNumber, d time.Duration) { collector.ObserveBatchDuration(d.Seconds()) },
		OnStageError:      collector.IncBatchError,
	}
	return runner.Run(ctx, stop)
}
