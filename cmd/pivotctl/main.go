package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elbo-studio/pivot-sdk-go/internal/client"
	"github.com/elbo-studio/pivot-sdk-go/internal/engine"
	"github.com/elbo-studio/pivot-sdk-go/internal/infrastructure/config"
	"github.com/elbo-studio/pivot-sdk-go/internal/infrastructure/logging"
	"github.com/elbo-studio/pivot-sdk-go/internal/infrastructure/monitoring"
)

func main() {
	configPath := flag.String("config", "", "Optional TOML config file")
	enginePath := flag.String("engine", "", "Explicit engine binary path")
	op := flag.String("op", engine.OpSyncLicense, "Operation to run")
	timeout := flag.Duration("timeout", 30*time.Second, "Command deadline; the engine is stopped when it fires")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *enginePath != "" {
		cfg.Engine.Path = *enginePath
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	metrics := monitoring.New(nil)
	cli := client.New(cfg, logger, metrics)

	if err := cli.Start(); err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}
	defer cli.Stop()

	// Forced shutdown on signal; the deferred Stop handles the normal path.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	type result struct {
		resp *engine.Response
		err  error
	}
	resChan := make(chan result, 1)
	go func() {
		resp, err := runOp(cli, *op)
		resChan <- result{resp, err}
	}()

	// The channel itself blocks unboundedly on a hung-but-alive engine by
	// contract; the deadline here is the caller-side policy for that gap.
	select {
	case res := <-resChan:
		if res.err != nil {
			log.Fatalf("Command failed: %v", res.err)
		}
		fmt.Println(res.resp.Raw)
		if !res.resp.Succeeded() {
			os.Exit(1)
		}
	case <-time.After(*timeout):
		cli.Stop()
		log.Fatalf("Command timed out after %s", *timeout)
	case <-sigChan:
		cli.Stop()
		log.Fatal("Interrupted")
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func runOp(cli *client.Client, op string) (*engine.Response, error) {
	switch op {
	case engine.OpSyncLicense:
		return cli.SyncLicense()
	default:
		return nil, fmt.Errorf("unsupported operation %q", op)
	}
}
