// Command sql-language-server loads a core configuration file, starts
// the analytical engine, and keeps it running until terminated. Wiring
// the engine to a concrete wire transport (stdio framing, JSON-RPC
// dispatch) is left to the adapter that embeds this core; this entry
// point only proves the engine starts cleanly from a config file on
// disk, the way a real server's supervisor would invoke it.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	sqlls "github.com/woxQAQ/unified-sql-lsp-sub002"
	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file (required)")
	flag.Parse()

	logger := logrus.New()

	if *configPath == "" {
		logger.Fatal("missing required -config flag")
	}

	data, err := os.ReadFile(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("reading config file")
	}

	cfg, err := config.Load(data)
	if err != nil {
		logger.WithError(err).Fatal("loading config")
	}

	engine := sqlls.New(cfg, sqlls.Options{Logger: logger})
	defer func() {
		if err := engine.Close(); err != nil {
			logger.WithError(err).Error("closing engine")
		}
	}()

	logger.WithFields(logrus.Fields{
		"dialect": cfg.Dialect,
	}).Info("sql-language-server core ready")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
}
