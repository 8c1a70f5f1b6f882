// Package main provides the collection-only command: it gathers entries from
// every configured source and dumps them as JSON for inspection.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"ldnews/internal/collect"
	"ldnews/internal/config"
	"ldnews/internal/logger"
	"ldnews/internal/models"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to YAML configuration file")
	output := flag.String("output", "", "Write entries to this file instead of stdout")

	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	secrets := config.LoadSecrets()
	log := logger.NewLoggerWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	var entries []models.Entry

	feeds := cfg.GetEnabledFeeds()
	if len(feeds) > 0 {
		rss := collect.NewRSSCollector(feeds, cfg.Window(), cfg.Pipeline.Retry.GetTimeout(), log)
		entries = append(entries, rss.Collect()...)
	}

	phantoms := cfg.GetEnabledPhantoms()
	if len(phantoms) > 0 && secrets.PhantomBusterKey != "" {
		fetcher := collect.NewFetcherWithPolicy(&cfg.Pipeline.Retry)
		phantom := collect.NewPhantomClient(phantoms, secrets.PhantomBusterKey, cfg.Window(), fetcher, log)
		entries = append(entries, phantom.CollectAll()...)
	}

	log.Info("collection complete", "entries", len(entries))

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Error("failed to marshal entries", "error", err)
		os.Exit(1)
	}

	if *output == "" {
		fmt.Println(string(data))

		return
	}

	if err := os.WriteFile(*output, data, 0644); err != nil {
		log.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	log.Info("wrote entries", "path", *output)
}
