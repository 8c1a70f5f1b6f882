// Package main provides the preview command: it formats a digest from a
// collected-entries JSON file and prints it without delivering anything.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"ldnews/internal/config"
	"ldnews/internal/digest"
	"ldnews/internal/logger"
	"ldnews/internal/models"
	"ldnews/internal/process"
	"ldnews/internal/summarize"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to YAML configuration file")
	input := flag.String("input", "", "Collected-entries JSON file (from cmd/collector)")
	asHTML := flag.Bool("html", false, "Print the HTML form instead of the text form")

	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Please provide an entries file with -input")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLoggerWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Error("failed to read entries file", "error", err)
		os.Exit(1)
	}

	var entries []models.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Error("failed to parse entries file", "error", err)
		os.Exit(1)
	}

	// Preview runs offline: no content verification, no model calls.
	processor := process.NewProcessor(process.Options{
		Keywords:  cfg.Pipeline.Keywords,
		WholeWord: cfg.Pipeline.Filter.WholeWord,
	}, log)

	processed := processor.Process(entries)

	enricher := summarize.NewEnricher(nil, cfg.Summarizer.FallbackTitle, log)
	enriched := enricher.Enrich(context.Background(), processed)

	formatter := digest.NewFormatter("")
	d := formatter.Format(enriched)

	if *asHTML {
		fmt.Println(d.HTML)

		return
	}

	fmt.Println(d.Text)
}
