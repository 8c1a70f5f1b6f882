// Package main provides the unified digest command that collects, processes,
// summarizes, formats, and delivers one daily digest run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"ldnews/internal/collect"
	"ldnews/internal/config"
	"ldnews/internal/deliver"
	"ldnews/internal/digest"
	"ldnews/internal/logger"
	"ldnews/internal/models"
	"ldnews/internal/process"
	"ldnews/internal/summarize"
)

func main() {
	// 1. Define Command-Line Flags
	// ---------------------------
	configFile := flag.String("config", "config.yaml", "Path to YAML configuration file")
	dryRun := flag.Bool("dry-run", false, "Run the pipeline but print the digest instead of delivering it")

	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	secrets := config.LoadSecrets()

	log := logger.NewLoggerWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	log.Info("🚀 Starting Leave Delaware news digest pipeline")
	log.Info(fmt.Sprintf("📍 %s", cfg))

	ctx := context.Background()
	startTime := time.Now()

	// 2. Collection
	// -------------
	log.Info("Phase 1: Collection...")

	entries := collectEntries(cfg, secrets, log)
	log.Info(fmt.Sprintf("✅ Collected %d entries in %v", len(entries), time.Since(startTime)))

	// 3. Processing
	// -------------
	log.Info("Phase 2: Processing (filter & normalize)...")

	processStart := time.Now()

	processor := process.NewProcessor(process.Options{
		Keywords:      cfg.Pipeline.Keywords,
		WholeWord:     cfg.Pipeline.Filter.WholeWord,
		VerifyContent: cfg.Pipeline.Filter.VerifyContent,
		FetchTimeout:  cfg.Pipeline.Retry.GetTimeout(),
	}, log)

	processed := processor.Process(entries)
	log.Info(fmt.Sprintf("✅ %d relevant entries after processing in %v", len(processed), time.Since(processStart)))

	// 4. Enrichment
	// -------------
	log.Info("Phase 3: Enrichment (summaries & tags)...")

	client := buildSummarizer(ctx, cfg, secrets, log)
	enricher := summarize.NewEnricher(client, cfg.Summarizer.FallbackTitle, log)
	enriched := enricher.Enrich(ctx, processed)

	// 5. Formatting
	// -------------
	log.Info("Phase 4: Formatting digest...")

	formatter := digest.NewFormatter("")
	d := formatter.Format(enriched)

	if *dryRun {
		fmt.Println(d.Text)
		log.Info("✨ Dry run complete, skipping delivery", "entries", d.TotalEntries)

		return
	}

	// 6. Delivery
	// -----------
	log.Info("Phase 5: Delivery...")

	results := deliverDigest(ctx, cfg, secrets, d, log)

	// 7. Final Report
	// ---------------
	log.Info("✨ Pipeline complete!")
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Date: %s\n", d.Date)
	fmt.Printf("Entries collected: %d\n", len(entries))
	fmt.Printf("Entries in digest: %d\n", d.TotalEntries)
	fmt.Printf("Total duration: %v\n", time.Since(startTime))

	failed := 0

	for _, result := range results {
		status := "ok"
		if !result.OK() {
			status = result.Err.Error()
			failed++
		}

		fmt.Printf("Delivery %s: %s\n", result.Channel, status)
	}

	fmt.Println("------------------------------------------------")

	// Exit non-zero only when every channel failed
	if len(results) > 0 && failed == len(results) {
		os.Exit(1)
	}
}

// collectEntries gathers RSS and PhantomBuster entries. Either source may be
// disabled or unavailable without failing the run.
func collectEntries(cfg *config.Config, secrets *config.Secrets, log *logger.Logger) []models.Entry {
	var entries []models.Entry

	feeds := cfg.GetEnabledFeeds()
	if len(feeds) > 0 {
		rss := collect.NewRSSCollector(feeds, cfg.Window(), cfg.Pipeline.Retry.GetTimeout(), log)
		entries = append(entries, rss.Collect()...)
	}

	phantoms := cfg.GetEnabledPhantoms()
	if len(phantoms) > 0 {
		if secrets.PhantomBusterKey == "" {
			log.Warn("⚠️  PHANTOMBUSTER_API_KEY not set, skipping phantom collection")
		} else {
			fetcher := collect.NewFetcherWithPolicy(&cfg.Pipeline.Retry)
			phantom := collect.NewPhantomClient(phantoms, secrets.PhantomBusterKey, cfg.Window(), fetcher, log)
			entries = append(entries, phantom.CollectAll()...)
		}
	}

	return entries
}

// buildSummarizer returns the configured model client, or nil when the
// provider is "none" or its key is missing (fallback-only enrichment).
func buildSummarizer(ctx context.Context, cfg *config.Config, secrets *config.Secrets, log *logger.Logger) summarize.Client {
	switch cfg.Summarizer.Provider {
	case "openai":
		client, err := summarize.NewOpenAIClient(cfg.Summarizer.BaseURL, secrets.OpenAIKey, cfg.Summarizer.Model)
		if err != nil {
			log.Warn("⚠️  OpenAI client unavailable, using fallback summaries", "error", err)

			return nil
		}

		return client
	case "gemini":
		client, err := summarize.NewGeminiClient(ctx, secrets.GeminiKey, cfg.Summarizer.Model)
		if err != nil {
			log.Warn("⚠️  Gemini client unavailable, using fallback summaries", "error", err)

			return nil
		}

		return client
	default:
		return nil
	}
}

// deliverDigest sends the digest over every enabled channel. One channel
// failing never stops the other.
func deliverDigest(ctx context.Context, cfg *config.Config, secrets *config.Secrets, d models.Digest, log *logger.Logger) []models.DeliveryResult {
	var results []models.DeliveryResult

	if cfg.Delivery.Slack.Enabled {
		results = append(results, models.DeliveryResult{
			Channel: "slack",
			Err:     sendSlack(ctx, cfg, secrets, d, log),
		})
	}

	if cfg.Delivery.Gmail.Enabled {
		results = append(results, models.DeliveryResult{
			Channel: "gmail",
			Err:     sendGmail(ctx, cfg, secrets, d, log),
		})
	}

	for _, result := range results {
		if result.OK() {
			log.Info("✅ Delivery succeeded", "channel", result.Channel)
		} else {
			log.Error("❌ Delivery failed", "channel", result.Channel, "error", result.Err)
		}
	}

	return results
}

func sendSlack(ctx context.Context, cfg *config.Config, secrets *config.Secrets, d models.Digest, log *logger.Logger) error {
	sender, err := deliver.NewSlackSender(secrets.SlackToken, cfg.Delivery.Slack.Channel, log)
	if err != nil {
		return err
	}

	return sender.SendDigest(ctx, d)
}

func sendGmail(ctx context.Context, cfg *config.Config, secrets *config.Secrets, d models.Digest, log *logger.Logger) error {
	sender, err := deliver.NewGmailSender(
		ctx,
		cfg.Delivery.Gmail.CredentialsFile,
		cfg.Delivery.Gmail.TokenFile,
		cfg.Delivery.Gmail.Sender,
		secrets.GmailRecipients,
		log,
	)
	if err != nil {
		return err
	}

	return sender.SendDigest(ctx, d)
}
