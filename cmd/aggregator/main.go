package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"talentmatch/internal/aggregator"
	"talentmatch/internal/app"
	"talentmatch/internal/config"
	"talentmatch/internal/database/migration"
	"talentmatch/internal/database/seeder"
	"talentmatch/internal/pipeline"

	"github.com/joho/godotenv"
)

// The aggregator runs the full ingest cycle once and exits: scrape the
// feed, extract skills from every new offer, refresh match traces. Meant
// for cron.
func main() {
	pages := flag.Int("pages", 0, "feed pages to scrape (default from FEED_PAGES)")
	workers := flag.Int("workers", 0, "worker count (default from FEED_WORKERS)")
	skipScrape := flag.Bool("skip-scrape", false, "only run extraction and match refresh")
	flag.Parse()

	_ = godotenv.Load()

	logger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if *pages <= 0 {
		*pages = cfg.Aggregator.FeedPages
	}
	if *workers <= 0 {
		*workers = cfg.Aggregator.Workers
	}

	c, err := app.NewContainer(cfg, logger, aggregator.NewPageFetcher(logger, true), nil)
	if err != nil {
		logger.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	if err := (migration.Runner{Dir: "migrations"}).Run(migCtx, c.DB.SQLDB()); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}
	if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(migCtx, c.DB); err != nil {
		logger.Fatalf("seed failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	ingested := 0
	if !*skipScrape {
		scraper, err := aggregator.NewFeedScraper(c.DB, c.Offers, cfg.Aggregator.FeedBaseURL, logger)
		if err != nil {
			logger.Fatalf("failed to init feed scraper: %v", err)
		}
		ingested, err = scraper.Scrape(ctx, *pages, *workers)
		if err != nil {
			logger.Fatalf("feed scrape failed: %v", err)
		}
	}

	extractPipe := pipeline.NewOfferExtractionPipeline(c.Offers, c.OfferSkills, c.Extractor, logger)
	extracted, err := extractPipe.Run(ctx, pipeline.RunParams{Workers: *workers})
	if err != nil {
		logger.Fatalf("extraction pipeline failed: %v", err)
	}

	refreshPipe := pipeline.NewMatchRefreshPipeline(c.Candidates, c.Offers, c.MatchUC, logger)
	if err := refreshPipe.Run(ctx, pipeline.MatchRefreshParams{Workers: *workers, Source: "aggregator"}); err != nil {
		logger.Fatalf("match refresh pipeline failed: %v", err)
	}

	logger.Printf("aggregator done | ingested=%d extracted=%d", ingested, extracted)
}
