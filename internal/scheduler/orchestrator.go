package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/fortuna/augur/internal/cache"
	"github.com/fortuna/augur/internal/feature"
	"github.com/fortuna/augur/internal/ingest/bdl"
	"github.com/fortuna/augur/internal/ingest/espn"
	"github.com/fortuna/augur/internal/publisher"
	"github.com/fortuna/augur/internal/service"
	"github.com/fortuna/augur/internal/store"
)

// Orchestrator manages the daily pipeline: pull yesterday's results and box
// scores, refresh the upcoming slate, then predict and publish it.
type Orchestrator struct {
	db      *store.Database
	cache   *cache.RedisCache
	pub     *publisher.RedisStreamPublisher
	config  *Config
	models  *service.ModelService
	history *service.HistoryStore

	primaryIngester *bdl.Ingester
	slateIngester   *espn.Ingester

	cancel context.CancelFunc
}

// Config holds scheduler configuration
type Config struct {
	DailyIngestionHour  int           // Default: 3 (3 AM)
	SlatePredictionHour int           // Default: 9 (9 AM)
	CurrentSeason       string        // e.g., "2024"
	ScheduleDays        int           // how many days of slate to refresh
	EnableIngestion     bool          // Default: true
	EnablePredictions   bool          // Default: true
	MaxRetries          int           // Default: 3
	RetryDelay          time.Duration // Default: 5s
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		DailyIngestionHour:  3,
		SlatePredictionHour: 9,
		CurrentSeason:       "2025",
		ScheduleDays:        7,
		EnableIngestion:     true,
		EnablePredictions:   true,
		MaxRetries:          3,
		RetryDelay:          5 * time.Second,
	}
}

// NewOrchestrator creates a new scheduler orchestrator
func NewOrchestrator(db *store.Database, redisCache *cache.RedisCache, models *service.ModelService, history *service.HistoryStore, bdlAPIKey string, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}

	return &Orchestrator{
		db:              db,
		cache:           redisCache,
		pub:             publisher.NewRedisStreamPublisher(redisCache.Client()),
		config:          config,
		models:          models,
		history:         history,
		primaryIngester: bdl.NewIngester(db, bdlAPIKey),
		slateIngester:   espn.NewIngester(db),
	}
}

// Start begins all scheduled tasks and blocks until the context is done.
func (o *Orchestrator) Start(ctx context.Context) {
	log.Println("╔════════════════════════════════════════╗")
	log.Println("║     Augur Scheduler Orchestrator      ║")
	log.Println("╚════════════════════════════════════════╝")
	log.Printf("Daily ingestion: %v (at %02d:00)", o.config.EnableIngestion, o.config.DailyIngestionHour)
	log.Printf("Slate prediction: %v (at %02d:00)", o.config.EnablePredictions, o.config.SlatePredictionHour)
	log.Printf("Season: %s", o.config.CurrentSeason)
	log.Println()

	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	if o.config.EnableIngestion {
		go o.runDailyAt(ctx, o.config.DailyIngestionHour, "ingestion", o.runIngestionTask)
	}
	if o.config.EnablePredictions {
		go o.runDailyAt(ctx, o.config.SlatePredictionHour, "slate prediction", o.runSlateTask)
	}

	<-ctx.Done()
	log.Println("Scheduler orchestrator stopping...")
}

// runDailyAt fires the task once per day at the given hour.
func (o *Orchestrator) runDailyAt(ctx context.Context, hour int, name string, task func(context.Context)) {
	log.Printf("→ Daily %s scheduler started (runs at %02d:00)", name, hour)

	for {
		now := time.Now()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
		if now.After(nextRun) {
			nextRun = nextRun.Add(24 * time.Hour)
		}

		waitDuration := time.Until(nextRun)
		log.Printf("  Next %s: %s (in %v)", name, nextRun.Format("2006-01-02 15:04:05"), waitDuration.Round(time.Second))

		select {
		case <-ctx.Done():
			log.Printf("→ Daily %s scheduler stopped", name)
			return
		case <-time.After(waitDuration):
			task(ctx)
		}
	}
}

// runIngestionTask pulls yesterday's completed games and box scores, then
// refreshes the upcoming slate.
func (o *Orchestrator) runIngestionTask(ctx context.Context) {
	startTime := time.Now()
	log.Println("═══ Daily Ingestion Starting ═══")

	o.withRetry(ctx, "season results", func() error {
		season, err := seasonInt(o.config.CurrentSeason)
		if err != nil {
			return err
		}
		_, err = o.primaryIngester.IngestSeason(ctx, season)
		return err
	})

	yesterday := time.Now().Add(-24 * time.Hour)
	o.withRetry(ctx, "box scores", func() error {
		_, err := o.slateIngester.IngestBoxScores(ctx, yesterday)
		return err
	})

	o.withRetry(ctx, "schedule", func() error {
		_, err := o.slateIngester.IngestSchedule(ctx, o.config.CurrentSeason, time.Now(), o.config.ScheduleDays)
		return err
	})

	log.Printf("✓ Daily ingestion complete in %v", time.Since(startTime).Round(time.Second))
	log.Println("═══ Daily Ingestion Complete ═══")
}

// runSlateTask predicts today's scheduled games, caches each result and
// publishes the slate to the stream.
func (o *Orchestrator) runSlateTask(ctx context.Context) {
	log.Println("═══ Slate Prediction Starting ═══")

	from := time.Now().Truncate(24 * time.Hour)
	matchups, err := o.history.ScheduledBetween(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		log.Printf("❌ Loading slate failed: %v", err)
		return
	}
	if len(matchups) == 0 {
		log.Println("No games scheduled today")
		return
	}

	svc := service.NewPredictionService(o.history, o.history, o.models.Current(), feature.DefaultWindowSize)
	predictions := svc.PredictBatch(ctx, matchups)

	published := 0
	for _, p := range predictions {
		if p.Result == nil {
			log.Printf("  ⚠️  %s vs %s skipped: %s", p.Matchup.HomeTeam, p.Matchup.VisitorTeam, p.Error)
			continue
		}
		if err := o.cache.SetPrediction(ctx, p.Matchup.HomeTeam, p.Matchup.VisitorTeam, p.Matchup.GameDate, p.Result); err != nil {
			log.Printf("  ⚠️  Caching %s vs %s: %v", p.Matchup.HomeTeam, p.Matchup.VisitorTeam, err)
		}
		if err := o.pub.PublishPrediction(ctx, p.Result); err != nil {
			log.Printf("  ⚠️  Publishing %s vs %s: %v", p.Matchup.HomeTeam, p.Matchup.VisitorTeam, err)
			continue
		}
		published++
	}

	if err := o.pub.PublishSlate(ctx, predictions); err != nil {
		log.Printf("  ⚠️  Publishing slate: %v", err)
	}

	log.Printf("✓ Predicted %d games, published %d", len(predictions), published)
	log.Println("═══ Slate Prediction Complete ═══")
}

// withRetry runs fn up to MaxRetries times with a fixed delay.
func (o *Orchestrator) withRetry(ctx context.Context, name string, fn func() error) {
	var err error
	for attempt := 1; attempt <= o.config.MaxRetries; attempt++ {
		if err = fn(); err == nil {
			return
		}

		log.Printf("  ⚠️  %s attempt %d/%d failed: %v", name, attempt, o.config.MaxRetries, err)
		if attempt < o.config.MaxRetries {
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.config.RetryDelay):
			}
		}
	}
	log.Printf("  ❌ %s failed after %d attempts: %v", name, o.config.MaxRetries, err)
}

// Stop gracefully stops the scheduler
func (o *Orchestrator) Stop() {
	log.Println("Stopping scheduler orchestrator...")
	if o.cancel != nil {
		o.cancel()
	}
	log.Println("✓ Scheduler orchestrator stopped")
}

// TriggerSlate runs the slate prediction task immediately.
func (o *Orchestrator) TriggerSlate(ctx context.Context) {
	o.runSlateTask(ctx)
}

func seasonInt(season string) (int, error) {
	year, err := strconv.Atoi(season)
	if err != nil {
		return 0, fmt.Errorf("bad season %q: %w", season, err)
	}
	return year, nil
}
