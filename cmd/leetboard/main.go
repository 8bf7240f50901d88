// Command leetboard runs the solve-tracking Discord bot: the poll engine on
// a fixed interval, the weekly leaderboard on a calendar schedule, the
// Discord command surface, and an internal status/metrics server.
//
// Init order: config → logging → tracing → stores → feed client → bot →
// scheduler. Teardown reverses it: the scheduler stops first so no new
// cycles start, then the bot closes, then the database.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/leetboard/leetboard/internal/config"
	"github.com/leetboard/leetboard/internal/discord"
	httpapi "github.com/leetboard/leetboard/internal/http"
	"github.com/leetboard/leetboard/internal/leetcode"
	"github.com/leetboard/leetboard/internal/observability"
	"github.com/leetboard/leetboard/internal/repo"
	"github.com/leetboard/leetboard/internal/schedule"
	"github.com/leetboard/leetboard/internal/services"
)

const version = "1.0.0"

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	feed := leetcode.NewClient(leetcode.Options{
		BaseURL: cfg.FeedURL,
		Timeout: cfg.FeedTimeout,
		RPS:     cfg.FeedRPS,
	})

	tracker := &services.TrackerService{DB: db}
	stats := &services.StatsService{DB: db}

	bot, err := discord.New(cfg.BotToken, cfg.GuildID, tracker, stats, log.With().Str("component", "discord").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("discord session setup failed")
	}
	if err := bot.Start(); err != nil {
		log.Fatal().Err(err).Msg("discord connect failed")
	}

	poller := &services.PollService{
		DB:        db,
		Feed:      feed,
		Notifier:  bot,
		FeedLimit: cfg.FeedLimit,
		Pacing:    cfg.PollPacing,
		Log:       log.With().Str("component", "poll").Logger(),
	}
	reporter := &services.ReportService{
		DB:        db,
		Stats:     stats,
		Messenger: bot,
		Log:       log.With().Str("component", "report").Logger(),
	}

	statusSrv := &http.Server{
		Addr:              cfg.StatusAddr,
		Handler:           httpapi.NewRouter(db),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := statusSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("status server failed")
		}
	}()

	reportLoc, _ := time.LoadLocation(cfg.Report.Timezone) // validated in config
	sched := &schedule.Scheduler{Log: log.With().Str("component", "schedule").Logger()}
	sched.Every(ctx, "poll", cfg.PollInterval, func(ctx context.Context) {
		if err := poller.RunCycle(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("poll cycle failed")
		}
	})
	sched.Weekly(ctx, "weekly-leaderboard", cfg.Report.Weekday, cfg.Report.Hour, cfg.Report.Minute,
		reportLoc, cfg.Report.Grace, func(ctx context.Context) {
			if err := reporter.WeeklyLeaderboards(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("weekly report failed")
			}
		})

	log.Info().Str("db", cfg.DBPath).Dur("poll_interval", cfg.PollInterval).Msg("leetboard running")
	<-ctx.Done()

	// No mid-identity cancellation: the running cycle finishes on its own.
	sched.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = statusSrv.Shutdown(shutdownCtx)
	if err := bot.Close(); err != nil {
		log.Warn().Err(err).Msg("discord close failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = shutdownOTel(shutdownCtx)
	log.Info().Msg("leetboard stopped")
}
