package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizpulse/internal/app"
	"quizpulse/internal/config"
	"quizpulse/internal/infra/memory"
	"quizpulse/internal/infra/opentdb"
	pginfra "quizpulse/internal/infra/postgres"
	redisinfra "quizpulse/internal/infra/redis"
	transport "quizpulse/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	source := opentdb.NewClient(cfg.Trivia.BaseURL, config.Duration(cfg.Trivia.Timeout, 10*time.Second))

	var questionStore app.QuestionStore
	var reporter app.ScoreReporter
	var reader transport.ScoreReader
	if pool != nil {
		questionStore = pginfra.NewQuestionStore(pool)
		scoreStore := pginfra.NewScoreStore(pool)
		reporter = scoreStore
		reader = scoreStore
	} else {
		questionStore = memory.NewQuestionStore()
		scoreStore := memory.NewScoreStore()
		reporter = scoreStore
		reader = scoreStore
	}

	leaderboardTTL := config.Duration(cfg.Leaderboard.TTL, time.Minute)
	if redisClient != nil {
		reader = redisinfra.NewLeaderboardCache(redisClient, reader, leaderboardTTL)
	} else {
		reader = memory.NewLeaderboardCache(reader, leaderboardTTL)
	}

	wsHandler := transport.NewWSHandler(source, questionStore, reporter, cfg.Trivia.Amount)
	scoresHandler := transport.NewScoresHandler(reader)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/scores", scoresHandler)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quizpulse server on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
