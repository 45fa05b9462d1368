package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"discord-quiz-bot/internal/app"
	"discord-quiz-bot/internal/config"
	"discord-quiz-bot/internal/infra/memory"
	redisexport "discord-quiz-bot/internal/infra/redis"
	"discord-quiz-bot/internal/infra/xlsx"
	"discord-quiz-bot/internal/transport/discord"
	httptransport "discord-quiz-bot/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand that runs the bot.
func NewStartCmd(configPath, token, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Connect to Discord and serve the live score feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), *configPath, *token, *port)
		},
	}
}

func run(ctx context.Context, configPath, tokenFlag, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	botToken := cfg.Discord.Token
	if tokenFlag != "" {
		botToken = tokenFlag
	}
	if botToken == "" {
		return errors.New("discord token not set (config discord.token, --token or DISCORD_TOKEN)")
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	results := xlsx.NewExporter(cfg.Quiz.ExportDir)
	exporters := []app.Exporter{results}
	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ttl := config.Duration(cfg.Redis.TTL, 24*time.Hour)
		exporters = append(exporters, redisexport.NewLeaderboardExporter(client, "quizbot", ttl))
	}

	gateway, err := discord.NewGateway(botToken)
	if err != nil {
		return err
	}

	svc := app.NewQuizService(app.Config{
		Quizzes:   memory.NewQuizStore(),
		Sessions:  memory.NewSessionRegistry(),
		Identity:  discord.NewResolver(gateway),
		Exporters: exporters,
		Logger:    log,
		Tick:      config.Duration(cfg.Quiz.Tick, time.Second),
		Pause:     config.Duration(cfg.Quiz.Pause, 3*time.Second),
	})

	bot := discord.NewBot(gateway, svc, results, discord.Options{
		Prefix:      cfg.Discord.Prefix,
		AllowedRole: cfg.Discord.AllowedRole,
		Logger:      log,
	})

	feed := httptransport.NewScoreFeed(svc, log)
	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      feed.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("connecting to discord")
		return bot.Run(ctx)
	})
	g.Go(func() error {
		log.Info("starting score feed", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
