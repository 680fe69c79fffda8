package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/custos-watch/custos/internal/chain"
	"github.com/custos-watch/custos/internal/config"
	"github.com/custos-watch/custos/internal/custos"
	"github.com/custos-watch/custos/internal/http_api"
	"github.com/custos-watch/custos/internal/notificator"
	"github.com/custos-watch/custos/internal/pricing"
	"github.com/custos-watch/custos/internal/repository"
	"github.com/custos-watch/custos/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "custos",
		Usage: "Custos watches treasury wallet balances and announces changes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.StringFlag{Name: "telegram-token", Aliases: []string{"T"}, Usage: "Telegram bot token"},
			&cli.DurationFlag{Name: "poll-interval", Aliases: []string{"i"}, Usage: "Balance poll interval"},
			&cli.DurationFlag{Name: "pacing-delay", Aliases: []string{"w"}, Usage: "Pause before each external API call"},
			&cli.IntFlag{Name: "api-port", Aliases: []string{"a"}, Usage: "HTTP API port"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("telegram-token") {
		cfg.TelegramBotToken = c.String("telegram-token")
	}
	if c.IsSet("poll-interval") {
		cfg.PollInterval = c.Duration("poll-interval")
	}
	if c.IsSet("pacing-delay") {
		cfg.PacingDelay = c.Duration("pacing-delay")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	// Initialize database
	db, err := repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize the notificator (report sink, alert channel, admin console)
	notifier, err := notificator.NewTelegramNotificator(cfg, db, log)
	if err != nil {
		return fmt.Errorf("failed to initialize telegram bot: %v", err)
	}

	// Initialize the price source and the per-chain fetchers
	prices := pricing.NewService(cfg.CoingeckoURL, db, notifier, log)
	fetchers := chain.NewRegistry(cfg, log)

	// Create the watcher instance
	watcher := custos.NewCustos(db, fetchers, prices, notifier, notifier, cfg.PollInterval, cfg.PacingDelay, log)

	apiServer := http_api.NewHTTPServer(db, cfg.APIPort, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go apiServer.Start()
	go notifier.Start(ctx)

	// Run the poll loop in the foreground until shutdown
	watcher.Start(ctx)

	if err := apiServer.Shutdown(); err != nil {
		log.Error("Failed to shut down HTTP server: ", err)
	}

	// Give in-flight deliveries a moment to finish
	time.Sleep(time.Second)

	return nil
}
