package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/shubh-37/peyza-simulator/config"
	"github.com/shubh-37/peyza-simulator/internal/cache"
	"github.com/shubh-37/peyza-simulator/internal/database"
	"github.com/shubh-37/peyza-simulator/internal/feed"
	"github.com/shubh-37/peyza-simulator/internal/messaging"
	"github.com/shubh-37/peyza-simulator/internal/models"
	"github.com/shubh-37/peyza-simulator/internal/simulation"
	slackpkg "github.com/shubh-37/peyza-simulator/internal/slack"
)

func main() {
	log.Println("🚀 Peyza Simulator Starting...")

	// Load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("❌ %v", err)
	}

	log.Println("Goodbye 👋")
}

// run returns only after every started component has been stopped and closed
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model := simulation.DefaultModel()
	model.TickInterval = cfg.TickInterval

	// The feed and the simulator each get their own generator
	simRng, err := simulation.NewRandomSource()
	if err != nil {
		return fmt.Errorf("failed to create random source: %w", err)
	}
	feedRng, err := simulation.NewRandomSource()
	if err != nil {
		return fmt.Errorf("failed to create random source: %w", err)
	}

	profile := models.DefaultProfile()
	profile.Handle = cfg.UserHandle
	profile.Name = cfg.UserName
	profile.Followers = cfg.UserFollowers

	f := feed.New(profile, model, feedRng, cfg.NotificationLimit)

	var (
		listeners     []simulation.TickListener
		serverOptions []slackpkg.ServerOption
		markRead      func(ctx context.Context) error
	)

	// Connect to database
	if cfg.DatabaseURL != "" {
		db, err := database.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.CreateTables(ctx); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}

		// Create repositories
		postRepo := database.NewPostRepository(db)
		notificationRepo := database.NewNotificationRepository(db)
		profileRepo := database.NewProfileRepository(db)

		loader := database.NewFeedLoader(postRepo, notificationRepo, profileRepo, cfg.NotificationLimit)
		if _, err := loader.Load(ctx, f, profile, time.Now()); err != nil {
			return fmt.Errorf("failed to restore feed: %w", err)
		}

		markRead = notificationRepo.MarkAllRead
		listeners = append(listeners, database.NewRecorder(postRepo, notificationRepo, profileRepo, f, cfg.NotificationLimit))
		serverOptions = append(serverOptions, slackpkg.WithHealthCheck("database", db.Health))
		log.Println("📊 Database: Connected and recording")
	} else {
		f.Seed(time.Now())
		log.Println("⚠️ DATABASE_URL not set, feed lives in memory only")
	}

	// Connect to NATS
	if cfg.NatsURL != "" {
		publisher, err := messaging.NewPublisher(cfg.NatsURL)
		if err != nil {
			return fmt.Errorf("failed to initialize NATS: %w", err)
		}
		defer publisher.Close()
		listeners = append(listeners, publisher)
		serverOptions = append(serverOptions, slackpkg.WithHealthCheck("nats", publisher.Health))
	}

	// Connect to Redis
	if cfg.RedisAddr != "" {
		feedCache, err := cache.NewFeedCache(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer feedCache.Close()
		listeners = append(listeners, feedCache)
		serverOptions = append(serverOptions, slackpkg.WithHealthCheck("redis", feedCache.Health))
	}

	// Initialize Slack
	var slackServer *slackpkg.Server
	serverErr := make(chan error, 1)
	if cfg.SlackToken != "" {
		slackClient, err := slackpkg.NewClient(cfg.SlackToken)
		if err != nil {
			return fmt.Errorf("failed to initialize Slack: %w", err)
		}

		if cfg.SlackChannelID != "" {
			listeners = append(listeners, slackpkg.NewNotifier(slackClient, cfg.SlackChannelID))
			log.Printf("💬 Slack: Delivering notifications to %s", cfg.SlackChannelID)
		}

		commandHandler := slackpkg.NewCommandHandler(f)
		if markRead != nil {
			commandHandler.OnMarkRead(markRead)
		}
		mentionHandler := slackpkg.NewMentionHandler(slackClient, slackClient.GetBotID(), commandHandler)
		slackServer = slackpkg.NewServer(commandHandler, mentionHandler, cfg.SlackSigningSecret, cfg.Port, serverOptions...)

		go func() {
			serverErr <- slackServer.Start()
		}()
	}

	runner := simulation.NewRunner(
		simulation.NewSimulator(model, simRng),
		simulation.WithListeners(listeners...),
	)
	handle := runner.Start(ctx, f, f)
	defer handle.Stop()

	log.Println("✅ System initialized successfully")
	log.Printf("👤 Simulating for %s (%d followers)", profile.Handle, profile.Followers)
	log.Printf("📡 %d tick listener(s) attached", len(listeners))
	log.Println("")
	log.Println("Simulator is running. Press Ctrl+C to stop...")

	// Wait for interrupt signal or a server failure
	runErr := waitForShutdown(ctx, serverErr)

	log.Println("Shutting down gracefully...")
	handle.Stop()

	if slackServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := slackServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️ Slack server shutdown: %v", err)
		}
	}

	return runErr
}

// waitForShutdown blocks until ctx is cancelled or the server goroutine exits,
// returning the server's error if it failed
func waitForShutdown(ctx context.Context, serverErr <-chan error) error {
	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("slack server stopped: %w", err)
		}
		return nil
	}
}
