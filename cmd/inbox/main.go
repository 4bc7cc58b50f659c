package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/DHEENA0007/squares-messaging/internal/api"
	"github.com/DHEENA0007/squares-messaging/internal/config"
	"github.com/DHEENA0007/squares-messaging/internal/engine"
	"github.com/DHEENA0007/squares-messaging/internal/realtime"
	"github.com/DHEENA0007/squares-messaging/pkg/token"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	bearerToken := flag.String("token", os.Getenv("SQUARES_TOKEN"), "session bearer token")
	flag.Parse()

	logger := logrus.New()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	claims, err := token.Parse(*bearerToken)
	if err != nil {
		logger.Errorf("invalid token: %v", err)
		os.Exit(1)
	}
	logger.Infof("session loaded: user_id=%s, role=%s", claims.UserId, claims.Role)

	// REST adapter
	apiClient, err := api.NewClient(cfg.API.BaseURL,
		api.WithToken(*bearerToken),
		api.WithLogger(logger),
	)
	if err != nil {
		logger.Errorf("failed to create api client: %v", err)
		os.Exit(1)
	}

	// Realtime channel
	channel, err := realtime.Dial(cfg.Realtime, *bearerToken, claims.UserId, logger)
	if err != nil {
		logger.Errorf("failed to connect realtime channel: %v", err)
		os.Exit(1)
	}

	// Sync engine
	eng, err := engine.New(apiClient, channel, engine.Options{
		Token: *bearerToken,
		Capabilities: engine.Capabilities{
			Role:             cfg.Engine.Role,
			EnableDeletion:   cfg.Engine.EnableDeletion,
			ShowPropertyInfo: cfg.Engine.ShowPropertyInfo,
		},
		PageSize:         cfg.Engine.PageSize,
		SearchDebounce:   cfg.Engine.SearchDebounce,
		TypingIdle:       cfg.Engine.TypingIdle,
		TypingExpiry:     cfg.Engine.TypingExpiry,
		ArchiveReconcile: cfg.Engine.ArchiveReconcile,
		Confirm: func(action, id string) bool {
			fmt.Printf("%s %s? [y/N] ", action, id)
			var answer string
			fmt.Scanln(&answer)
			return answer == "y" || answer == "Y"
		},
		Logger: logger,
	})
	if err != nil {
		logger.Errorf("failed to create engine: %v", err)
		os.Exit(1)
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// surface transient notifications on stderr
	go func() {
		for n := range eng.Notifications() {
			logger.Warnf("[%s] %s: %v", n.Level, n.Message, n.Err)
		}
	}()

	// initial sync
	if err := eng.RefreshConversations(ctx); err != nil {
		logger.Warnf("initial refresh failed, continuing with empty list: %v", err)
	}
	for _, conv := range eng.Conversations() {
		fmt.Printf("%-24s %-20s unread=%d\n", conv.Id, conv.OtherParticipant.DisplayName, conv.UnreadCount)
	}
	logger.Infof("total unread: %d", eng.TotalUnread())

	// consume realtime events until interrupted
	go func() {
		if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Errorf("engine stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
}
