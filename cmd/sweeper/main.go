package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/zapstore/chat-gateway/internal/config"
	"github.com/zapstore/chat-gateway/internal/repository"
	"github.com/zapstore/chat-gateway/pkg/logger"
	"github.com/zapstore/chat-gateway/pkg/pg"
)

// The sweeper removes expired session rows so the sessions table stays
// small. Expired sessions are already invisible to lookups, deletion is
// purely housekeeping and can lag behind expiry without affecting
// conversations.
func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	db, err := pg.CreateReadWrite(writeConf, writeConf, false)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	sessions := repository.NewSessionRepository(db)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(config.Get().SessionSweepEvery)
	defer ticker.Stop()

	logger.Info("session sweeper started", "interval", config.Get().SessionSweepEvery)
	sweep(sessions)

	for {
		select {
		case <-ticker.C:
			sweep(sessions)
		case <-c:
			logger.Info("session sweeper shutting down")
			return
		}
	}
}

func sweep(sessions *repository.SessionRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	removed, err := sessions.DeleteExpired(ctx)
	if err != nil {
		logger.Error("failed to delete expired sessions", "error", err)
		return
	}
	if removed > 0 {
		logger.Info("removed expired sessions", "count", removed)
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
