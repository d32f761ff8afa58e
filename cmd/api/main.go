package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/zapstore/chat-gateway/internal/config"
	gateway "github.com/zapstore/chat-gateway/internal/gateways"
	"github.com/zapstore/chat-gateway/internal/handlers"
	"github.com/zapstore/chat-gateway/internal/repository"
	"github.com/zapstore/chat-gateway/internal/services"
	xhttp "github.com/zapstore/chat-gateway/pkg/http"
	"github.com/zapstore/chat-gateway/pkg/logger"
	"github.com/zapstore/chat-gateway/pkg/pg"
	"github.com/zapstore/chat-gateway/pkg/prom"
	"github.com/zapstore/chat-gateway/pkg/redis"
	"github.com/zapstore/chat-gateway/pkg/worker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	if config.Get().PromNamespace != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed to register metrics", "error", err)
			return
		}
		if config.Get().AppDebugMetricsAddr != "" {
			go prom.ListenAndServe(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
		}
	}

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	// repositories
	customerRepo := repository.NewCustomerRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)

	// outbound client
	whatsapp := gateway.NewWhatsAppClient(&gateway.Config{
		APIURL:        config.Get().WhatsAppAPIURL,
		Token:         config.Get().WhatsAppToken,
		PhoneNumberID: config.Get().WhatsAppPhoneNumberID,
		Timeout:       time.Second * 5,
		MaxRetries:    2,
		RetryDelay:    time.Millisecond * 200,
		MaxConns:      256,
	})

	// read receipts run out-of-band so webhook latency stays low
	receipts := worker.NewWorkerManager(1024, config.Get().DispatchWorkerCount, nil)
	receipts.SetWorker(func(workerIndex int, job interface{}) {
		messageID, ok := job.(string)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := whatsapp.MarkAsRead(ctx, messageID); err != nil {
			logger.Warn("failed to mark message as read", "message_id", messageID, "error", err)
		}
	})
	go func() {
		if err := receipts.Start(); err != nil {
			logger.Info("receipt workers stopped", "reason", err)
		}
	}()

	// services
	conversationService := services.NewConversationService(
		services.NewIdentityService(customerRepo),
		services.NewSessionService(sessionRepo),
		services.NewIntentClassifier(),
		services.NewDialogService(productRepo, orderRepo),
		services.NewSessionLock(redisAdap, config.Get().SessionLockTTL),
	)

	// v1 handlers
	webhookHandler := handlers.NewWebhookHandler(
		conversationService,
		whatsapp,
		receipts,
		config.Get().WhatsAppVerifyToken,
		config.Get().WhatsAppAppSecret,
		config.Get().IsProduction(),
	)
	healthHandler := handlers.NewHealthHandler()

	g := s.Router.Group("/api/v1")
	handlers.RegisterWebhookRoutes(g, webhookHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		receipts.Exit()
		s.Shutdown()
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
