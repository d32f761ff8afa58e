package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MessageRequest mirrors the WhatsApp Cloud API /messages payload. Only the
// fields the mock needs are bound, the rest passes through unchecked.
type MessageRequest struct {
	MessagingProduct string                 `json:"messaging_product" binding:"required"`
	To               string                 `json:"to"`
	Type             string                 `json:"type"`
	Status           string                 `json:"status"`
	MessageID        string                 `json:"message_id"`
	Text             map[string]interface{} `json:"text"`
	Interactive      map[string]interface{} `json:"interactive"`
}

type MessageResponse struct {
	MessagingProduct string            `json:"messaging_product"`
	Contacts         []contactEcho     `json:"contacts,omitempty"`
	Messages         []messageIDHolder `json:"messages,omitempty"`
	Success          bool              `json:"success,omitempty"`
}

type contactEcho struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

type messageIDHolder struct {
	ID string `json:"id"`
}

// MockProvider simulates the WhatsApp Cloud API for local development. It
// accepts sends, fabricates message ids, and fails a configurable fraction
// of requests so retry paths can be exercised.
type MockProvider struct {
	successRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
	providerID  string
	rng         *rand.Rand
}

func NewMockProvider(successRate float64, minDelay, maxDelay time.Duration) *MockProvider {
	return &MockProvider{
		successRate: successRate,
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		providerID:  "MOCK_PROVIDER_" + uuid.New().String()[:8],
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *MockProvider) randomDelay() time.Duration {
	if m.maxDelay <= m.minDelay {
		return m.minDelay
	}
	delta := m.maxDelay - m.minDelay
	return m.minDelay + time.Duration(m.rng.Int63n(int64(delta)))
}

func (m *MockProvider) shouldSucceed() bool {
	return m.rng.Float64() < m.successRate
}

type Handler struct {
	provider *MockProvider
}

func NewHandler(provider *MockProvider) *Handler {
	return &Handler{provider: provider}
}

// SendMessage handles POST /:phone_id/messages. Read receipts (status
// payloads) always succeed; outbound sends honor the configured success
// rate and return a 500 on a simulated failure so clients retry.
func (h *Handler) SendMessage(c *gin.Context) {
	phoneID := c.Param("phone_id")
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": err.Error(),
		})
		return
	}

	if req.Status == "read" {
		log.Info().
			Str("phone_id", phoneID).
			Str("message_id", req.MessageID).
			Msg("Message marked as read")
		c.JSON(http.StatusOK, MessageResponse{MessagingProduct: "whatsapp", Success: true})
		return
	}

	time.Sleep(h.provider.randomDelay())

	if !h.provider.shouldSucceed() {
		log.Warn().
			Str("phone_id", phoneID).
			Str("to", req.To).
			Str("type", req.Type).
			Msg("Simulated delivery failure")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"message": "Service temporarily unavailable", "code": 131016},
		})
		return
	}

	wamid := "wamid." + uuid.New().String()
	log.Info().
		Str("phone_id", phoneID).
		Str("to", req.To).
		Str("type", req.Type).
		Str("wamid", wamid).
		Msg("Message accepted")

	c.JSON(http.StatusOK, MessageResponse{
		MessagingProduct: "whatsapp",
		Contacts:         []contactEcho{{Input: req.To, WaID: req.To}},
		Messages:         []messageIDHolder{{ID: wamid}},
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"provider_id":  h.provider.providerID,
		"timestamp":    time.Now(),
		"success_rate": h.provider.successRate,
	})
}

// UpdateConfig allows changing the success rate at runtime so failure
// handling can be tested against a live gateway.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		SuccessRate *float64 `json:"success_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": err.Error(),
		})
		return
	}

	if config.SuccessRate != nil {
		if *config.SuccessRate >= 0 && *config.SuccessRate <= 1.0 {
			h.provider.successRate = *config.SuccessRate
			log.Info().Float64("rate", *config.SuccessRate).Msg("Updated success rate")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Configuration updated",
		"success_rate": h.provider.successRate,
	})
}

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	router.POST("/:phone_id/messages", handler.SendMessage)
	router.PUT("/config", handler.UpdateConfig)
	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8081")
	successRate := getEnvFloat("SUCCESS_RATE", 1)
	minDelay := getEnvDuration("MIN_DELAY", 50*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 300*time.Millisecond)

	log.Info().
		Str("port", port).
		Float64("success_rate", successRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("Starting Mock WhatsApp Provider")

	provider := NewMockProvider(successRate, minDelay, maxDelay)
	handler := NewHandler(provider)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
