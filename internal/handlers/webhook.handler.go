package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fasthttp/router"

	"github.com/zapstore/chat-gateway/internal/model"
	"github.com/zapstore/chat-gateway/internal/services"
	"github.com/zapstore/chat-gateway/internal/webhook"
	xhttp "github.com/zapstore/chat-gateway/pkg/http"
	"github.com/zapstore/chat-gateway/pkg/logger"
	"github.com/zapstore/chat-gateway/pkg/prom"
	"github.com/zapstore/chat-gateway/pkg/worker"
)

const signatureHeader = "X-Hub-Signature-256"

// genericErrorReply is the best-effort message sent when processing or
// dispatch fails. The user always hears something back for a text event.
const genericErrorReply = "Desculpe, ocorreu um erro. Por favor, tente novamente."

type ConversationService interface {
	Handle(ctx context.Context, ev *model.MessageEvent) (*model.ResponseEnvelope, error)
}

type Dispatcher interface {
	SendText(ctx context.Context, to, text string) error
	MarkAsRead(ctx context.Context, messageID string) error
}

type WebhookHandler struct {
	conversations ConversationService
	dispatcher    Dispatcher
	receipts      *worker.WorkerManager
	verifyToken   string
	appSecret     string

	// requireSignature is on in production; development tolerates unsigned
	// deliveries but still rejects bad signatures.
	requireSignature bool
}

func RegisterWebhookRoutes(e *router.Group, h *WebhookHandler) {
	e.GET("/webhook", h.VerifyWebhook)
	e.POST("/webhook", h.ReceiveWebhook)
}

func NewWebhookHandler(
	conversations ConversationService,
	dispatcher Dispatcher,
	receipts *worker.WorkerManager,
	verifyToken, appSecret string,
	requireSignature bool,
) *WebhookHandler {
	return &WebhookHandler{
		conversations:    conversations,
		dispatcher:       dispatcher,
		receipts:         receipts,
		verifyToken:      verifyToken,
		appSecret:        appSecret,
		requireSignature: requireSignature,
	}
}

// VerifyWebhook answers the provider's subscription handshake with the
// challenge, or 403 when mode/token do not match.
func (h *WebhookHandler) VerifyWebhook(ctx *xhttp.RequestCtx) {
	challenge, ok := webhook.VerifySubscription(
		query(ctx, "hub.mode"),
		query(ctx, "hub.verify_token"),
		query(ctx, "hub.challenge"),
		h.verifyToken,
	)
	if !ok {
		logger.Warn("webhook verification failed")
		writeError(ctx, xhttp.StatusForbidden, "verification failed")
		return
	}
	ctx.Response.Header.Set("Content-Type", "text/plain; charset=utf-8")
	ctx.Response.SetStatusCode(xhttp.StatusOK)
	ctx.Response.SetBodyString(challenge)
}

// ReceiveWebhook handles one delivery. Authentication runs before any
// parsing of message content; non-message deliveries are acknowledged and
// ignored. Processing is synchronous, the provider's retry deadline is
// covered by the server's request timeout.
func (h *WebhookHandler) ReceiveWebhook(ctx *xhttp.RequestCtx) {
	body := ctx.PostBody()

	signature := string(ctx.Request.Header.Peek(signatureHeader))
	if signature == "" && h.requireSignature {
		writeError(ctx, xhttp.StatusUnauthorized, "missing signature")
		return
	}
	if signature != "" && !webhook.ValidSignature(h.appSecret, body, signature) {
		logger.Warn("invalid webhook signature")
		writeError(ctx, xhttp.StatusUnauthorized, "invalid signature")
		return
	}

	prom.IncEventsReceived()

	ev, err := webhook.ParseEvent(body)
	if err != nil {
		// The provider sends plenty of non-message traffic; malformed
		// payloads are acknowledged, not retried.
		logger.Warn("unparseable webhook payload", "error", err)
		writeJSON(ctx, xhttp.StatusOK, map[string]string{"status": "ignored"})
		return
	}
	if ev == nil {
		writeJSON(ctx, xhttp.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	start := time.Now()
	envelope, err := h.conversations.Handle(ctx, ev)
	prom.AddEventProcessingDuration(time.Since(start).Seconds())

	if err != nil {
		logger.Error("failed to process event",
			"from", ev.From,
			"message_id", ev.MessageID,
			"error", err,
		)
		// A vanished session means the event is dropped outright; anything
		// else gets a best-effort apology.
		if !errors.Is(err, services.ErrSessionVanished) {
			h.sendErrorReply(ev.From)
		}
		writeJSON(ctx, xhttp.StatusOK, map[string]string{"status": "error"})
		return
	}
	if envelope == nil {
		writeJSON(ctx, xhttp.StatusOK, map[string]string{"status": "received"})
		return
	}

	// Read receipts are cosmetic, hand them to the pool instead of
	// spending webhook latency on them.
	if ev.MessageID != "" {
		h.receipts.Enqueue(ev.MessageID)
	}

	if envelope.TransferToHuman {
		logger.Info("conversation handed off to human agent", "from", ev.From)
	}

	if err := h.dispatcher.SendText(ctx, ev.From, envelope.Text); err != nil {
		prom.IncDispatchFailures()
		logger.Error("failed to dispatch reply", "to", ev.From, "error", err)
		h.sendErrorReply(ev.From)
	}

	writeJSON(ctx, xhttp.StatusOK, map[string]string{"status": "received"})
}

// sendErrorReply makes one best-effort attempt; a failure here is only
// logged. Session state already advanced and stays advanced.
func (h *WebhookHandler) sendErrorReply(to string) {
	sendCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := h.dispatcher.SendText(sendCtx, to, genericErrorReply); err != nil {
		logger.Error("failed to send error reply", "to", to, "error", err)
	}
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}
