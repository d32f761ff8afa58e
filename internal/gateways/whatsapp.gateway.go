package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/zapstore/chat-gateway/pkg/logger"
)

const (
	maxButtons     = 3
	maxButtonTitle = 20
)

type Config struct {
	APIURL        string
	Token         string
	PhoneNumberID string
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
	MaxConns      int
}

// Button is one reply button. The provider accepts at most three per
// message and truncates titles beyond twenty characters; the client
// enforces both before sending.
type Button struct {
	ID    string
	Title string
}

type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type ListSection struct {
	Title string    `json:"title"`
	Rows  []ListRow `json:"rows"`
}

// WhatsAppClient talks to the Cloud API messages endpoint. The access
// token is held privately and never appears in logs or error strings.
type WhatsAppClient struct {
	config *Config
	client *fasthttp.Client
}

func NewWhatsAppClient(config *Config) *WhatsAppClient {
	return &WhatsAppClient{
		config: config,
		client: &fasthttp.Client{
			MaxConnsPerHost:     config.MaxConns,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
	}
}

func (c *WhatsAppClient) SendText(ctx context.Context, to, text string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": text},
	}
	return c.send(ctx, payload)
}

func (c *WhatsAppClient) SendReplyButtons(ctx context.Context, to, bodyText string, buttons []Button) error {
	if len(buttons) > maxButtons {
		buttons = buttons[:maxButtons]
	}
	formatted := make([]map[string]interface{}, 0, len(buttons))
	for _, b := range buttons {
		title := b.Title
		if len([]rune(title)) > maxButtonTitle {
			title = string([]rune(title)[:maxButtonTitle])
		}
		formatted = append(formatted, map[string]interface{}{
			"type":  "reply",
			"reply": map[string]string{"id": b.ID, "title": title},
		})
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]interface{}{
			"type":   "button",
			"body":   map[string]string{"text": bodyText},
			"action": map[string]interface{}{"buttons": formatted},
		},
	}
	return c.send(ctx, payload)
}

func (c *WhatsAppClient) SendList(ctx context.Context, to, header, bodyText, buttonText string, sections []ListSection) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]interface{}{
			"type":   "list",
			"header": map[string]string{"type": "text", "text": header},
			"body":   map[string]string{"text": bodyText},
			"action": map[string]interface{}{
				"button":   buttonText,
				"sections": sections,
			},
		},
	}
	return c.send(ctx, payload)
}

// MarkAsRead shows the read ticks for an inbound message.
func (c *WhatsAppClient) MarkAsRead(ctx context.Context, messageID string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	}
	return c.send(ctx, payload)
}

func (c *WhatsAppClient) send(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		if err := c.doRequest(ctx, body); err != nil {
			logger.Warn("send failed, retrying", "error", err, "attempt", attempt+1)
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

func (c *WhatsAppClient) doRequest(ctx context.Context, body []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	url := fmt.Sprintf("%s/%s/messages", c.config.APIURL, c.config.PhoneNumberID)
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusCreated {
		return fmt.Errorf("unexpected status code: %d, body: %s", statusCode, resp.Body())
	}
	return nil
}
