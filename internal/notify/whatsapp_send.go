package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zenvy/zenvy-sales-bot/pkg/logging"
)

var whatsappSendTracer = otel.Tracer("zenvy.internal.notify.whatsapp_send")

// WhatsAppSender posts text messages via the WhatsApp Cloud API.
type WhatsAppSender struct {
	token         string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
	logger        *logging.Logger
}

var _ Notifier = (*WhatsAppSender)(nil)

// NewWhatsAppSender builds a sender for the Graph API messages endpoint.
func NewWhatsAppSender(token, phoneNumberID, apiVersion string, logger *logging.Logger) *WhatsAppSender {
	if logger == nil {
		logger = logging.Default()
	}
	if apiVersion == "" {
		apiVersion = "v22.0"
	}
	return &WhatsAppSender{
		token:         token,
		phoneNumberID: phoneNumberID,
		baseURL:       fmt.Sprintf("https://graph.facebook.com/%s", apiVersion),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// WithBaseURL overrides the Graph API host, used in tests.
func (s *WhatsAppSender) WithBaseURL(baseURL string) *WhatsAppSender {
	s.baseURL = strings.TrimSuffix(baseURL, "/")
	return s
}

// Send dispatches a single text message, retrying transient failures.
func (s *WhatsAppSender) Send(ctx context.Context, to, body string) error {
	if s.token == "" {
		return errors.New("notify: whatsapp token missing")
	}
	if to == "" {
		return errors.New("notify: to required")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("notify: body required")
	}

	ctx, span := whatsappSendTracer.Start(ctx, "notify.whatsapp.send")
	defer span.End()
	span.SetAttributes(attribute.String("zenvy.to", to))

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": body},
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("notify: failed to marshal whatsapp payload: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
		if err != nil {
			lastErr = err
			break
		}
		req.Header.Set("Authorization", "Bearer "+s.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				s.logger.Info("whatsapp message sent", "to", to)
				return nil
			}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				// Client errors do not recover on retry.
				err := fmt.Errorf("notify: whatsapp send failed: status %d, body: %s", resp.StatusCode, respBody)
				span.RecordError(err)
				s.logger.Error("whatsapp send rejected", "error", err, "to", to)
				return err
			}
			lastErr = fmt.Errorf("notify: whatsapp send failed: status %d", resp.StatusCode)
		}

		if attempt < 3 {
			sleep := time.Duration(200+rand.Intn(300)) * time.Millisecond
			time.Sleep(sleep)
		}
	}

	if lastErr != nil {
		span.RecordError(lastErr)
		s.logger.Error("failed to send whatsapp message", "error", lastErr, "to", to)
	}
	return lastErr
}
