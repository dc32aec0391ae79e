package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/zenvy/zenvy-sales-bot/internal/funnel"
	"github.com/zenvy/zenvy-sales-bot/pkg/logging"
)

// messageHandler is the funnel surface the webhook drives.
type messageHandler interface {
	Handle(ctx context.Context, msg funnel.Message) error
}

// WhatsAppWebhookHandler handles the Graph API webhook: the GET verification
// handshake and inbound message POSTs.
type WhatsAppWebhookHandler struct {
	verifyToken string
	funnel      messageHandler
	logger      *logging.Logger
}

// NewWhatsAppWebhookHandler builds the webhook handler.
func NewWhatsAppWebhookHandler(verifyToken string, handler messageHandler, logger *logging.Logger) *WhatsAppWebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WhatsAppWebhookHandler{
		verifyToken: verifyToken,
		funnel:      handler,
		logger:      logger,
	}
}

// HandleVerify answers Meta's webhook verification challenge.
func (h *WhatsAppWebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("hub.verify_token") != h.verifyToken {
		h.logger.Warn("webhook verification rejected", "remote_ip", r.RemoteAddr)
		http.Error(w, "Invalid", http.StatusForbidden)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(r.URL.Query().Get("hub.challenge")))
}

// whatsappEnvelope mirrors the slice of the Graph API webhook payload the
// funnel cares about. Everything else is ignored.
type whatsappEnvelope struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// HandleInbound processes inbound message webhooks. The platform redelivers
// on non-2xx responses, so processing failures are logged and acked: the
// user's next message re-evaluates from the last committed stage.
func (h *WhatsAppWebhookHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	var envelope whatsappEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		h.logger.Warn("webhook payload not parseable", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, msg := range extractMessages(envelope) {
		if err := h.funnel.Handle(r.Context(), msg); err != nil {
			h.logger.Error("webhook message handling failed", "error", err, "phone", msg.From)
		}
	}
	w.WriteHeader(http.StatusOK)
}

// extractMessages normalizes the envelope into funnel messages, dropping
// entries without a sender.
func extractMessages(envelope whatsappEnvelope) []funnel.Message {
	var out []funnel.Message
	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.From == "" {
					continue
				}
				kind := funnel.KindOther
				switch msg.Type {
				case "text":
					kind = funnel.KindText
				case "image":
					kind = funnel.KindImage
				}
				out = append(out, funnel.Message{
					From: msg.From,
					Kind: kind,
					Body: msg.Text.Body,
				})
			}
		}
	}
	return out
}
