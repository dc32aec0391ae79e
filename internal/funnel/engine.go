package funnel

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/zenvy/zenvy-sales-bot/internal/assistant"
	"github.com/zenvy/zenvy-sales-bot/internal/ledger"
	"github.com/zenvy/zenvy-sales-bot/internal/observability/metrics"
	"github.com/zenvy/zenvy-sales-bot/internal/pricing"
	"github.com/zenvy/zenvy-sales-bot/internal/session"
	"github.com/zenvy/zenvy-sales-bot/pkg/logging"
)

// AdminNotifier delivers operational alerts to the business owner.
type AdminNotifier interface {
	Notify(ctx context.Context, body string) error
}

// Config carries the collaborators the engine drives.
type Config struct {
	Sessions  session.Store
	Ledger    ledger.Ledger
	Replies   Notifier
	Admin     AdminNotifier
	Assistant assistant.Responder
	Metrics   *metrics.FunnelMetrics
	Logger    *logging.Logger

	// UPIID is the payment handle quoted in UPI instructions.
	UPIID string
}

// Notifier delivers one outbound text message to a recipient phone.
type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

// Engine walks users through the fixed sales script, one inbound message at a
// time. All reads and writes of a phone's session happen under that phone's
// lock, so concurrent deliveries for the same user serialize instead of
// racing the read-modify-write cycle.
type Engine struct {
	sessions  session.Store
	ledger    ledger.Ledger
	replies   Notifier
	admin     AdminNotifier
	assistant assistant.Responder
	metrics   *metrics.FunnelMetrics
	logger    *logging.Logger
	upiID     string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine builds the conversation engine.
func NewEngine(cfg Config) *Engine {
	if cfg.Sessions == nil {
		panic("funnel: session store required")
	}
	if cfg.Ledger == nil {
		panic("funnel: ledger required")
	}
	if cfg.Replies == nil {
		panic("funnel: reply notifier required")
	}
	if cfg.Assistant == nil {
		cfg.Assistant = assistant.Static{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.UPIID == "" {
		cfg.UPIID = "zenvy@upi"
	}
	return &Engine{
		sessions:  cfg.Sessions,
		ledger:    cfg.Ledger,
		replies:   cfg.Replies,
		admin:     cfg.Admin,
		assistant: cfg.Assistant,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		upiID:     cfg.UPIID,
		locks:     make(map[string]*sync.Mutex),
	}
}

// phoneLock returns the mutex serializing work for one phone. Locks are tiny
// and the active phone set is small, so entries are never evicted.
func (e *Engine) phoneLock(phone string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[phone]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[phone] = lock
	}
	return lock
}

// Handle processes one inbound message: it advances the sender's session,
// persists the new state, and sends the scripted reply. A failed store write
// aborts before any reply is sent, leaving the previous session state intact
// so the user can simply resend.
func (e *Engine) Handle(ctx context.Context, msg Message) error {
	if msg.From == "" {
		e.logger.Debug("funnel: dropping message without sender")
		e.metrics.ObserveInbound("none", "dropped")
		return nil
	}

	if msg.Kind != KindText {
		return e.handleMedia(ctx, msg)
	}

	text := strings.ToLower(strings.TrimSpace(msg.Body))
	if text == "" {
		e.logger.Debug("funnel: dropping message without body", "phone", msg.From)
		e.metrics.ObserveInbound("none", "dropped")
		return nil
	}

	lock := e.phoneLock(msg.From)
	lock.Lock()
	defer lock.Unlock()

	current, err := e.sessions.Get(ctx, msg.From)
	if err != nil {
		return fmt.Errorf("funnel: load session: %w", err)
	}

	stage := session.Stage("")
	if current != nil {
		stage = current.Stage
	}
	e.logger.Info("funnel: inbound message", "phone", msg.From, "stage", string(stage))

	switch {
	case text == "hi" || text == "hello":
		return e.restart(ctx, msg.From)
	case text == "website":
		return e.askType(ctx, msg.From)
	case current != nil && stage == session.StageType:
		return e.captureType(ctx, current, text)
	case current != nil && stage == session.StagePages:
		return e.capturePages(ctx, current, text)
	case current != nil && stage == session.StageBudget:
		return e.captureBudget(ctx, current, text)
	case current != nil && stage == session.StagePayment:
		return e.handlePayment(ctx, current, text)
	default:
		return e.delegate(ctx, msg.From, text)
	}
}

// handleMedia acknowledges non-text messages and alerts the admin. The
// session is never touched.
func (e *Engine) handleMedia(ctx context.Context, msg Message) error {
	e.notifyAdmin(ctx, adminMediaReceived(msg.From))
	e.metrics.ObserveInbound("none", "media")
	return e.reply(ctx, msg.From, replyMediaAck)
}

func (e *Engine) restart(ctx context.Context, phone string) error {
	sess := session.New(phone, time.Now())
	if err := e.sessions.Upsert(ctx, sess); err != nil {
		return fmt.Errorf("funnel: reset session: %w", err)
	}
	e.metrics.ObserveInbound(string(session.StageStart), "reply")
	return e.reply(ctx, phone, replyWelcome)
}

func (e *Engine) askType(ctx context.Context, phone string) error {
	// A fresh session: "website" discards any previously collected answers.
	sess := session.New(phone, time.Now())
	sess.Stage = session.StageType
	if err := e.sessions.Upsert(ctx, sess); err != nil {
		return fmt.Errorf("funnel: enter type stage: %w", err)
	}
	e.metrics.ObserveInbound(string(session.StageType), "reply")
	return e.reply(ctx, phone, replyTypes)
}

func (e *Engine) captureType(ctx context.Context, sess *session.Session, text string) error {
	sess.WebsiteType = text
	sess.Stage = session.StagePages
	sess.Touch(time.Now())
	if err := e.sessions.Upsert(ctx, sess); err != nil {
		return fmt.Errorf("funnel: store website type: %w", err)
	}
	e.metrics.ObserveInbound(string(session.StagePages), "reply")
	return e.reply(ctx, sess.Phone, replyPages)
}

func (e *Engine) capturePages(ctx context.Context, sess *session.Session, text string) error {
	sess.Pages = text
	sess.Stage = session.StageBudget
	sess.Touch(time.Now())
	if err := e.sessions.Upsert(ctx, sess); err != nil {
		return fmt.Errorf("funnel: store pages: %w", err)
	}
	e.metrics.ObserveInbound(string(session.StageBudget), "reply")
	return e.reply(ctx, sess.Phone, replyBudget)
}

func (e *Engine) captureBudget(ctx context.Context, sess *session.Session, text string) error {
	sess.Budget = text
	sess.Price = pricing.Quote(sess.WebsiteType, sess.Pages)
	sess.Stage = session.StagePayment
	sess.Touch(time.Now())
	if err := e.sessions.Upsert(ctx, sess); err != nil {
		return fmt.Errorf("funnel: store budget: %w", err)
	}

	e.notifyAdmin(ctx, adminNewLead(sess.Phone, sess.WebsiteType, sess.Pages, sess.Budget, sess.Price))
	e.metrics.ObserveInbound(string(session.StagePayment), "reply")
	return e.reply(ctx, sess.Phone, replyQuotation(sess.WebsiteType, sess.Pages, sess.Price))
}

func (e *Engine) handlePayment(ctx context.Context, sess *session.Session, text string) error {
	switch {
	case strings.Contains(text, "1") || strings.Contains(text, "upi"):
		e.metrics.ObserveInbound(string(session.StagePayment), "reply")
		return e.reply(ctx, sess.Phone, replyUPI(e.upiID))
	case strings.Contains(text, "2"):
		e.notifyAdmin(ctx, adminCallRequest(sess.Phone))
		e.metrics.ObserveInbound(string(session.StagePayment), "reply")
		return e.reply(ctx, sess.Phone, replyExecutive)
	case strings.Contains(text, "paid"):
		return e.recordPayment(ctx, sess)
	default:
		e.metrics.ObserveInbound(string(session.StagePayment), "reply")
		return e.reply(ctx, sess.Phone, replyChoose)
	}
}

// recordPayment appends the lead and clears the session. Clearing the session
// is what makes a duplicate "paid" harmless: the second message finds no
// session and falls through to the assistant instead of a second ledger row.
func (e *Engine) recordPayment(ctx context.Context, sess *session.Session) error {
	lead := &ledger.Lead{
		InvoiceID:   ledger.NewInvoiceID(),
		Phone:       sess.Phone,
		WebsiteType: sess.WebsiteType,
		Pages:       sess.Pages,
		Budget:      sess.Budget,
		Price:       sess.Price,
		Status:      ledger.StatusPaidPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := e.ledger.Append(ctx, lead); err != nil {
		return fmt.Errorf("funnel: record lead: %w", err)
	}

	if err := e.sessions.Delete(ctx, sess.Phone); err != nil {
		return fmt.Errorf("funnel: clear session: %w", err)
	}

	e.notifyAdmin(ctx, adminPaymentReceived(sess.Phone, sess.Price, lead.InvoiceID))
	e.metrics.ObserveInbound(string(session.StagePayment), "paid")
	e.metrics.ObserveLeadRecorded()
	e.logger.Info("funnel: lead recorded", "phone", sess.Phone, "invoice_id", lead.InvoiceID, "price", sess.Price)
	return e.reply(ctx, sess.Phone, replyPaid)
}

// delegate hands free-form text to the assistant. No session mutation.
func (e *Engine) delegate(ctx context.Context, phone, text string) error {
	e.metrics.ObserveInbound("none", "fallback")
	return e.reply(ctx, phone, e.assistant.Reply(ctx, text))
}

func (e *Engine) reply(ctx context.Context, to, body string) error {
	if err := e.replies.Send(ctx, to, body); err != nil {
		// The user gets silence and will retry; state is already committed.
		e.logger.Error("funnel: reply failed", "error", err, "phone", to)
		return fmt.Errorf("funnel: send reply: %w", err)
	}
	return nil
}

func (e *Engine) notifyAdmin(ctx context.Context, body string) {
	if e.admin == nil {
		return
	}
	if err := e.admin.Notify(ctx, body); err != nil {
		e.logger.Error("funnel: admin notification failed", "error", err)
	}
}
