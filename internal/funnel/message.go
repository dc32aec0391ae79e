package funnel

// MessageKind distinguishes text messages from media and anything else the
// chat platform can deliver.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
	KindOther MessageKind = "other"
)

// Message is one normalized inbound chat message, as produced by the webhook
// ingestion layer.
type Message struct {
	From string
	Kind MessageKind
	Body string
}
