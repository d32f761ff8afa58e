package model

// EventType is the payload kind of an inbound webhook message.
type EventType string

const (
	EventTypeText        EventType = "text"
	EventTypeInteractive EventType = "interactive"
	EventTypeImage       EventType = "image"
	EventTypeAudio       EventType = "audio"
)

// MessageEvent is the canonical, provider-agnostic form of one inbound
// message. Produced once per accepted webhook delivery and consumed exactly
// once by the conversation service.
type MessageEvent struct {
	From        string    `json:"from"`
	MessageID   string    `json:"message_id,omitempty"`
	Timestamp   string    `json:"timestamp,omitempty"`
	Type        EventType `json:"type"`
	Text        string    `json:"text,omitempty"`
	ButtonID    string    `json:"button_id,omitempty"`
	ButtonText  string    `json:"button_text,omitempty"`
	ListID      string    `json:"list_id,omitempty"`
	ListText    string    `json:"list_text,omitempty"`
	ImageID     string    `json:"image_id,omitempty"`
	AudioID     string    `json:"audio_id,omitempty"`
	ProfileName string    `json:"profile_name,omitempty"`
}

// SelectionID returns the interactive reply id, button or list, when the
// event carries one.
func (e *MessageEvent) SelectionID() string {
	if e.ButtonID != "" {
		return e.ButtonID
	}
	return e.ListID
}

// Intent is what the customer wants, derived from free text by keyword
// matching. The set is closed; IntentUnknown is the fallback, not an error.
type Intent string

const (
	IntentGreeting    Intent = "greeting"
	IntentProducts    Intent = "products"
	IntentOrderStatus Intent = "order_status"
	IntentFAQ         Intent = "faq"
	IntentHuman       Intent = "human"
	IntentMenu        Intent = "menu"
	IntentUnknown     Intent = "unknown"
)

// ResponseEnvelope is the dialogue machine's output for one event.
type ResponseEnvelope struct {
	Text            string            `json:"text"`
	TransferToHuman bool              `json:"transfer_to_human"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}
