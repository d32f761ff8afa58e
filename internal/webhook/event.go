package webhook

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/zapstore/chat-gateway/internal/model"
)

// Cloud API webhook payloads nest the interesting bits several levels deep:
// entry[0].changes[0].value.messages[0]. Everything is optional, deliveries
// without messages (status updates, read receipts) are routine.

type payload struct {
	Entry []entry `json:"entry"`
}

type entry struct {
	Changes []change `json:"changes"`
}

type change struct {
	Value value `json:"value"`
}

type value struct {
	Messages []message `json:"messages"`
	Contacts []contact `json:"contacts"`
}

type message struct {
	From        string       `json:"from"`
	ID          string       `json:"id"`
	Timestamp   string       `json:"timestamp"`
	Type        string       `json:"type"`
	Text        *textBody    `json:"text"`
	Interactive *interactive `json:"interactive"`
	Image       *media       `json:"image"`
	Audio       *media       `json:"audio"`
}

type textBody struct {
	Body string `json:"body"`
}

type interactive struct {
	Type        string `json:"type"`
	ButtonReply *reply `json:"button_reply"`
	ListReply   *reply `json:"list_reply"`
}

type reply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type media struct {
	ID string `json:"id"`
}

type contact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

// ParseEvent normalizes one webhook delivery into a MessageEvent. A nil
// event with a nil error means the delivery carried no inbound message
// and should be acknowledged without further work.
func ParseEvent(body []byte) (*model.MessageEvent, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, errors.Wrap(err, "webhook: decoding payload")
	}

	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return nil, nil
	}
	v := p.Entry[0].Changes[0].Value
	if len(v.Messages) == 0 {
		return nil, nil
	}
	msg := v.Messages[0]

	ev := &model.MessageEvent{
		From:      msg.From,
		MessageID: msg.ID,
		Timestamp: msg.Timestamp,
		Type:      model.EventType(msg.Type),
	}
	if len(v.Contacts) > 0 {
		ev.ProfileName = v.Contacts[0].Profile.Name
	}

	switch ev.Type {
	case model.EventTypeText:
		if msg.Text != nil {
			ev.Text = msg.Text.Body
		}
	case model.EventTypeInteractive:
		if msg.Interactive == nil {
			break
		}
		switch msg.Interactive.Type {
		case "button_reply":
			if r := msg.Interactive.ButtonReply; r != nil {
				ev.ButtonID = r.ID
				ev.ButtonText = r.Title
			}
		case "list_reply":
			if r := msg.Interactive.ListReply; r != nil {
				ev.ListID = r.ID
				ev.ListText = r.Title
			}
		}
	case model.EventTypeImage:
		if msg.Image != nil {
			ev.ImageID = msg.Image.ID
		}
	case model.EventTypeAudio:
		if msg.Audio != nil {
			ev.AudioID = msg.Audio.ID
		}
	}

	return ev, nil
}
