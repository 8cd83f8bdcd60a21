package json

import (
	"fmt"
	"time"

	"github.com/strandkit/strand"
)

// messageDTO is the v1 wire format for one message.
type messageDTO struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Outcome   string    `json:"outcome,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func marshalMessage(msg strand.Message) (messageDTO, error) {
	switch m := msg.(type) {
	case strand.UserMessage:
		return messageDTO{
			Role:      string(strand.RoleUser),
			Text:      m.Text,
			Timestamp: m.Timestamp,
		}, nil
	case strand.AssistantMessage:
		return messageDTO{
			Role:      string(strand.RoleAssistant),
			Text:      m.Text,
			Outcome:   string(m.Outcome),
			Detail:    m.Detail,
			Timestamp: m.Timestamp,
		}, nil
	default:
		return messageDTO{}, fmt.Errorf("unknown message type %T", msg)
	}
}

func unmarshalMessage(dto messageDTO) (strand.Message, error) {
	switch strand.Role(dto.Role) {
	case strand.RoleUser:
		return strand.UserMessage{
			Text:      dto.Text,
			Timestamp: dto.Timestamp,
		}, nil
	case strand.RoleAssistant:
		return strand.AssistantMessage{
			Text:      dto.Text,
			Outcome:   strand.Outcome(dto.Outcome),
			Detail:    dto.Detail,
			Timestamp: dto.Timestamp,
		}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", dto.Role)
	}
}
