package notifications

import (
	"encoding/json"
	"fmt"

	"masterhub_backend/internal/models"
)

// Payload - закрытое объединение: у каждого типа уведомления свой набор обязательных полей
type Payload interface {
	Type() models.NotificationType
	sealed()
}

type ProposalAccepted struct {
	JobID          string `json:"job_id"`
	ProposalID     string `json:"proposal_id"`
	ConversationID string `json:"conversation_id"`
}

type JobCompleted struct {
	JobID      string `json:"job_id"`
	ProposalID string `json:"proposal_id"`
}

type ReviewReceived struct {
	JobID    string `json:"job_id"`
	ReviewID string `json:"review_id"`
	Rating   int    `json:"rating"`
}

type NewProposal struct {
	JobID      string `json:"job_id"`
	ProposalID string `json:"proposal_id"`
}

type NewMessage struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	JobID          string `json:"job_id"`
}

func (ProposalAccepted) Type() models.NotificationType { return models.NotificationProposalAccepted }
func (JobCompleted) Type() models.NotificationType     { return models.NotificationJobCompleted }
func (ReviewReceived) Type() models.NotificationType   { return models.NotificationReviewReceived }
func (NewProposal) Type() models.NotificationType      { return models.NotificationNewProposal }
func (NewMessage) Type() models.NotificationType       { return models.NotificationNewMessage }

func (ProposalAccepted) sealed() {}
func (JobCompleted) sealed()     {}
func (ReviewReceived) sealed()   {}
func (NewProposal) sealed()      {}
func (NewMessage) sealed()       {}

// Decode восстанавливает вариант по типу уведомления
func Decode(typ models.NotificationType, data []byte) (Payload, error) {
	var p Payload
	switch typ {
	case models.NotificationProposalAccepted:
		var v ProposalAccepted
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		p = v
	case models.NotificationJobCompleted:
		var v JobCompleted
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		p = v
	case models.NotificationReviewReceived:
		var v ReviewReceived
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		p = v
	case models.NotificationNewProposal:
		var v NewProposal
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		p = v
	case models.NotificationNewMessage:
		var v NewMessage
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		p = v
	default:
		return nil, fmt.Errorf("unknown notification type: %s", typ)
	}
	return p, nil
}
