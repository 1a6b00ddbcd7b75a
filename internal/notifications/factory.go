package notifications

import (
	"encoding/json"
	"fmt"
	"strings"

	"masterhub_backend/internal/i18n"
	"masterhub_backend/internal/models"

	"gorm.io/datatypes"
)

// Draft - уведомление до сохранения
type Draft struct {
	Recipient string
	Title     string
	Body      string
	Payload   Payload
}

func (d Draft) Type() models.NotificationType {
	return d.Payload.Type()
}

// Model превращает черновик в запись для хранения
func (d Draft) Model() (*models.Notification, error) {
	if d.Recipient == "" {
		return nil, fmt.Errorf("notification %s has no recipient", d.Type())
	}
	data, err := json.Marshal(d.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", d.Type(), err)
	}
	return &models.Notification{
		UserID: d.Recipient,
		Type:   d.Type(),
		Title:  d.Title,
		Body:   d.Body,
		Data:   datatypes.JSON(data),
	}, nil
}

type template struct {
	title string
	body  string // %s - заголовок заказа
}

var catalog = map[models.NotificationType]map[string]template{
	models.NotificationProposalAccepted: {
		"en": {"Your proposal was accepted", "The client accepted your proposal for \"%s\". A chat is now open."},
		"ru": {"Ваш отклик принят", "Клиент принял ваш отклик на заказ «%s». Чат открыт."},
		"th": {"ข้อเสนอของคุณได้รับการยอมรับ", "ลูกค้ายอมรับข้อเสนอของคุณสำหรับงาน \"%s\" แล้ว เปิดแชทแล้ว"},
	},
	models.NotificationJobCompleted: {
		"en": {"Job completed", "The client marked \"%s\" as done."},
		"ru": {"Заказ завершен", "Клиент отметил заказ «%s» как выполненный."},
		"th": {"งานเสร็จสมบูรณ์", "ลูกค้าทำเครื่องหมายงาน \"%s\" ว่าเสร็จแล้ว"},
	},
	models.NotificationReviewReceived: {
		"en": {"New review", "You received a review for \"%s\"."},
		"ru": {"Новый отзыв", "Вы получили отзыв по заказу «%s»."},
		"th": {"รีวิวใหม่", "คุณได้รับรีวิวสำหรับงาน \"%s\""},
	},
	models.NotificationNewProposal: {
		"en": {"New proposal", "A professional responded to \"%s\"."},
		"ru": {"Новый отклик", "Специалист откликнулся на заказ «%s»."},
		"th": {"ข้อเสนอใหม่", "มีผู้เชี่ยวชาญเสนองาน \"%s\""},
	},
	models.NotificationNewMessage: {
		"en": {"New message", "New message in the chat for \"%s\"."},
		"ru": {"Новое сообщение", "Новое сообщение в чате по заказу «%s»."},
		"th": {"ข้อความใหม่", "มีข้อความใหม่ในแชทของงาน \"%s\""},
	},
}

func render(typ models.NotificationType, locale, jobTitle string) (string, string) {
	byLocale := catalog[typ]
	tpl, ok := byLocale[locale]
	if !ok {
		tpl = byLocale[i18n.DefaultLocale]
	}
	return tpl.title, fmt.Sprintf(tpl.body, strings.TrimSpace(jobTitle))
}

func build(recipient, locale, jobTitle string, p Payload) Draft {
	title, body := render(p.Type(), locale, jobTitle)
	return Draft{Recipient: recipient, Title: title, Body: body, Payload: p}
}

// NewProposalAccepted - специалисту, чей отклик принят
func NewProposalAccepted(recipient, locale, jobTitle string, p ProposalAccepted) Draft {
	return build(recipient, locale, jobTitle, p)
}

// NewJobCompleted - специалисту, когда клиент завершил заказ
func NewJobCompleted(recipient, locale, jobTitle string, p JobCompleted) Draft {
	return build(recipient, locale, jobTitle, p)
}

// NewReviewReceived - специалисту о новом отзыве
func NewReviewReceived(recipient, locale, jobTitle string, p ReviewReceived) Draft {
	return build(recipient, locale, jobTitle, p)
}

// NewProposalSubmitted - клиенту о новом отклике
func NewProposalSubmitted(recipient, locale, jobTitle string, p NewProposal) Draft {
	return build(recipient, locale, jobTitle, p)
}

// NewMessageReceived - собеседнику о новом сообщении
func NewMessageReceived(recipient, locale, jobTitle string, p NewMessage) Draft {
	return build(recipient, locale, jobTitle, p)
}
