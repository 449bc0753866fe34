package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessageLength — предел длины текста одного сообщения.
const MaxMessageLength = 1000

// Conversation — диалог между двумя пользователями. На пару участников
// существует не больше одного диалога.
type Conversation struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Participant1ID uuid.UUID  `db:"participant_1_id" json:"participant_1_id"`
	Participant2ID uuid.UUID  `db:"participant_2_id" json:"participant_2_id"`
	LastMessageAt  *time.Time `db:"last_message_at" json:"last_message_at,omitempty"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// OtherParticipant возвращает собеседника для указанного пользователя.
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if c.Participant1ID == userID {
		return c.Participant2ID
	}
	return c.Participant1ID
}

// HasParticipant сообщает, состоит ли пользователь в диалоге.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.Participant1ID == userID || c.Participant2ID == userID
}

// Message — сообщение в диалоге.
type Message struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	SenderID       uuid.UUID `db:"sender_id" json:"sender_id"`
	Text           string    `db:"text" json:"text"`
	IsRead         bool      `db:"is_read" json:"is_read"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
