package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swim360/swim360-backend/internal/models"
)

// ErrConversationNotFound сигнализирует об отсутствии диалога.
var ErrConversationNotFound = errors.New("conversation not found")

// ChatRepository работает с таблицами conversations и messages.
type ChatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// GetOrCreateConversation возвращает диалог пары пользователей, создавая его
// при первом сообщении. Участники хранятся в каноническом порядке
// (меньший UUID первым), поэтому пара находит один и тот же диалог
// независимо от того, кто пишет первым.
func (r *ChatRepository) GetOrCreateConversation(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error) {
	first, second := userA, userB
	if second.String() < first.String() {
		first, second = second, first
	}

	var conv models.Conversation
	query := `
		INSERT INTO conversations (participant_1_id, participant_2_id, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (participant_1_id, participant_2_id) DO UPDATE SET is_active = TRUE
		RETURNING id, participant_1_id, participant_2_id, last_message_at, is_active, created_at
	`
	if err := r.db.GetContext(ctx, &conv, query, first, second); err != nil {
		return nil, fmt.Errorf("chat repository: get or create conversation %w", err)
	}
	return &conv, nil
}

// GetConversation возвращает диалог по идентификатору.
func (r *ChatRepository) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.GetContext(ctx, &conv, `SELECT * FROM conversations WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("chat repository: get conversation %w", err)
	}
	return &conv, nil
}

// ListConversations возвращает диалоги пользователя, свежие сверху.
func (r *ChatRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var convs []models.Conversation
	query := `
		SELECT * FROM conversations
		WHERE (participant_1_id = $1 OR participant_2_id = $1) AND is_active = TRUE
		ORDER BY last_message_at DESC NULLS LAST
	`
	if err := r.db.SelectContext(ctx, &convs, query, userID); err != nil {
		return nil, fmt.Errorf("chat repository: list conversations %w", err)
	}
	return convs, nil
}

// CreateMessage сохраняет сообщение и обновляет время последнего сообщения диалога.
func (r *ChatRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("chat repository: create message begin %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO messages (conversation_id, sender_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at
	`
	if err := tx.QueryRowxContext(ctx, query,
		message.ConversationID, message.SenderID, message.Text,
	).Scan(&message.ID, &message.IsRead, &message.CreatedAt); err != nil {
		return fmt.Errorf("chat repository: create message %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET last_message_at = $2 WHERE id = $1`,
		message.ConversationID, message.CreatedAt,
	); err != nil {
		return fmt.Errorf("chat repository: touch conversation %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("chat repository: create message commit %w", err)
	}
	return nil
}

// ListMessages возвращает сообщения диалога в хронологическом порядке.
func (r *ChatRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	query := `
		SELECT * FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &messages, query, conversationID, limit, offset); err != nil {
		return nil, fmt.Errorf("chat repository: list messages %w", err)
	}
	return messages, nil
}

// MarkMessagesRead помечает входящие сообщения пользователя прочитанными.
func (r *ChatRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	query := `UPDATE messages SET is_read = TRUE WHERE conversation_id = $1 AND sender_id != $2 AND is_read = FALSE`
	if _, err := r.db.ExecContext(ctx, query, conversationID, readerID); err != nil {
		return fmt.Errorf("chat repository: mark messages read %w", err)
	}
	return nil
}
