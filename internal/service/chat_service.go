package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/swim360/swim360-backend/internal/logger"
	"github.com/swim360/swim360-backend/internal/models"
	"github.com/swim360/swim360-backend/internal/pkg/apperror"
	"github.com/swim360/swim360-backend/internal/repository"
	"github.com/swim360/swim360-backend/internal/validation"
)

// ChatStore описывает зависимости ChatService от хранилища диалогов.
type ChatStore interface {
	GetOrCreateConversation(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error
}

// UserFinder проверяет существование получателя.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// MessagePusher доставляет новое сообщение получателю, если тот онлайн.
type MessagePusher interface {
	PushMessage(recipientID uuid.UUID, message *models.Message)
}

// ChatService — бизнес-логика личных сообщений.
type ChatService struct {
	chats  ChatStore
	users  UserFinder
	pusher MessagePusher
}

// NewChatService создаёт сервис чата. pusher может быть nil: тогда сообщения
// доставляются только по запросу истории.
func NewChatService(chats ChatStore, users UserFinder, pusher MessagePusher) *ChatService {
	return &ChatService{chats: chats, users: users, pusher: pusher}
}

// SendMessage отправляет сообщение, создавая диалог пары при первом обращении.
func (s *ChatService) SendMessage(ctx context.Context, senderID, recipientID uuid.UUID, text string) (*models.Message, error) {
	if err := validation.ValidateMessageText(text); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if senderID == recipientID {
		return nil, apperror.New(apperror.ErrCodeValidation, "cannot send a message to yourself")
	}

	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("chat service: %w", err)
	}

	conv, err := s.chats.GetOrCreateConversation(ctx, senderID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("chat service: %w", err)
	}

	message := &models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Text:           text,
	}

	if err := s.chats.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("chat service: %w", err)
	}

	if s.pusher != nil {
		s.pusher.PushMessage(recipientID, message)
	}

	return message, nil
}

// ListConversations возвращает диалоги пользователя.
func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	convs, err := s.chats.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("chat service: %w", err)
	}
	return convs, nil
}

// ListMessages возвращает сообщения диалога и помечает входящие прочитанными.
// Доступ только участникам диалога.
func (s *ChatService) ListMessages(ctx context.Context, conversationID, userID uuid.UUID, limit, offset int) ([]models.Message, error) {
	conv, err := s.chats.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, apperror.ErrConversationNotFound
		}
		return nil, fmt.Errorf("chat service: %w", err)
	}
	if !conv.HasParticipant(userID) {
		return nil, apperror.ErrForbidden
	}

	messages, err := s.chats.ListMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("chat service: %w", err)
	}

	if err := s.chats.MarkMessagesRead(ctx, conversationID, userID); err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"conversation_id": conversationID,
			"error":           err.Error(),
		}).Warn("chat service: не удалось пометить сообщения прочитанными")
	}

	return messages, nil
}
