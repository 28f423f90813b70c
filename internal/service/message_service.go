package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/models"
	appErrors "github.com/noah-isme/elite-academy-api/pkg/errors"
)

type messageRepository interface {
	List(ctx context.Context, p *models.Principal, filter models.MessageFilter) ([]models.MessageDetail, int, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.MessageDetail, error)
	Create(ctx context.Context, msg *models.Message) error
	Update(ctx context.Context, msg *models.Message) error
	Delete(ctx context.Context, id string) error
}

// MessageService delivers direct messages between users.
type MessageService struct {
	repo      messageRepository
	validator *validator.Validate
	logger    *zap.Logger
	text      textSanitizer
}

// NewMessageService constructs the service.
func NewMessageService(repo messageRepository, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{repo: repo, validator: defaultValidator(validate), logger: logger, text: newTextSanitizer()}
}

// List returns messages sent or received by the caller.
func (s *MessageService) List(ctx context.Context, p *models.Principal, filter models.MessageFilter) ([]models.MessageDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, p, filter)
	if err != nil {
		return nil, nil, storeError(err, "message", "list messages")
	}
	return items, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a message the caller took part in.
func (s *MessageService) Get(ctx context.Context, p *models.Principal, id string) (*models.MessageDetail, error) {
	msg, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "message", "load message")
	}
	return msg, nil
}

// Create sends a message from the caller.
func (s *MessageService) Create(ctx context.Context, p *models.Principal, req dto.MessageRequest) (*models.MessageDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	if req.ReceiverID == p.UserID {
		return nil, appErrors.Field("receiver", "cannot message yourself")
	}
	content, err := s.text.clean("content", req.Content)
	if err != nil {
		return nil, err
	}
	msg := &models.Message{
		SenderID:   p.UserID,
		ReceiverID: req.ReceiverID,
		Content:    content,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, storeError(err, "message", "send message")
	}
	return s.Get(ctx, p, msg.ID)
}

// Update edits the content (sender only) or the read flag (receiver only).
func (s *MessageService) Update(ctx context.Context, p *models.Principal, id string, req dto.UpdateMessageRequest) (*models.MessageDetail, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return nil, storeError(err, "message", "load message")
	}
	msg := current.Message
	if req.Content != nil {
		if msg.SenderID != p.UserID {
			return nil, forbidden("only the sender may edit a message")
		}
		if msg.Content, err = s.text.clean("content", *req.Content); err != nil {
			return nil, err
		}
	}
	if req.Read != nil {
		if msg.ReceiverID != p.UserID {
			return nil, forbidden("only the receiver may mark a message as read")
		}
		msg.Read = *req.Read
	}
	if err := s.repo.Update(ctx, &msg); err != nil {
		return nil, storeError(err, "message", "update message")
	}
	return s.Get(ctx, p, id)
}

// Delete removes a message. Senders and admins may delete.
func (s *MessageService) Delete(ctx context.Context, p *models.Principal, id string) error {
	current, err := s.repo.Get(ctx, p, id)
	if err != nil {
		return storeError(err, "message", "load message")
	}
	if !p.Unrestricted() && current.SenderID != p.UserID {
		return forbidden("only the sender may delete a message")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "message", "delete message")
	}
	return nil
}
