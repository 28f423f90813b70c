package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/elite-academy-api/internal/models"
)

const messageFrom = ` FROM messages m
JOIN users us ON us.id = m.sender_id
JOIN users ur ON ur.id = m.receiver_id`

const messageSelect = `SELECT m.id, m.sender_id, m.receiver_id, m.content, m.read, m.created_at, m.updated_at,
us.id AS "sender.id", us.username AS "sender.username", us.full_name AS "sender.full_name", us.role AS "sender.role",
ur.id AS "receiver.id", ur.username AS "receiver.username", ur.full_name AS "receiver.full_name", ur.role AS "receiver.role"` + messageFrom

// Message boxes accepted by MessageFilter.Box.
const (
	MessageBoxInbox = "inbox"
	MessageBoxSent  = "sent"
)

// MessageRepository persists direct messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository instantiates the repository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// List returns messages the caller sent or received.
func (r *MessageRepository) List(ctx context.Context, p *models.Principal, filter models.MessageFilter) ([]models.MessageDetail, int, error) {
	var f filterSet
	f.visible(models.ResourceMessages, p, "m")
	if p != nil {
		switch filter.Box {
		case MessageBoxInbox:
			f.add("m.receiver_id = $%d", p.UserID)
		case MessageBoxSent:
			f.add("m.sender_id = $%d", p.UserID)
		}
	}
	if filter.Read != nil {
		f.add("m.read = $%d", *filter.Read)
	}
	f.search(filter.Search, "m.content", "us.full_name", "ur.full_name")

	order := orderBy(filter.ListQuery, map[string]string{"created_at": "m.created_at"}, "m.created_at")
	limit, offset := pageWindow(filter.Page, filter.PageSize)

	var items []models.MessageDetail
	query := fmt.Sprintf("%s%s %s LIMIT %d OFFSET %d", messageSelect, f.where(), order, limit, offset)
	if err := r.db.SelectContext(ctx, &items, query, f.args...); err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+messageFrom+f.where(), f.args...); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}
	return items, total, nil
}

// Get returns a message visible to the caller.
func (r *MessageRepository) Get(ctx context.Context, p *models.Principal, id string) (*models.MessageDetail, error) {
	var f filterSet
	f.add("m.id = $%d", id)
	f.visible(models.ResourceMessages, p, "m")

	var item models.MessageDetail
	if err := r.db.GetContext(ctx, &item, messageSelect+f.where(), f.args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return &item, nil
}

// Create inserts a message.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	const query = `INSERT INTO messages (id, sender_id, receiver_id, content, read, created_at, updated_at) VALUES (:id, :sender_id, :receiver_id, :content, :read, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// Update modifies a message.
func (r *MessageRepository) Update(ctx context.Context, msg *models.Message) error {
	msg.UpdatedAt = time.Now().UTC()
	const query = `UPDATE messages SET content = :content, read = :read, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	return nil
}

// Delete removes a message.
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
