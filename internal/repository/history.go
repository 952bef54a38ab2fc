package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/talluriprudhvi/llm-agents/internal/models"

	_ "modernc.org/sqlite"
)

var ErrConversationNotFound = errors.New("conversation not found")

// HistoryRepository stores conversations, their messages, and a tally of
// weather lookups used to keep popular locations warm.
type HistoryRepository struct {
	DB     *sql.DB
	logger zerolog.Logger
}

func NewHistoryRepository(db *sql.DB, logger zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{DB: db, logger: logger}
}

func (r *HistoryRepository) CreateConversation(ctx context.Context) (string, error) {
	id := uuid.NewString()
	now := time.Now()

	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO conversations (id, created_at, last_active_at) VALUES (?, ?, ?)`,
		id, now, now,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *HistoryRepository) Touch(ctx context.Context, conversationID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE conversations SET last_active_at = ? WHERE id = ?`,
		time.Now(), conversationID,
	)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (r *HistoryRepository) AppendMessage(ctx context.Context, conversationID, role, content string) error {
	var cnt int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conversations WHERE id = ?`, conversationID,
	).Scan(&cnt)
	if err != nil {
		return err
	}
	if cnt == 0 {
		return ErrConversationNotFound
	}

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		conversationID, role, content, time.Now(),
	)
	return err
}

// RecentMessages returns the last n messages of a conversation in
// chronological order. An unknown conversation is an error, an existing one
// with no messages yields an empty slice.
func (r *HistoryRepository) RecentMessages(ctx context.Context, conversationID string, n int) ([]models.Message, error) {
	var cnt int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conversations WHERE id = ?`, conversationID,
	).Scan(&cnt)
	if err != nil {
		return nil, err
	}
	if cnt == 0 {
		return nil, ErrConversationNotFound
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, conversation_id, role, content, created_at
		FROM (
			SELECT id, conversation_id, role, content, created_at
			FROM messages
			WHERE conversation_id = ?
			ORDER BY id DESC
			LIMIT ?
		)
		ORDER BY id ASC
	`, conversationID, n)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.logger.Error().Err(err).Msg("failed to close rows")
		}
	}(rows)

	var msgs []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (r *HistoryRepository) RecordLookup(ctx context.Context, loc models.Location) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO lookups (query, zip, country, hits, last_seen)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (query, zip, country)
		DO UPDATE SET hits = hits + 1, last_seen = excluded.last_seen
	`, loc.Query, loc.Zip, loc.Country, time.Now())
	return err
}

// TopLocations returns the n most queried locations, most popular first.
func (r *HistoryRepository) TopLocations(ctx context.Context, n int) ([]models.Location, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT query, zip, country
		FROM lookups
		ORDER BY hits DESC, last_seen DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.logger.Error().Err(err).Msg("failed to close rows")
		}
	}(rows)

	var locs []models.Location
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.Query, &loc.Zip, &loc.Country); err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}
