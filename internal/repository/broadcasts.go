package repository

import (
	"context"
	"time"

	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

func (r *Repository) InsertBroadcast(broadcast *domain.BroadcastMessage) error {
	query := `
		INSERT INTO broadcast_messages (sender_id, subject, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{broadcast.SenderID, broadcast.Subject, broadcast.Body}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&broadcast.ID, &broadcast.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllBroadcasts() ([]*domain.BroadcastMessage, error) {
	query := `
		SELECT b.id, b.sender_id, e.full_name, b.subject, b.body, b.created_at
		FROM broadcast_messages b
		JOIN employees e ON b.sender_id = e.id
		ORDER BY b.created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	broadcasts := make([]*domain.BroadcastMessage, 0)
	for rows.Next() {
		broadcast := &domain.BroadcastMessage{}
		dst := []any{&broadcast.ID, &broadcast.SenderID, &broadcast.SenderName, &broadcast.Subject, &broadcast.Body, &broadcast.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		broadcasts = append(broadcasts, broadcast)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return broadcasts, nil
}
