package alert

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hebububu/VRCPulse/internal/database"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL receipt repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert stores a new receipt. The unique index on
// (guild_id, user_id, alert_type, reference_id) rejects duplicates.
func (r *PostgresRepository) Insert(ctx context.Context, receipt *DeliveryReceipt) error {
	query := `
		INSERT INTO sent_alerts (id, guild_id, user_id, alert_type, reference_id, notified_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		receipt.ID,
		receipt.GuildID,
		receipt.UserID,
		receipt.AlertType,
		receipt.ReferenceID,
		receipt.NotifiedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert delivery receipt: %w", err)
	}

	return nil
}

// DeleteByID removes a receipt, releasing the reservation.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	query := `DELETE FROM sent_alerts WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete delivery receipt: %w", err)
	}

	return nil
}

// ListByReference returns all receipts recorded for an alert type and
// reference.
func (r *PostgresRepository) ListByReference(ctx context.Context, alertType, referenceID string) ([]*DeliveryReceipt, error) {
	query := `
		SELECT id, guild_id, user_id, alert_type, reference_id, notified_at
		FROM sent_alerts
		WHERE alert_type = $1 AND reference_id = $2
		ORDER BY notified_at, id
	`

	rows, err := r.pool.Query(ctx, query, alertType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*DeliveryReceipt
	for rows.Next() {
		var receipt DeliveryReceipt
		if err := rows.Scan(
			&receipt.ID,
			&receipt.GuildID,
			&receipt.UserID,
			&receipt.AlertType,
			&receipt.ReferenceID,
			&receipt.NotifiedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan delivery receipt: %w", err)
		}
		receipts = append(receipts, &receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate delivery receipts: %w", err)
	}

	return receipts, nil
}
