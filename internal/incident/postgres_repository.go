package incident

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hebububu/VRCPulse/internal/database"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL incident repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves an incident by its upstream ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Incident, error) {
	query := `
		SELECT id, title, impact, status, started_at, resolved_at, created_at, updated_at
		FROM incidents
		WHERE id = $1
	`

	var inc Incident
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&inc.ID,
		&inc.Title,
		&inc.Impact,
		&inc.Status,
		&inc.StartedAt,
		&inc.ResolvedAt,
		&inc.CreatedAt,
		&inc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &inc, nil
}

// ListUnresolved retrieves all incidents not yet resolved.
func (r *PostgresRepository) ListUnresolved(ctx context.Context) ([]*Incident, error) {
	query := `
		SELECT id, title, impact, status, started_at, resolved_at, created_at, updated_at
		FROM incidents
		WHERE status <> 'resolved'
		ORDER BY started_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []*Incident
	for rows.Next() {
		var inc Incident
		err := rows.Scan(
			&inc.ID,
			&inc.Title,
			&inc.Impact,
			&inc.Status,
			&inc.StartedAt,
			&inc.ResolvedAt,
			&inc.CreatedAt,
			&inc.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, &inc)
	}

	return incidents, rows.Err()
}

// Insert stores a new incident.
func (r *PostgresRepository) Insert(ctx context.Context, inc *Incident) error {
	query := `
		INSERT INTO incidents (id, title, impact, status, started_at, resolved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		inc.ID,
		inc.Title,
		inc.Impact,
		inc.Status,
		inc.StartedAt,
		inc.ResolvedAt,
		inc.CreatedAt,
		inc.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Update replaces the mutable fields of an existing incident.
func (r *PostgresRepository) Update(ctx context.Context, inc *Incident) error {
	query := `
		UPDATE incidents SET
			title = $2,
			impact = $3,
			status = $4,
			resolved_at = $5,
			updated_at = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		inc.ID,
		inc.Title,
		inc.Impact,
		inc.Status,
		inc.ResolvedAt,
		inc.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// HasNote reports whether a note with the given upstream ID exists.
func (r *PostgresRepository) HasNote(ctx context.Context, noteID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM incident_updates WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, noteID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// InsertNote stores a new note.
func (r *PostgresRepository) InsertNote(ctx context.Context, note *Note) error {
	query := `
		INSERT INTO incident_updates (id, incident_id, body, status, published_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		note.ID,
		note.IncidentID,
		note.Body,
		note.Status,
		note.PublishedAt,
		note.CreatedAt,
	)
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
