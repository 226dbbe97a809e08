package agency

import (
	"context"
	"strings"
	"time"

	"github.com/civiclink/complaints/internal/shared/errors"
	"github.com/civiclink/complaints/internal/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database operations for the agency directory
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new agency repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const agencyColumns = `id, name, description, categories,
	contact_email, contact_phone, address,
	hours_start, hours_end, hours_days,
	created_at, updated_at`

// Create creates a new agency
func (r *Repository) Create(ctx context.Context, a *Agency) error {
	query := `
		INSERT INTO agencies (
			id, name, description, categories,
			contact_email, contact_phone, address,
			hours_start, hours_end, hours_days,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Name, a.Description, a.Categories,
		a.Contact.Email, a.Contact.Phone, a.Address,
		a.Hours.Start, a.Hours.End, a.Hours.Days,
		a.CreatedAt, a.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("agency with this id already exists")
		}
		return errors.Wrap(err, "failed to create agency")
	}

	return nil
}

// Get retrieves an agency by ID
func (r *Repository) Get(ctx context.Context, id types.ID) (*Agency, error) {
	a := &Agency{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+agencyColumns+` FROM agencies WHERE id = $1`, id,
	).Scan(
		&a.ID, &a.Name, &a.Description, &a.Categories,
		&a.Contact.Email, &a.Contact.Phone, &a.Address,
		&a.Hours.Start, &a.Hours.End, &a.Hours.Days,
		&a.CreatedAt, &a.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("agency", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get agency")
	}

	return a, nil
}

// List lists all agencies ordered by name
func (r *Repository) List(ctx context.Context) ([]Agency, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+agencyColumns+` FROM agencies ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list agencies")
	}
	defer rows.Close()

	var agencies []Agency
	for rows.Next() {
		var a Agency
		err := rows.Scan(
			&a.ID, &a.Name, &a.Description, &a.Categories,
			&a.Contact.Email, &a.Contact.Phone, &a.Address,
			&a.Hours.Start, &a.Hours.End, &a.Hours.Days,
			&a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan agency")
		}
		agencies = append(agencies, a)
	}

	return agencies, nil
}

// Update updates an agency
func (r *Repository) Update(ctx context.Context, a *Agency) error {
	a.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE agencies SET
			name = $2, description = $3, categories = $4,
			contact_email = $5, contact_phone = $6, address = $7,
			hours_start = $8, hours_end = $9, hours_days = $10,
			updated_at = $11
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		a.ID, a.Name, a.Description, a.Categories,
		a.Contact.Email, a.Contact.Phone, a.Address,
		a.Hours.Start, a.Hours.End, a.Hours.Days,
		a.UpdatedAt,
	)

	if err != nil {
		return errors.Wrap(err, "failed to update agency")
	}

	if result.RowsAffected() == 0 {
		return errors.NotFound("agency", a.ID.String())
	}

	return nil
}

// Delete deletes an agency. Existing complaints keep their stored agency
// label; there is no cascade.
func (r *Repository) Delete(ctx context.Context, id types.ID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM agencies WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete agency")
	}

	if result.RowsAffected() == 0 {
		return errors.NotFound("agency", id.String())
	}

	return nil
}
