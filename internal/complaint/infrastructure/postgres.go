package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/civiclink/complaints/internal/complaint/domain"
	"github.com/civiclink/complaints/internal/shared/errors"
	"github.com/civiclink/complaints/internal/shared/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements domain.Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create atomically writes the complaint row and its seed update
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Complaint, seed *domain.ComplaintUpdate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO complaints (
			id, title, description, category, status, priority, agency,
			user_email, user_phone, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = tx.Exec(ctx, query,
		c.ID, c.Title, c.Description, c.Category, c.Status, c.Priority, c.Agency,
		nullable(c.UserEmail), nullable(c.UserPhone), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("complaint with this id already exists")
		}
		return errors.Wrap(err, "failed to create complaint")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO complaint_updates (id, complaint_id, timestamp, status, message, responder)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		seed.ID, seed.ComplaintID, seed.Timestamp, seed.Status, seed.Message, seed.Responder,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create seed update")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	c.Updates = []domain.ComplaintUpdate{*seed}
	return nil
}

// FindByID returns a complaint with its timeline ordered oldest first
func (r *PostgresRepository) FindByID(ctx context.Context, id types.ID) (*domain.Complaint, error) {
	c, err := r.scanComplaint(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}

	updates, err := r.getUpdates(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}
	c.Updates = updates

	return c, nil
}

// List returns a page of complaints ordered by creation time descending
func (r *PostgresRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Complaint, int, error) {
	filter.Normalize()

	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, *filter.Status)
		argNum++
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argNum))
		args = append(args, filter.Category)
		argNum++
	}

	if filter.Agency != "" {
		conditions = append(conditions, fmt.Sprintf("agency = $%d", argNum))
		args = append(args, filter.Agency)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM complaints %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count complaints")
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, category, status, priority, agency,
			user_email, user_phone, created_at, updated_at
		FROM complaints
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, argNum, argNum+1)

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list complaints")
	}
	defer rows.Close()

	var complaints []domain.Complaint
	for rows.Next() {
		var c domain.Complaint
		var email, phone *string
		err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.Category, &c.Status, &c.Priority, &c.Agency,
			&email, &phone, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan complaint")
		}
		c.UserEmail = deref(email)
		c.UserPhone = deref(phone)
		complaints = append(complaints, c)
	}

	return complaints, total, nil
}

// AppendUpdate appends a timeline entry and mirrors status/updated_at on
// the parent row inside a single transaction. The parent row is locked
// with SELECT ... FOR UPDATE so concurrent appends on the same complaint
// serialize without lost updates.
func (r *PostgresRepository) AppendUpdate(ctx context.Context, id types.ID, status domain.Status, message string, responder *string) (*domain.Complaint, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var currentStatus domain.Status
	err = tx.QueryRow(ctx, `SELECT status FROM complaints WHERE id = $1 FOR UPDATE`, id).Scan(&currentStatus)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("complaint", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock complaint")
	}

	now := time.Now().UTC()

	update := domain.ComplaintUpdate{
		ID:          types.NewID(),
		ComplaintID: id,
		Timestamp:   now,
		Status:      status,
		Message:     message,
		Responder:   responder,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO complaint_updates (id, complaint_id, timestamp, status, message, responder)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		update.ID, update.ComplaintID, update.Timestamp, update.Status, update.Message, update.Responder,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to append update")
	}

	_, err = tx.Exec(ctx,
		`UPDATE complaints SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, now,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update complaint status")
	}

	c, err := r.scanComplaint(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	updates, err := r.getUpdates(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	c.Updates = updates

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	return c, nil
}

// querier covers both the pool and a transaction
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PostgresRepository) scanComplaint(ctx context.Context, q querier, id types.ID) (*domain.Complaint, error) {
	query := `
		SELECT id, title, description, category, status, priority, agency,
			user_email, user_phone, created_at, updated_at
		FROM complaints
		WHERE id = $1`

	c := &domain.Complaint{}
	var email, phone *string

	err := q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Description, &c.Category, &c.Status, &c.Priority, &c.Agency,
		&email, &phone, &c.CreatedAt, &c.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("complaint", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find complaint")
	}

	c.UserEmail = deref(email)
	c.UserPhone = deref(phone)
	return c, nil
}

func (r *PostgresRepository) getUpdates(ctx context.Context, q querier, complaintID types.ID) ([]domain.ComplaintUpdate, error) {
	query := `
		SELECT id, complaint_id, timestamp, status, message, responder
		FROM complaint_updates
		WHERE complaint_id = $1
		ORDER BY timestamp ASC`

	rows, err := q.Query(ctx, query, complaintID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get complaint updates")
	}
	defer rows.Close()

	var updates []domain.ComplaintUpdate
	for rows.Next() {
		var u domain.ComplaintUpdate
		if err := rows.Scan(&u.ID, &u.ComplaintID, &u.Timestamp, &u.Status, &u.Message, &u.Responder); err != nil {
			return nil, errors.Wrap(err, "failed to scan complaint update")
		}
		updates = append(updates, u)
	}

	return updates, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
