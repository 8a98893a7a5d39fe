package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"huduma/internal/platform/postgres"
	"huduma/internal/verification/models"
	id "huduma/pkg/domain"
	"huduma/pkg/platform/sentinel"
	txcontext "huduma/pkg/platform/tx"
)

// PostgresStore persists requests in verification_requests. Metadata is
// stored as JSONB.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const requestColumns = `id, citizen_id, request_type, purpose, additional_info, metadata, urgency,
	status, rejection_reason, decided_by, decided_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*models.Request, error) {
	var (
		r         models.Request
		rid, cid  uuid.UUID
		typ       string
		urgency   string
		status    string
		metaRaw   []byte
		decidedBy uuid.NullUUID
		decidedAt sql.NullTime
	)
	if err := row.Scan(&rid, &cid, &typ, &r.Purpose, &r.AdditionalInfo, &metaRaw, &urgency,
		&status, &r.RejectionReason, &decidedBy, &decidedAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.ID = id.RequestID(rid)
	r.CitizenID = id.UserID(cid)
	r.Type = models.RequestType(typ)
	r.Urgency = models.Urgency(urgency)
	r.Status = models.Status(status)
	r.Metadata = models.Metadata{}
	if len(metaRaw) > 0 {
		if err := json.Unmarshal(metaRaw, &r.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	if decidedBy.Valid {
		by := id.UserID(decidedBy.UUID)
		r.DecidedBy = &by
	}
	if decidedAt.Valid {
		at := decidedAt.Time
		r.DecidedAt = &at
	}
	return &r, nil
}

func nullableUser(u *id.UserID) uuid.NullUUID {
	if u == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*u), Valid: true}
}

func encodeMetadata(m models.Metadata) ([]byte, error) {
	if m == nil {
		m = models.Metadata{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return raw, nil
}

func (s *PostgresStore) Create(ctx context.Context, r *models.Request) error {
	meta, err := encodeMetadata(r.Metadata)
	if err != nil {
		return err
	}
	query := `INSERT INTO verification_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(r.ID), uuid.UUID(r.CitizenID), string(r.Type), r.Purpose, r.AdditionalInfo, meta,
		string(r.Urgency), string(r.Status), r.RejectionReason, nullableUser(r.DecidedBy), r.DecidedAt,
		r.CreatedAt, r.UpdatedAt,
	)
	if postgres.IsUniqueViolation(err) {
		return sentinel.ErrAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// Update overwrites every mutable column. Concurrent writers are not
// detected; the last one wins.
func (s *PostgresStore) Update(ctx context.Context, r *models.Request) error {
	meta, err := encodeMetadata(r.Metadata)
	if err != nil {
		return err
	}
	query := `
		UPDATE verification_requests
		SET request_type = $2, purpose = $3, additional_info = $4, metadata = $5, urgency = $6,
			status = $7, rejection_reason = $8, decided_by = $9, decided_at = $10, updated_at = $11
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(r.ID), string(r.Type), r.Purpose, r.AdditionalInfo, meta, string(r.Urgency),
		string(r.Status), r.RejectionReason, nullableUser(r.DecidedBy), r.DecidedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, requestID id.RequestID) (*models.Request, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM verification_requests WHERE id = $1`, uuid.UUID(requestID))
	r, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find request: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) ListByCitizen(ctx context.Context, citizenID id.UserID) ([]*models.Request, error) {
	return s.query(ctx, `SELECT `+requestColumns+` FROM verification_requests
		WHERE citizen_id = $1 ORDER BY created_at DESC`, uuid.UUID(citizenID))
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status models.Status) ([]*models.Request, error) {
	return s.query(ctx, `SELECT `+requestColumns+` FROM verification_requests
		WHERE status = $1 ORDER BY created_at DESC`, string(status))
}

func (s *PostgresStore) CountByStatus(ctx context.Context, status models.Status) (int, error) {
	var n int
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM verification_requests WHERE status = $1`, string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountDecided(ctx context.Context, status models.Status, from, to time.Time) (int, error) {
	var n int
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT COUNT(*) FROM verification_requests
		WHERE status = $1 AND decided_at >= $2 AND decided_at < $3
	`, string(status), from, to).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count decided requests: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*models.Request, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Request, 0)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}
	return out, nil
}
