package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"huduma/internal/identity/models"
	"huduma/internal/platform/postgres"
	id "huduma/pkg/domain"
	"huduma/pkg/platform/sentinel"
	txcontext "huduma/pkg/platform/tx"
)

// PostgresStore persists users and profiles. Every method joins the
// transaction carried by ctx when there is one.
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

const userColumns = `id, email, full_name, role, password_hash, is_active, is_staff, date_joined`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u    models.User
		uid  uuid.UUID
		role string
	)
	if err := row.Scan(&uid, &u.Email, &u.FullName, &role, &u.PasswordHash,
		&u.IsActive, &u.IsStaff, &u.DateJoined); err != nil {
		return nil, err
	}
	u.ID = id.UserID(uid)
	r, err := id.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("stored role %q: %w", role, err)
	}
	u.Role = r
	return &u, nil
}

func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(user.ID), user.Email, user.FullName, string(user.Role), user.PasswordHash,
		user.IsActive, user.IsStaff, user.DateJoined,
	)
	if postgres.IsUniqueViolation(err) {
		return sentinel.ErrAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $2, full_name = $3, role = $4, password_hash = $5, is_active = $6, is_staff = $7
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(user.ID), user.Email, user.FullName, string(user.Role), user.PasswordHash,
		user.IsActive, user.IsStaff,
	)
	if postgres.IsUniqueViolation(err) {
		return sentinel.ErrAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uuid.UUID(userID))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) ListByRole(ctx context.Context, role id.Role) ([]*models.User, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY date_joined DESC`, string(role))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]*models.User, error) {
	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountByRole(ctx context.Context, role id.Role) (int, error) {
	var n int
	err := s.execer(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func uuidArray(ids []id.UserID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, uid := range ids {
		out[i] = uid.String()
	}
	return out
}

func (s *PostgresStore) FindUsers(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*models.User, error) {
	out := make(map[id.UserID]*models.User, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, uuidArray(userIDs))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer rows.Close()
	users, err := collectUsers(rows)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (s *PostgresStore) SaveCitizenProfile(ctx context.Context, p *models.CitizenProfile) error {
	query := `
		INSERT INTO citizen_profiles (user_id, phone, gender, age, address, nida_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE
		SET phone = EXCLUDED.phone, gender = EXCLUDED.gender, age = EXCLUDED.age,
			address = EXCLUDED.address, nida_number = EXCLUDED.nida_number, updated_at = EXCLUDED.updated_at
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(p.UserID), p.Phone, string(p.Gender), p.Age, p.Address, p.NIDANumber, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save citizen profile: %w", err)
	}
	return nil
}

const citizenProfileColumns = `user_id, phone, gender, age, address, nida_number, created_at, updated_at`

func scanCitizenProfile(row rowScanner) (*models.CitizenProfile, error) {
	var (
		p      models.CitizenProfile
		uid    uuid.UUID
		gender string
	)
	if err := row.Scan(&uid, &p.Phone, &gender, &p.Age, &p.Address, &p.NIDANumber, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.UserID = id.UserID(uid)
	p.Gender = models.Gender(gender)
	return &p, nil
}

func (s *PostgresStore) FindCitizenProfile(ctx context.Context, userID id.UserID) (*models.CitizenProfile, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+citizenProfileColumns+` FROM citizen_profiles WHERE user_id = $1`, uuid.UUID(userID))
	p, err := scanCitizenProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find citizen profile: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindCitizenProfiles(ctx context.Context, userIDs []id.UserID) (map[id.UserID]*models.CitizenProfile, error) {
	out := make(map[id.UserID]*models.CitizenProfile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+citizenProfileColumns+` FROM citizen_profiles WHERE user_id = ANY($1::uuid[])`, uuidArray(userIDs))
	if err != nil {
		return nil, fmt.Errorf("find citizen profiles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanCitizenProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan citizen profile: %w", err)
		}
		out[p.UserID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate citizen profiles: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SaveOfficerProfile(ctx context.Context, p *models.OfficerProfile) error {
	query := `
		INSERT INTO officer_profiles (user_id, phone, position, office, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET phone = EXCLUDED.phone, position = EXCLUDED.position, office = EXCLUDED.office,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(p.UserID), p.Phone, p.Position, p.Office, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save officer profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindOfficerProfile(ctx context.Context, userID id.UserID) (*models.OfficerProfile, error) {
	var (
		p   models.OfficerProfile
		uid uuid.UUID
	)
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT user_id, phone, position, office, created_at, updated_at FROM officer_profiles WHERE user_id = $1`,
		uuid.UUID(userID)).Scan(&uid, &p.Phone, &p.Position, &p.Office, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find officer profile: %w", err)
	}
	p.UserID = id.UserID(uid)
	return &p, nil
}
