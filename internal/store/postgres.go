package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/shopspring/decimal"
)

// DBTX is the subset of pgx behavior shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is the durable Store implementation backed by pgx.
type Postgres struct {
	db DBTX
}

// NewPostgres creates a Postgres store on top of a connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{db: pool}
}

// WithinTx executes fn in a transaction. If the store already wraps a
// transaction, fn runs on it directly so nested calls compose.
func (s *Postgres) WithinTx(ctx context.Context, fn func(tx Store) error) (txErr error) {
	if _, ok := s.db.(pgx.Tx); ok {
		return fn(s)
	}

	pool, ok := s.db.(*pgxpool.Pool)
	if !ok {
		return fmt.Errorf("db is neither pgx.Tx nor *pgxpool.Pool: %T", s.db)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	if err := fn(&Postgres{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// --- Users ---

func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx,
		`SELECT id, email, full_name, hashed_password, role, created_at
		 FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("get user: %w", ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Postgres) GetUserByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx,
		`SELECT id, email, full_name, hashed_password, role, created_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("get user: %w", ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Postgres) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (email, full_name, hashed_password, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.Email, u.FullName, u.HashedPassword, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("create user: %w", ErrConflict)
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// --- Helpers ---

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// decimalToNumeric converts exactly; pgtype.Numeric carries the same
// coefficient/exponent representation as decimal.Decimal, so no string
// round trip or rounding is involved.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
