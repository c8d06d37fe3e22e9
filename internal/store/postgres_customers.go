package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lavanderia-pos/api/internal/domain"
)

func (s *Postgres) CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	var email pgtype.Text
	if c.Email != nil {
		email = pgtype.Text{String: *c.Email, Valid: true}
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO customers (name, phone, email)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Phone, email,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Customer{}, fmt.Errorf("create customer: %w", ErrConflict)
		}
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

func (s *Postgres) GetCustomer(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, name, phone, email, created_at, updated_at
		 FROM customers WHERE id = $1`, id)

	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, fmt.Errorf("get customer: %w", ErrNotFound)
		}
		return domain.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (s *Postgres) ListCustomers(ctx context.Context, f CustomerFilter) ([]domain.Customer, error) {
	var search pgtype.Text
	if f.Search != "" {
		search = pgtype.Text{String: f.Search, Valid: true}
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, name, phone, email, created_at, updated_at
		 FROM customers
		 WHERE $1::text IS NULL OR name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%'
		 ORDER BY name
		 LIMIT $2 OFFSET $3`,
		search, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("list customers: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *Postgres) UpdateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	var email pgtype.Text
	if c.Email != nil {
		email = pgtype.Text{String: *c.Email, Valid: true}
	}

	err := s.db.QueryRow(ctx,
		`UPDATE customers
		 SET name = $2, phone = $3, email = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Phone, email,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, fmt.Errorf("update customer: %w", ErrNotFound)
		}
		if isUniqueViolation(err) {
			return domain.Customer{}, fmt.Errorf("update customer: %w", ErrConflict)
		}
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return c, nil
}

func (s *Postgres) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete customer: %w", ErrConflict)
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete customer: %w", ErrNotFound)
	}
	return nil
}

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var (
		c     domain.Customer
		email pgtype.Text
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &email, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Customer{}, err
	}
	if email.Valid {
		c.Email = &email.String
	}
	return c, nil
}

// --- Services (catalog) ---

func (s *Postgres) CreateService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	err := s.db.QueryRow(ctx,
		`INSERT INTO services (name, price) VALUES ($1, $2) RETURNING id`,
		svc.Name, decimalToNumeric(svc.Price),
	).Scan(&svc.ID)
	if err != nil {
		return domain.Service{}, fmt.Errorf("create service: %w", err)
	}
	return svc, nil
}

func (s *Postgres) GetService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	var (
		svc   domain.Service
		price pgtype.Numeric
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, name, price FROM services WHERE id = $1`, id,
	).Scan(&svc.ID, &svc.Name, &price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Service{}, fmt.Errorf("get service: %w", ErrNotFound)
		}
		return domain.Service{}, fmt.Errorf("get service: %w", err)
	}
	svc.Price = numericToDecimal(price)
	return svc, nil
}

func (s *Postgres) ListServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, price FROM services ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	services := []domain.Service{}
	for rows.Next() {
		var (
			svc   domain.Service
			price pgtype.Numeric
		)
		if err := rows.Scan(&svc.ID, &svc.Name, &price); err != nil {
			return nil, fmt.Errorf("list services: %w", err)
		}
		svc.Price = numericToDecimal(price)
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (s *Postgres) UpdateService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE services SET name = $2, price = $3 WHERE id = $1`,
		svc.ID, svc.Name, decimalToNumeric(svc.Price))
	if err != nil {
		return domain.Service{}, fmt.Errorf("update service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Service{}, fmt.Errorf("update service: %w", ErrNotFound)
	}
	return svc, nil
}

func (s *Postgres) DeleteService(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete service: %w", ErrConflict)
		}
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete service: %w", ErrNotFound)
	}
	return nil
}
