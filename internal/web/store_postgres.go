package web

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/userimport/internal/config"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS mock_users (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL,
	role       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertUser = `
INSERT INTO mock_users (id, name, email, role)
VALUES ($1, $2, $3, $4)
RETURNING created_at`

// PostgresStore records created users in the mock_users table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPool connects to cfg.URL with the configured pool sizing and verifies
// the connection.
func OpenPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewPostgresStore ensures the mock_users table exists.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, createUsersTable); err != nil {
		return nil, fmt.Errorf("create mock_users table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) CreateUser(ctx context.Context, u User) (User, error) {
	id := uuid.New()
	if err := p.pool.QueryRow(ctx, insertUser, id, u.Name, u.Email, u.Role).Scan(&u.CreatedAt); err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID = id.String()
	return u, nil
}
