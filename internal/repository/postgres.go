// Package repository содержит хранилища клиентских сессий: PostgreSQL и in-memory.
package repository

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/mmeshcher/readytoeat/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrSessionNotFound возвращается, если сессия не найдена.
var ErrSessionNotFound = errors.New("session not found")

// PostgresRepository хранит сессии и их корзины в PostgreSQL.
type PostgresRepository struct {
	pool    *pgxpool.Pool
	backoff func() retry.Backoff
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{
		pool:    pool,
		backoff: defaultBackoff,
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func defaultBackoff() retry.Backoff {
	return retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry повторяет fn при сериализационных конфликтах и обрывах соединения.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if isRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure ||
			pgErr.Code == pgerrcode.DeadlockDetected ||
			pgerrcode.IsConnectionException(pgErr.Code)
	}

	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	// Упрощенная проверка на ошибки соединения
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// GetSession возвращает сессию по идентификатору.
func (r *PostgresRepository) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var (
		s    model.Session
		role string
		cart []byte
	)

	err := r.withRetry(ctx, func(ctx context.Context) error {
		return r.pool.QueryRow(ctx,
			`SELECT id::text, role, upstream_session, points, cart, created_at, updated_at
			 FROM sessions
			 WHERE id = $1`,
			id,
		).Scan(&s.ID, &role, &s.UpstreamSession, &s.Points, &cart, &s.CreatedAt, &s.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	s.Role = model.Role(role)
	if err := json.Unmarshal(cart, &s.Cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	return &s, nil
}

// SaveSession создаёт или обновляет сессию вместе с корзиной.
func (r *PostgresRepository) SaveSession(ctx context.Context, s *model.Session) error {
	lines := s.Cart
	if lines == nil {
		lines = []model.CartLine{}
	}
	cart, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	err = r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO sessions (id, role, upstream_session, points, cart, updated_at)
			 VALUES ($1, $2, $3, $4, $5, now())
			 ON CONFLICT (id) DO UPDATE SET
			     role = EXCLUDED.role,
			     upstream_session = EXCLUDED.upstream_session,
			     points = EXCLUDED.points,
			     cart = EXCLUDED.cart,
			     updated_at = now()`,
			s.ID, string(s.Role), s.UpstreamSession, s.Points, cart,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// DeleteSession удаляет сессию.
func (r *PostgresRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteSessionsBefore удаляет сессии, не обновлявшиеся с момента before,
// кроме перечисленных в keep.
func (r *PostgresRepository) DeleteSessionsBefore(ctx context.Context, before time.Time, keep []string) (int64, error) {
	if keep == nil {
		keep = []string{}
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE updated_at < $1 AND NOT (id::text = ANY($2))`, before, keep)
	if err != nil {
		return 0, fmt.Errorf("delete stale sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
