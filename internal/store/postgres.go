package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/1TapDev/Target-Monitor/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// PostgresOption configures the PostgresStore.
type PostgresOption func(*pgxpool.Config)

// WithPoolSize sets the maximum number of pooled connections.
func WithPoolSize(n int) PostgresOption {
	return func(cfg *pgxpool.Config) {
		if n > 0 {
			cfg.MaxConns = int32(n)
		}
	}
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string, opts ...PostgresOption) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// UpsertStock inserts or overwrites the record for (sku, store_id). All
// fields are replaced and last_updated is touched; quantity_last_changed
// only moves when the quantity actually differs.
func (s *PostgresStore) UpsertStock(ctx context.Context, sa *domain.StoreAvailability) error {
	args := pgx.NamedArgs{
		"sku":              sa.SKU,
		"store_id":         sa.StoreID,
		"store_name":       sa.StoreName,
		"address":          sa.Address,
		"city":             sa.City,
		"state":            sa.State,
		"zip_code":         sa.ZipCode,
		"phone":            sa.Phone,
		"distance":         sa.Distance,
		"quantity":         sa.Quantity,
		"pickup_quantity":  sa.PickupQuantity,
		"instore_quantity": sa.InStoreQuantity,
	}

	if err := s.pool.QueryRow(ctx, queryUpsertStock, args).Scan(&sa.ObservedAt); err != nil {
		return fmt.Errorf("%w: upserting stock %s/%s: %w",
			ErrStorageUnavailable, sa.SKU, sa.StoreID, err)
	}
	return nil
}

// GetStock retrieves the last observed record for (sku, store_id).
// Returns ErrNotFound if the store has never been seen for this SKU.
func (s *PostgresStore) GetStock(
	ctx context.Context,
	sku, storeID string,
) (*domain.StoreAvailability, error) {
	sa := &domain.StoreAvailability{}
	err := scanStock(s.pool.QueryRow(ctx, queryGetStock, sku, storeID), sa)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting stock %s/%s: %w",
			ErrStorageUnavailable, sku, storeID, err)
	}
	return sa, nil
}

// ListStock returns all records for a SKU near a ZIP code, ordered by
// distance ascending with store_id as the tie-break.
func (s *PostgresStore) ListStock(
	ctx context.Context,
	sku, zip string,
) ([]domain.StoreAvailability, error) {
	rows, err := s.pool.Query(ctx, queryListStockByZip, sku, zip)
	if err != nil {
		return nil, fmt.Errorf("%w: listing stock for %s near %s: %w",
			ErrStorageUnavailable, sku, zip, err)
	}
	defer rows.Close()

	var out []domain.StoreAvailability
	for rows.Next() {
		var sa domain.StoreAvailability
		if err := scanStock(rows, &sa); err != nil {
			return nil, fmt.Errorf("scanning stock row: %w", err)
		}
		out = append(out, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stock rows: %w", ErrStorageUnavailable, err)
	}

	return out, nil
}

// HasInitialReport reports whether the first full listing for (sku, zip)
// has already been sent.
func (s *PostgresStore) HasInitialReport(ctx context.Context, sku, zip string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, queryHasInitialReport, sku, zip).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking initial report %s/%s: %w",
			ErrStorageUnavailable, sku, zip, err)
	}
	return exists, nil
}

// MarkInitialReport records that the initial listing for (sku, zip) was sent.
func (s *PostgresStore) MarkInitialReport(ctx context.Context, sku, zip string) error {
	if _, err := s.pool.Exec(ctx, queryMarkInitialReport, sku, zip); err != nil {
		return fmt.Errorf("%w: marking initial report %s/%s: %w",
			ErrStorageUnavailable, sku, zip, err)
	}
	return nil
}

// rowScanner abstracts pgx.Row and pgx.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStock(row rowScanner, sa *domain.StoreAvailability) error {
	var observedAt time.Time
	if err := row.Scan(
		&sa.SKU, &sa.StoreID, &sa.StoreName, &sa.Address,
		&sa.City, &sa.State, &sa.ZipCode,
		&sa.Phone, &sa.Distance,
		&sa.Quantity, &sa.PickupQuantity, &sa.InStoreQuantity, &observedAt,
	); err != nil {
		return err
	}
	sa.ObservedAt = observedAt
	return nil
}
