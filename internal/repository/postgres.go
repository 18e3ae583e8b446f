package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ajna/ajna-hub/internal/domain"
)

// DBTX is the subset of *pgxpool.Pool the repository needs
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DBTX = (*pgxpool.Pool)(nil)

const devicesSchema = `
	CREATE TABLE IF NOT EXISTS devices (
		device_id  TEXT PRIMARY KEY,
		fcm_token  TEXT,
		status     TEXT CHECK (status IN ('online', 'offline')),
		last_seen  TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// PostgresRepository implements domain.DeviceRepository using PostgreSQL
type PostgresRepository struct {
	db DBTX
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the devices table if it does not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, devicesSchema); err != nil {
		return fmt.Errorf("failed to create devices table: %w", err)
	}
	return nil
}

// MergeDevice upserts a device, keeping stored values for columns the update leaves unset
func (r *PostgresRepository) MergeDevice(ctx context.Context, id string, update domain.DeviceUpdate) error {
	query := `
		INSERT INTO devices (device_id, fcm_token, status, last_seen)
		VALUES ($1, $2, $3, CASE WHEN $4::boolean THEN now() END)
		ON CONFLICT (device_id) DO UPDATE SET
			fcm_token  = COALESCE(EXCLUDED.fcm_token, devices.fcm_token),
			status     = COALESCE(EXCLUDED.status, devices.status),
			last_seen  = COALESCE(EXCLUDED.last_seen, devices.last_seen),
			updated_at = now()
	`

	var token, status any
	if update.FCMToken != nil {
		token = *update.FCMToken
	}
	if update.Status != "" {
		status = string(update.Status)
	}

	if _, err := r.db.Exec(ctx, query, id, token, status, update.TouchLastSeen); err != nil {
		return fmt.Errorf("failed to merge device %s: %w", id, err)
	}
	return nil
}

// GetDevice retrieves a device by ID
func (r *PostgresRepository) GetDevice(ctx context.Context, id string) (*domain.Device, error) {
	query := `
		SELECT device_id, fcm_token, status, last_seen, created_at, updated_at
		FROM devices WHERE device_id = $1
	`
	device, err := scanDevice(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get device %s: %w", id, err)
	}
	return device, nil
}

// ListDevices returns every stored device ordered by ID
func (r *PostgresRepository) ListDevices(ctx context.Context) ([]*domain.Device, error) {
	query := `
		SELECT device_id, fcm_token, status, last_seen, created_at, updated_at
		FROM devices ORDER BY device_id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	devices := []*domain.Device{}
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, device)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

// CountDevices returns the number of stored devices
func (r *PostgresRepository) CountDevices(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM devices`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count devices: %w", err)
	}
	return int(count), nil
}

func scanDevice(row pgx.Row) (*domain.Device, error) {
	var (
		device    domain.Device
		token     *string
		status    *string
		lastSeen  *time.Time
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&device.ID, &token, &status, &lastSeen, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	device.FCMToken = token
	if status != nil {
		device.Status = domain.DeviceStatus(*status)
	}
	device.LastSeen = lastSeen
	device.Extra = domain.Map{
		"created_at": createdAt.UTC(),
		"updated_at": updatedAt.UTC(),
	}
	return &device, nil
}
