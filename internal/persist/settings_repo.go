package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rgscene/viewer/internal/bloom"
	"github.com/rgscene/viewer/internal/graphics"
	"github.com/rgscene/viewer/internal/gui"
)

// Settings is the viewer state kept between runs.
type Settings struct {
	CameraPosition graphics.Vec3
	CameraYaw      float32
	CameraPitch    float32
	Bloom          bloom.Settings
	Lights         gui.Lights
	UpdatedAt      time.Time
}

type SettingsRepo struct {
	db *DB
}

func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// LoadSettings returns the saved settings of profile, or nil if none.
func (r *SettingsRepo) LoadSettings(ctx context.Context, profile string) (*Settings, error) {
	s := &Settings{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT camera_x, camera_y, camera_z, camera_yaw, camera_pitch,
		        bloom_enabled, bloom_passes, exposure, bloom_strength, lights, updated_at
		 FROM viewer_settings WHERE profile = $1`, profile,
	).Scan(
		&s.CameraPosition.X, &s.CameraPosition.Y, &s.CameraPosition.Z, &s.CameraYaw, &s.CameraPitch,
		&s.Bloom.Bloom, &s.Bloom.Passes, &s.Bloom.Exposure, &s.Bloom.Strength, &s.Lights, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SaveSettings upserts the settings of profile and records the session
// length in a single transaction.
func (r *SettingsRepo) SaveSettings(ctx context.Context, profile string, s *Settings, frames uint64) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("settings begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO viewer_settings (profile, camera_x, camera_y, camera_z, camera_yaw, camera_pitch,
		                              bloom_enabled, bloom_passes, exposure, bloom_strength, lights, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		 ON CONFLICT (profile) DO UPDATE SET
		     camera_x = EXCLUDED.camera_x, camera_y = EXCLUDED.camera_y, camera_z = EXCLUDED.camera_z,
		     camera_yaw = EXCLUDED.camera_yaw, camera_pitch = EXCLUDED.camera_pitch,
		     bloom_enabled = EXCLUDED.bloom_enabled, bloom_passes = EXCLUDED.bloom_passes,
		     exposure = EXCLUDED.exposure, bloom_strength = EXCLUDED.bloom_strength,
		     lights = EXCLUDED.lights, updated_at = NOW()`,
		profile, s.CameraPosition.X, s.CameraPosition.Y, s.CameraPosition.Z, s.CameraYaw, s.CameraPitch,
		s.Bloom.Bloom, s.Bloom.Passes, s.Bloom.Exposure, s.Bloom.Strength, s.Lights,
	); err != nil {
		return fmt.Errorf("settings upsert: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO viewer_sessions (profile, frames) VALUES ($1, $2)`,
		profile, int64(frames),
	); err != nil {
		return fmt.Errorf("session insert: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *SettingsRepo) Close() { r.db.Close() }
