// Package sqlite stores save slots as rows in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/storage"
	"dconn.dev/realmgen/internal/storage/sqlite/migrations"
	"dconn.dev/realmgen/internal/storage/sqlitemigrate"
)

// Store provides SQLite-backed save slots
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens and migrates a save database
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close releases the underlying connection
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save upserts a slot row with the snapshot encoded as YAML
func (s *Store) Save(ctx context.Context, slot string, save models.SaveGame) (models.SaveMetadata, error) {
	slot, err := storage.ResolveSlot(slot)
	if err != nil {
		return models.SaveMetadata{}, err
	}
	payload, err := yaml.Marshal(save)
	if err != nil {
		return models.SaveMetadata{}, fmt.Errorf("encode save: %w", err)
	}

	// stored at millisecond precision
	meta := models.NewSaveMetadata(slot, save, s.now().Truncate(time.Millisecond))
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO saves (slot, player_name, player_level, world_name, world_seed, saved_at, payload_yaml)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		    player_name = excluded.player_name,
		    player_level = excluded.player_level,
		    world_name = excluded.world_name,
		    world_seed = excluded.world_seed,
		    saved_at = excluded.saved_at,
		    payload_yaml = excluded.payload_yaml`,
		meta.ID, meta.PlayerName, meta.PlayerLevel, meta.WorldName, save.World.Seed, meta.Timestamp.UnixMilli(), payload,
	)
	if err != nil {
		return models.SaveMetadata{}, fmt.Errorf("put save %s: %w", slot, err)
	}
	return meta, nil
}

// Load decodes the snapshot stored in a slot
func (s *Store) Load(ctx context.Context, slot string) (models.SaveGame, error) {
	if err := storage.ValidateSlot(slot); err != nil {
		return models.SaveGame{}, err
	}

	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT payload_yaml FROM saves WHERE slot = ?`, slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SaveGame{}, fmt.Errorf("%w: %s", storage.ErrNotFound, slot)
	}
	if err != nil {
		return models.SaveGame{}, fmt.Errorf("get save %s: %w", slot, err)
	}

	var save models.SaveGame
	if err := yaml.Unmarshal(payload, &save); err != nil {
		return models.SaveGame{}, fmt.Errorf("decode save %s: %w", slot, err)
	}
	return save, nil
}

// List returns slot metadata, newest first
func (s *Store) List(ctx context.Context) ([]models.SaveMetadata, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT slot, player_name, player_level, world_name, saved_at
		 FROM saves
		 ORDER BY saved_at DESC, slot ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	saves := []models.SaveMetadata{}
	for rows.Next() {
		var meta models.SaveMetadata
		var savedAt int64
		if err := rows.Scan(&meta.ID, &meta.PlayerName, &meta.PlayerLevel, &meta.WorldName, &savedAt); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		meta.Timestamp = time.UnixMilli(savedAt).UTC()
		saves = append(saves, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saves: %w", err)
	}
	return saves, nil
}

// Delete removes a slot row
func (s *Store) Delete(ctx context.Context, slot string) error {
	if err := storage.ValidateSlot(slot); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("delete save %s: %w", slot, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete save %s: %w", slot, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, slot)
	}
	return nil
}
