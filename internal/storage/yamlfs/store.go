// Package yamlfs stores each save slot as a directory of YAML documents.
package yamlfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"dconn.dev/realmgen/internal/models"
	"dconn.dev/realmgen/internal/storage"
)

// DefaultDir is where saves go when no directory is configured
const DefaultDir = ".saves"

const metaFile = "meta.yaml"

// Store keeps one directory per slot under Dir
type Store struct {
	Dir string
	now func() time.Time
}

// Open prepares a store rooted at dir, creating it if needed
func Open(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &Store{Dir: dir, now: time.Now}, nil
}

// document pairs a file name with the value stored in it
type document struct {
	file  string
	value any
}

func documents(meta *models.SaveMetadata, save *models.SaveGame) []document {
	return []document{
		{"world.yaml", &save.World},
		{"tiles.yaml", &save.Tiles},
		{"towns.yaml", &save.Towns},
		{"roads.yaml", &save.Roads},
		{"player.yaml", &save.Player},
		// written last so a slot only lists once it is complete
		{metaFile, meta},
	}
}

// Save writes a snapshot to its slot directory
func (s *Store) Save(ctx context.Context, slot string, save models.SaveGame) (models.SaveMetadata, error) {
	slot, err := storage.ResolveSlot(slot)
	if err != nil {
		return models.SaveMetadata{}, err
	}
	dir := filepath.Join(s.Dir, slot)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return models.SaveMetadata{}, fmt.Errorf("create slot %s: %w", slot, err)
	}

	meta := models.NewSaveMetadata(slot, save, s.now())
	for _, doc := range documents(&meta, &save) {
		if err := ctx.Err(); err != nil {
			return models.SaveMetadata{}, err
		}
		data, err := yaml.Marshal(doc.value)
		if err != nil {
			return models.SaveMetadata{}, fmt.Errorf("encode %s: %w", doc.file, err)
		}
		if err := os.WriteFile(filepath.Join(dir, doc.file), data, 0644); err != nil {
			return models.SaveMetadata{}, fmt.Errorf("write %s: %w", doc.file, err)
		}
	}
	return meta, nil
}

// Load reads every document of a slot back into a snapshot
func (s *Store) Load(ctx context.Context, slot string) (models.SaveGame, error) {
	if err := storage.ValidateSlot(slot); err != nil {
		return models.SaveGame{}, err
	}
	dir := filepath.Join(s.Dir, slot)

	var save models.SaveGame
	var meta models.SaveMetadata
	for _, doc := range documents(&meta, &save) {
		if err := ctx.Err(); err != nil {
			return models.SaveGame{}, err
		}
		data, err := os.ReadFile(filepath.Join(dir, doc.file))
		if errors.Is(err, fs.ErrNotExist) {
			return models.SaveGame{}, fmt.Errorf("%w: %s", storage.ErrNotFound, slot)
		}
		if err != nil {
			return models.SaveGame{}, fmt.Errorf("read %s: %w", doc.file, err)
		}
		if err := yaml.Unmarshal(data, doc.value); err != nil {
			return models.SaveGame{}, fmt.Errorf("decode %s: %w", doc.file, err)
		}
	}
	return save, nil
}

// List returns the metadata of every complete slot, newest first
func (s *Store) List(ctx context.Context) ([]models.SaveMetadata, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.SaveMetadata{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read save dir: %w", err)
	}

	saves := []models.SaveMetadata{}
	for _, entry := range entries {
		if !entry.IsDir() || storage.ValidateSlot(entry.Name()) != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// meta.yaml marks a valid slot
		data, err := os.ReadFile(filepath.Join(s.Dir, entry.Name(), metaFile))
		if err != nil {
			continue
		}
		var meta models.SaveMetadata
		if err := yaml.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("decode %s metadata: %w", entry.Name(), err)
		}
		saves = append(saves, meta)
	}

	slices.SortStableFunc(saves, func(a, b models.SaveMetadata) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return saves, nil
}

// Delete removes a slot directory
func (s *Store) Delete(ctx context.Context, slot string) error {
	if err := storage.ValidateSlot(slot); err != nil {
		return err
	}
	dir := filepath.Join(s.Dir, slot)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, slot)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

// Close is a no-op; files are not held open between calls
func (s *Store) Close() error {
	return nil
}
