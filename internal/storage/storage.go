// Package storage defines the save-slot contract shared by the save backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"dconn.dev/realmgen/internal/models"
)

var (
	// ErrNotFound is returned when a save slot does not exist
	ErrNotFound = errors.New("save not found")
	// ErrInvalidSlot is returned for slot names that cannot be stored safely
	ErrInvalidSlot = errors.New("invalid save slot")
)

// Store persists complete game snapshots in named slots
type Store interface {
	// Save writes a snapshot; an empty slot allocates a new one
	Save(ctx context.Context, slot string, save models.SaveGame) (models.SaveMetadata, error)
	Load(ctx context.Context, slot string) (models.SaveGame, error)
	// List returns every slot, newest first
	List(ctx context.Context) ([]models.SaveMetadata, error)
	Delete(ctx context.Context, slot string) error
	Close() error
}

// NewSlotID allocates a fresh slot name
func NewSlotID() string {
	return uuid.NewString()
}

// ResolveSlot returns the slot to write to, allocating one when slot is empty
func ResolveSlot(slot string) (string, error) {
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return NewSlotID(), nil
	}
	return slot, ValidateSlot(slot)
}

// ValidateSlot rejects names that could escape a save directory or collide with metadata
func ValidateSlot(slot string) error {
	if slot == "" || len(slot) > 64 {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	for _, r := range slot {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
		}
	}
	return nil
}
