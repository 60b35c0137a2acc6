package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/procurement-portal/internal"
	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
	"github.com/frahmantamala/procurement-portal/internal/normalize"
)

// DocumentStore reads and writes the whole portal document as JSON in one slot.
type DocumentStore struct {
	slot       *Slot
	normalizer *normalize.Normalizer
	logger     *slog.Logger
}

func NewDocumentStore(slots SlotStore, key string, normalizer *normalize.Normalizer, logger *slog.Logger) *DocumentStore {
	if normalizer == nil {
		normalizer = normalize.New()
	}
	return &DocumentStore{
		slot:       NewSlot(slots, key),
		normalizer: normalizer,
		logger:     logger,
	}
}

// Load returns the normalized stored document and writes it straight back so migrations stick.
// A missing or unparsable value loads as the seeded default; only backend failures are errors.
func (s *DocumentStore) Load(ctx context.Context) (portalDatamodel.Document, error) {
	raw, err := s.readRaw(ctx)
	if err != nil {
		return portalDatamodel.Document{}, err
	}

	doc := s.normalizer.Document(raw)
	if err := s.Save(ctx, doc); err != nil {
		return portalDatamodel.Document{}, err
	}
	return doc, nil
}

func (s *DocumentStore) readRaw(ctx context.Context) (any, error) {
	value, ok, err := s.slot.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if !ok || value == "" {
		return nil, nil
	}

	var raw any
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		malformed := internal.NewMalformedStorageError(err)
		s.logger.Debug("discarding stored document", "slot", s.slot.Key(), "error", malformed)
		return nil, nil
	}
	return raw, nil
}

// Save overwrites the slot with the full document.
func (s *DocumentStore) Save(ctx context.Context, doc portalDatamodel.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.slot.Set(ctx, string(b)); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Raw returns the stored JSON exactly as persisted.
func (s *DocumentStore) Raw(ctx context.Context) (string, bool, error) {
	return s.slot.Get(ctx)
}
