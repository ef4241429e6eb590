package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"financas/internal/core"
)

// TagStore is the slice of the repository the tag service depends on.
type TagStore interface {
	CreateTag(ctx context.Context, tg core.Tag) error
	DeleteTag(ctx context.Context, ownerID, id string) error
	ListTags(ctx context.Context, ownerID string, kind core.Kind) ([]core.Tag, error)
}

// TagService manages the per-owner category labels.
type TagService struct {
	store TagStore
}

func NewTagService(store TagStore) *TagService {
	return &TagService{store: store}
}

// Create validates and stores a new tag, returning its id.
func (s *TagService) Create(ctx context.Context, tg core.Tag) (string, error) {
	if tg.ID == "" {
		tg.ID = uuid.NewString()
	}
	if err := tg.Validate(); err != nil {
		return "", fmt.Errorf("validate tag: %w", err)
	}
	if err := s.store.CreateTag(ctx, tg); err != nil {
		return "", fmt.Errorf("create tag: %w", err)
	}
	return tg.ID, nil
}

// Delete removes a tag owned by ownerID.
func (s *TagService) Delete(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteTag(ctx, ownerID, id)
}

// List returns the owner's tags for one kind.
func (s *TagService) List(ctx context.Context, ownerID string, kind core.Kind) ([]core.Tag, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	tags, err := s.store.ListTags(ctx, ownerID, kind)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
