package wishlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/dj044/jasleen-wishlist/internal/clock"
	"github.com/dj044/jasleen-wishlist/internal/config"
)

// timestampLayout matches the store's wire format for createdAt/updatedAt.
// Every timestamp the service writes uses it, so lexicographic order on the
// stored strings stays chronological.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// editableFields are the fields EditFields may patch through.
var editableFields = map[string]bool{
	"title":      true,
	"notes":      true,
	"link":       true,
	"price":      true,
	"priority":   true,
	"reservedBy": true,
}

// Service handles wishlist business logic
type Service struct {
	store  ItemStore
	clock  clock.Clock
	config *config.Config
}

// NewService creates a new wishlist service
func NewService(store ItemStore, clk clock.Clock, cfg *config.Config) *Service {
	return &Service{
		store:  store,
		clock:  clk,
		config: cfg,
	}
}

func (s *Service) now() string {
	return s.clock.Now().Format(timestampLayout)
}

// List returns the sorted items of a list filtered by query and tab, plus
// the aggregate counts over the whole (unfiltered) list.
func (s *Service) List(ctx context.Context, listCode, query string, tab Tab) ([]Item, Counts, error) {
	if listCode == "" {
		return nil, Counts{}, ErrEmptyListCode
	}

	snapshot, err := s.store.Load(ctx, listCode)
	if err != nil {
		return nil, Counts{}, fmt.Errorf("failed to load wishlist items: %w", err)
	}

	items := ToArray(snapshot)
	SortByCreatedDesc(items)

	return Filter(items, query, tab), Aggregate(items), nil
}

// Watch opens a live subscription on a list. The caller owns the returned
// subscription and must Close it before watching another list code.
func (s *Service) Watch(ctx context.Context, listCode string) (*Subscription, error) {
	if listCode == "" {
		return nil, ErrEmptyListCode
	}
	return s.store.Subscribe(ctx, listCode)
}

// AddItem validates the draft and creates a new open item. Drafts with an
// empty or whitespace-only title are rejected before any store call.
func (s *Service) AddItem(ctx context.Context, listCode string, draft Draft) (Item, error) {
	if listCode == "" {
		return Item{}, ErrEmptyListCode
	}

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return Item{}, ErrEmptyTitle
	}

	priority := draft.Priority
	if !priority.Valid() {
		priority = PriorityNiceToHave
	}

	now := s.now()
	item := Item{
		Title:      title,
		Notes:      strings.TrimSpace(draft.Notes),
		Link:       strings.TrimSpace(draft.Link),
		Price:      strings.TrimSpace(draft.Price),
		Priority:   priority,
		Status:     StatusOpen,
		ReservedBy: "",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	id, err := s.store.Create(ctx, listCode, item)
	if err != nil {
		return Item{}, fmt.Errorf("failed to add wishlist item: %w", err)
	}

	item.ID = id
	return item, nil
}

// SetStatus patches an item's status. Leaving Reserved clears reservedBy in
// the same patch.
func (s *Service) SetStatus(ctx context.Context, listCode, id string, status Status) error {
	if listCode == "" {
		return ErrEmptyListCode
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}

	patch := map[string]string{
		"status":    string(status),
		"updatedAt": s.now(),
	}
	if status != StatusReserved {
		patch["reservedBy"] = ""
	}

	return s.store.Patch(ctx, listCode, id, patch)
}

// ToggleReserve reserves an open or purchased item, or releases a reserved
// one. Reserving without a name falls back to the configured placeholder.
func (s *Service) ToggleReserve(ctx context.Context, listCode, id string, current Status, currentReservedBy string) error {
	if listCode == "" {
		return ErrEmptyListCode
	}

	if current == StatusReserved {
		return s.store.Patch(ctx, listCode, id, map[string]string{
			"status":     string(StatusOpen),
			"reservedBy": "",
			"updatedAt":  s.now(),
		})
	}

	reservedBy := currentReservedBy
	if reservedBy == "" {
		reservedBy = s.config.List.DefaultReservedBy
	}
	return s.store.Patch(ctx, listCode, id, map[string]string{
		"status":     string(StatusReserved),
		"reservedBy": reservedBy,
		"updatedAt":  s.now(),
	})
}

// TogglePurchased marks an item purchased, or re-opens a purchased one.
// reservedBy is left untouched either way; unreserve first to clear it.
func (s *Service) TogglePurchased(ctx context.Context, listCode, id string, current Status) error {
	if listCode == "" {
		return ErrEmptyListCode
	}

	next := StatusPurchased
	if current == StatusPurchased {
		next = StatusOpen
	}
	return s.store.Patch(ctx, listCode, id, map[string]string{
		"status":    string(next),
		"updatedAt": s.now(),
	})
}

// EditFields patches inline edits through to the store, restricted to the
// editable field set and always stamping updatedAt. An edit with no
// recognized fields is a no-op.
func (s *Service) EditFields(ctx context.Context, listCode, id string, fields map[string]string) error {
	if listCode == "" {
		return ErrEmptyListCode
	}

	patch := make(map[string]string, len(fields)+1)
	for name, value := range fields {
		if editableFields[name] {
			patch[name] = value
		}
	}
	if len(patch) == 0 {
		return nil
	}

	patch["updatedAt"] = s.now()
	return s.store.Patch(ctx, listCode, id, patch)
}

// DeleteItem removes an item once the user has confirmed. A declined
// confirmation is a normal no-op, not an error.
func (s *Service) DeleteItem(ctx context.Context, listCode, id string, confirmed bool) error {
	if listCode == "" {
		return ErrEmptyListCode
	}
	if !confirmed {
		return nil
	}
	return s.store.Delete(ctx, listCode, id)
}
