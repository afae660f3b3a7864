// internal/infrastructure/store/itemstore.go
package store

import (
	"context"
	"fmt"

	"github.com/dj044/jasleen-wishlist/internal/domain/wishlist"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// patchColumns maps wire field names to their database columns. Patches may
// only touch this set.
var patchColumns = map[string]string{
	"title":      "title",
	"notes":      "notes",
	"link":       "link",
	"price":      "price",
	"priority":   "priority",
	"status":     "status",
	"reservedBy": "reserved_by",
	"updatedAt":  "updated_at",
}

// ItemStore is the wishlist.ItemStore backed by Postgres records with Redis
// pub/sub change fan-out. Every successful write publishes a change notice on
// the list's channel; subscriptions reload the mapping and push a fresh
// snapshot to their consumer.
type ItemStore struct {
	db  *gorm.DB
	rdb *redis.Client
	log *logrus.Entry
}

// NewItemStore creates a new item store
func NewItemStore(db *gorm.DB, rdb *redis.Client, logger *logrus.Logger) *ItemStore {
	return &ItemStore{
		db:  db,
		rdb: rdb,
		log: logger.WithField("component", "itemstore"),
	}
}

func channelFor(listCode string) string {
	return "wishlist:" + listCode + ":events"
}

// Load returns the current id→item mapping for a list, with field defaults
// normalized. A list with no items yields an empty mapping.
func (s *ItemStore) Load(ctx context.Context, listCode string) (wishlist.Snapshot, error) {
	var rows []wishlist.Item
	if err := s.db.WithContext(ctx).Where("list_code = ?", listCode).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load items for list %s: %w", listCode, err)
	}

	snapshot := make(wishlist.Snapshot, len(rows))
	for _, row := range rows {
		snapshot[row.ID] = row.Normalized()
	}
	return snapshot, nil
}

// Create inserts a new item under a store-assigned ULID and announces the
// change.
func (s *ItemStore) Create(ctx context.Context, listCode string, item wishlist.Item) (string, error) {
	item.ID = ulid.Make().String()
	item.ListCode = listCode

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return "", fmt.Errorf("failed to create item: %w", err)
	}

	s.publish(ctx, listCode)
	return item.ID, nil
}

// Patch merges the named fields into an existing item as a single UPDATE.
func (s *ItemStore) Patch(ctx context.Context, listCode, id string, fields map[string]string) error {
	updates := make(map[string]interface{}, len(fields))
	for name, value := range fields {
		column, ok := patchColumns[name]
		if !ok {
			return fmt.Errorf("unknown field %q in patch", name)
		}
		updates[column] = value
	}
	if len(updates) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).Model(&wishlist.Item{}).
		Where("list_code = ? AND id = ?", listCode, id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to patch item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return wishlist.ErrItemNotFound
	}

	s.publish(ctx, listCode)
	return nil
}

// Delete removes an item. Deleting an item that is already gone is a no-op.
func (s *ItemStore) Delete(ctx context.Context, listCode, id string) error {
	result := s.db.WithContext(ctx).
		Where("list_code = ? AND id = ?", listCode, id).
		Delete(&wishlist.Item{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete item: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		s.publish(ctx, listCode)
	}
	return nil
}

// publish announces a change on the list's channel. The record is already
// durable at this point, so a failed announce is logged rather than failing
// the write; live viewers catch up on the next change.
func (s *ItemStore) publish(ctx context.Context, listCode string) {
	if err := s.rdb.Publish(ctx, channelFor(listCode), "changed").Err(); err != nil {
		s.log.WithError(err).WithField("list_code", listCode).Warn("Failed to publish change notice")
	}
}

// Subscribe attaches a live listener on a list and streams snapshots until
// the subscription is closed or ctx ends.
func (s *ItemStore) Subscribe(ctx context.Context, listCode string) (*wishlist.Subscription, error) {
	pubsub := s.rdb.Subscribe(ctx, channelFor(listCode))

	// Confirm the subscription before the initial snapshot so no change
	// notice can slip between the two.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to list %s: %w", listCode, err)
	}

	out := make(chan wishlist.Snapshot, 1)
	go s.pump(ctx, listCode, pubsub, out)

	return wishlist.NewSubscription(out, func() {
		if err := pubsub.Close(); err != nil {
			s.log.WithError(err).WithField("list_code", listCode).Warn("Failed to detach subscription")
		}
	}), nil
}

func (s *ItemStore) pump(ctx context.Context, listCode string, pubsub *redis.PubSub, out chan wishlist.Snapshot) {
	defer close(out)

	if !s.deliver(ctx, listCode, out) {
		return
	}

	notices := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-notices:
			if !ok {
				return
			}
			if !s.deliver(ctx, listCode, out) {
				return
			}
		}
	}
}

// deliver reloads the mapping and pushes it, coalescing so that a slow
// consumer always sees the newest snapshot. Returns false when the
// subscription should end.
func (s *ItemStore) deliver(ctx context.Context, listCode string, out chan wishlist.Snapshot) bool {
	snapshot, err := s.Load(ctx, listCode)
	if err != nil {
		s.log.WithError(err).WithField("list_code", listCode).Warn("Failed to load snapshot for subscription")
		return true
	}

	for {
		select {
		case out <- snapshot:
			return true
		case <-out:
			// Drop the stale snapshot; the newest one wins.
		case <-ctx.Done():
			return false
		}
	}
}
