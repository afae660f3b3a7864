package wishlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dj044/jasleen-wishlist/internal/clock"
	"github.com/dj044/jasleen-wishlist/internal/config"
)

// fakeItemStore records mutations in memory so command semantics can be
// asserted without Postgres or Redis.
type fakeItemStore struct {
	items     map[string]Snapshot
	nextID    int
	creates   int
	deletes   int
	lastPatch map[string]string
	err       error
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{items: map[string]Snapshot{}}
}

func (f *fakeItemStore) seed(listCode, id string, item Item) {
	if f.items[listCode] == nil {
		f.items[listCode] = Snapshot{}
	}
	item.ID = id
	f.items[listCode][id] = item
}

func (f *fakeItemStore) Load(_ context.Context, listCode string) (Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	snapshot := Snapshot{}
	for id, item := range f.items[listCode] {
		snapshot[id] = item.Normalized()
	}
	return snapshot, nil
}

func (f *fakeItemStore) Subscribe(_ context.Context, listCode string) (*Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	snapshot, _ := f.Load(context.Background(), listCode)
	ch := make(chan Snapshot, 1)
	ch <- snapshot
	close(ch)
	return NewSubscription(ch, func() {}), nil
}

func (f *fakeItemStore) Create(_ context.Context, listCode string, item Item) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.creates++
	f.nextID++
	id := string(rune('a' + f.nextID - 1))
	f.seed(listCode, id, item)
	return id, nil
}

func (f *fakeItemStore) Patch(_ context.Context, listCode, id string, fields map[string]string) error {
	if f.err != nil {
		return f.err
	}
	item, ok := f.items[listCode][id]
	if !ok {
		return ErrItemNotFound
	}
	f.lastPatch = fields
	for name, value := range fields {
		switch name {
		case "title":
			item.Title = value
		case "notes":
			item.Notes = value
		case "link":
			item.Link = value
		case "price":
			item.Price = value
		case "priority":
			item.Priority = Priority(value)
		case "status":
			item.Status = Status(value)
		case "reservedBy":
			item.ReservedBy = value
		case "updatedAt":
			item.UpdatedAt = value
		}
	}
	f.items[listCode][id] = item
	return nil
}

func (f *fakeItemStore) Delete(_ context.Context, listCode, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deletes++
	delete(f.items[listCode], id)
	return nil
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store ItemStore) *Service {
	cfg := &config.Config{}
	cfg.List.DefaultReservedBy = "Daljeet 💌"
	return NewService(store, clock.NewFixed(testNow), cfg)
}

func TestService_AddItem(t *testing.T) {
	t.Run("creates a trimmed open item with matching timestamps", func(t *testing.T) {
		store := newFakeItemStore()
		svc := newTestService(store)

		item, err := svc.AddItem(context.Background(), "JASLEEN-DALJEET", Draft{
			Title: "  Pink pearl earrings ✨  ",
			Notes: " small ones ",
			Link:  " https://shop.example.com ",
			Price: " $40 ",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if item.ID == "" {
			t.Fatalf("expected store-assigned id")
		}
		if item.Title != "Pink pearl earrings ✨" {
			t.Fatalf("expected trimmed title, got %q", item.Title)
		}
		if item.Notes != "small ones" || item.Link != "https://shop.example.com" || item.Price != "$40" {
			t.Fatalf("expected trimmed optional fields, got %+v", item)
		}
		if item.Status != StatusOpen {
			t.Fatalf("expected status Open, got %q", item.Status)
		}
		if item.ReservedBy != "" {
			t.Fatalf("expected empty reservedBy, got %q", item.ReservedBy)
		}
		if item.Priority != PriorityNiceToHave {
			t.Fatalf("expected default priority, got %q", item.Priority)
		}
		if item.CreatedAt == "" || item.CreatedAt != item.UpdatedAt {
			t.Fatalf("expected createdAt == updatedAt, got %q / %q", item.CreatedAt, item.UpdatedAt)
		}
		if store.creates != 1 {
			t.Fatalf("expected exactly one create, got %d", store.creates)
		}
	})

	t.Run("keeps an explicit valid priority", func(t *testing.T) {
		store := newFakeItemStore()
		svc := newTestService(store)

		item, err := svc.AddItem(context.Background(), "CODE", Draft{Title: "Scarf", Priority: PriorityMustHave})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if item.Priority != PriorityMustHave {
			t.Fatalf("expected Must-have, got %q", item.Priority)
		}
	})

	t.Run("rejects whitespace-only title without a store call", func(t *testing.T) {
		store := newFakeItemStore()
		svc := newTestService(store)

		_, err := svc.AddItem(context.Background(), "CODE", Draft{Title: "   "})
		if !errors.Is(err, ErrEmptyTitle) {
			t.Fatalf("expected ErrEmptyTitle, got %v", err)
		}
		if store.creates != 0 {
			t.Fatalf("expected no store call, got %d creates", store.creates)
		}
	})

	t.Run("rejects an empty list code", func(t *testing.T) {
		svc := newTestService(newFakeItemStore())
		_, err := svc.AddItem(context.Background(), "", Draft{Title: "Scarf"})
		if !errors.Is(err, ErrEmptyListCode) {
			t.Fatalf("expected ErrEmptyListCode, got %v", err)
		}
	})
}

func TestService_SetStatus(t *testing.T) {
	t.Run("leaving Reserved clears reservedBy in the same patch", func(t *testing.T) {
		store := newFakeItemStore()
		store.seed("CODE", "a", Item{Title: "Scarf", Status: StatusReserved, ReservedBy: "Daljeet 💌"})
		svc := newTestService(store)

		if err := svc.SetStatus(context.Background(), "CODE", "a", StatusOpen); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got, ok := store.lastPatch["reservedBy"]; !ok || got != "" {
			t.Fatalf("expected reservedBy cleared in the same patch, got %v", store.lastPatch)
		}
		if store.items["CODE"]["a"].Status != StatusOpen {
			t.Fatalf("expected status Open, got %q", store.items["CODE"]["a"].Status)
		}
		if store.lastPatch["updatedAt"] == "" {
			t.Fatalf("expected updatedAt stamped, got %v", store.lastPatch)
		}
	})

	t.Run("setting Reserved keeps reservedBy untouched", func(t *testing.T) {
		store := newFakeItemStore()
		store.seed("CODE", "a", Item{Title: "Scarf", Status: StatusOpen})
		svc := newTestService(store)

		if err := svc.SetStatus(context.Background(), "CODE", "a", StatusReserved); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := store.lastPatch["reservedBy"]; ok {
			t.Fatalf("expected reservedBy absent from patch, got %v", store.lastPatch)
		}
	})

	t.Run("rejects unknown statuses", func(t *testing.T) {
		svc := newTestService(newFakeItemStore())
		if err := svc.SetStatus(context.Background(), "CODE", "a", Status("Lost")); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("missing item surfaces ErrItemNotFound", func(t *testing.T) {
		svc := newTestService(newFakeItemStore())
		if err := svc.SetStatus(context.Background(), "CODE", "nope", StatusOpen); !errors.Is(err, ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	})
}

func TestService_ToggleReserve(t *testing.T) {
	t.Run("round trip reserves then clears", func(t *testing.T) {
		store := newFakeItemStore()
		store.seed("CODE", "a", Item{Title: "Scarf", Status: StatusOpen})
		svc := newTestService(store)

		if err := svc.ToggleReserve(context.Background(), "CODE", "a", StatusOpen, ""); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		reserved := store.items["CODE"]["a"]
		if reserved.Status != StatusReserved {
			t.Fatalf("expected Reserved, got %q", reserved.Status)
		}
		if reserved.ReservedBy != "Daljeet 💌" {
			t.Fatalf("expected default placeholder, got %q", reserved.ReservedBy)
		}

		if err := svc.ToggleReserve(context.Background(), "CODE", "a", reserved.Status, reserved.ReservedBy); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		released := store.items["CODE"]["a"]
		if released.Status != StatusOpen || released.ReservedBy != "" {
			t.Fatalf("expected cleared reservation, got %+v", released)
		}
	})

	t.Run("keeps the provided reserver name", func(t *testing.T) {
		store := newFakeItemStore()
		store.seed("CODE", "a", Item{Title: "Scarf", Status: StatusOpen})
		svc := newTestService(store)

		if err := svc.ToggleReserve(context.Background(), "CODE", "a", StatusOpen, "Jasleen"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := store.items["CODE"]["a"].ReservedBy; got != "Jasleen" {
			t.Fatalf("expected Jasleen, got %q", got)
		}
	})
}

func TestService_TogglePurchased(t *testing.T) {
	t.Run("flips between Purchased and Open", func(t *testing.T) {
		store := newFakeItemStore()
		store.seed("CODE", "a", Item{Title: "Scarf", Status: StatusOpen})
		svc := newTestService(store)

		if err := svc.TogglePurchased(context.Background(), "CODE", "a", StatusOpen); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := store.items["CODE"]["a"].Status; got != StatusPurchased {
			t.Fatalf("expected Purchased, got %q", got)
		}

		if err := svc.TogglePurchased(context.Background(), "CODE", "a", StatusPurchased); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := store.items["CODE"]["a"].Status; got != StatusOpen {
			t.Fatalf("expected Open, got %q", got)
		}
	})

	t.Run("does not touch reservedBy", func(t *testing.T) {
		store := newFakeItemStore()
		store.seed("CODE", "a", Item{Title: "Scarf", Status: StatusReserved, ReservedBy: "Daljeet 💌"})
		svc := newTestService(store)

		if err := svc.TogglePurchased(context.Background(), "CODE", "a", StatusReserved); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := store.lastPatch["reservedBy"]; ok {
			t.Fatalf("expected reservedBy untouched, got %v", store.lastPatch)
		}
		if got := store.items["CODE"]["a"].ReservedBy; got != "Daljeet 💌" {
			t.Fatalf("expected reservedBy preserved, got %q", got)
		}
	})
}

func TestService_EditFields(t *testing.T) {
	t.Run("patches editable fields and stamps updatedAt", func(t *testing.T) {
		store := newFakeItemStore()
		store.seed("CODE", "a", Item{Title: "Scarf", Status: StatusReserved})
		svc := newTestService(store)

		err := svc.EditFields(context.Background(), "CODE", "a", map[string]string{"reservedBy": "Jasleen"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := store.items["CODE"]["a"].ReservedBy; got != "Jasleen" {
			t.Fatalf("expected reservedBy updated, got %q", got)
		}
		if store.lastPatch["updatedAt"] == "" {
			t.Fatalf("expected updatedAt stamped, got %v", store.lastPatch)
		}
	})

	t.Run("drops unrecognized fields", func(t *testing.T) {
		store := newFakeItemStore()
		store.seed("CODE", "a", Item{Title: "Scarf"})
		svc := newTestService(store)

		err := svc.EditFields(context.Background(), "CODE", "a", map[string]string{
			"notes":     "blue",
			"createdAt": "2020-01-01T00:00:00Z",
			"id":        "evil",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := store.lastPatch["createdAt"]; ok {
			t.Fatalf("expected createdAt dropped, got %v", store.lastPatch)
		}
		if got := store.items["CODE"]["a"].Notes; got != "blue" {
			t.Fatalf("expected notes updated, got %q", got)
		}
	})

	t.Run("no recognized fields is a no-op", func(t *testing.T) {
		store := newFakeItemStore()
		store.seed("CODE", "a", Item{Title: "Scarf"})
		svc := newTestService(store)

		if err := svc.EditFields(context.Background(), "CODE", "a", map[string]string{"bogus": "x"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if store.lastPatch != nil {
			t.Fatalf("expected no store call, got patch %v", store.lastPatch)
		}
	})
}

func TestService_DeleteItem(t *testing.T) {
	t.Run("declined confirmation is a no-op", func(t *testing.T) {
		store := newFakeItemStore()
		store.seed("CODE", "a", Item{Title: "Scarf"})
		svc := newTestService(store)

		if err := svc.DeleteItem(context.Background(), "CODE", "a", false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if store.deletes != 0 {
			t.Fatalf("expected no delete call, got %d", store.deletes)
		}
		if _, ok := store.items["CODE"]["a"]; !ok {
			t.Fatalf("expected item kept")
		}
	})

	t.Run("confirmed delete removes the item", func(t *testing.T) {
		store := newFakeItemStore()
		store.seed("CODE", "a", Item{Title: "Scarf"})
		svc := newTestService(store)

		if err := svc.DeleteItem(context.Background(), "CODE", "a", true); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := store.items["CODE"]["a"]; ok {
			t.Fatalf("expected item removed")
		}
	})
}

func TestService_List(t *testing.T) {
	t.Run("sorted, filtered, with counts over the whole list", func(t *testing.T) {
		store := newFakeItemStore()
		store.seed("CODE", "a", Item{Title: "Old earrings", Status: StatusPurchased, CreatedAt: "2024-01-01T00:00:00.000Z"})
		store.seed("CODE", "b", Item{Title: "New earrings", Status: StatusOpen, CreatedAt: "2024-03-01T00:00:00.000Z"})
		store.seed("CODE", "c", Item{Title: "Scarf", Status: StatusOpen, CreatedAt: "2024-02-01T00:00:00.000Z"})
		svc := newTestService(store)

		items, counts, err := svc.List(context.Background(), "CODE", "earring", TabAll)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(items) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(items))
		}
		if items[0].ID != "b" || items[1].ID != "a" {
			t.Fatalf("expected newest first, got %q then %q", items[0].ID, items[1].ID)
		}
		if counts.Total != 3 || counts.Open != 2 || counts.Purchased != 1 {
			t.Fatalf("expected counts over the unfiltered list, got %+v", counts)
		}
	})

	t.Run("empty list code is rejected", func(t *testing.T) {
		svc := newTestService(newFakeItemStore())
		if _, _, err := svc.List(context.Background(), "", "", TabAll); !errors.Is(err, ErrEmptyListCode) {
			t.Fatalf("expected ErrEmptyListCode, got %v", err)
		}
	})
}

func TestService_Watch(t *testing.T) {
	t.Run("delivers the current snapshot", func(t *testing.T) {
		store := newFakeItemStore()
		store.seed("CODE", "a", Item{Title: "Scarf"})
		svc := newTestService(store)

		sub, err := svc.Watch(context.Background(), "CODE")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer sub.Close()

		snapshot, ok := <-sub.Items()
		if !ok {
			t.Fatalf("expected a snapshot")
		}
		if _, ok := snapshot["a"]; !ok {
			t.Fatalf("expected item a in snapshot, got %v", snapshot)
		}
	})

	t.Run("empty list code is rejected", func(t *testing.T) {
		svc := newTestService(newFakeItemStore())
		if _, err := svc.Watch(context.Background(), ""); !errors.Is(err, ErrEmptyListCode) {
			t.Fatalf("expected ErrEmptyListCode, got %v", err)
		}
	})
}
