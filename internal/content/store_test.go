package content

import (
	"errors"
	"testing"
	"time"
)

func TestStorePutGetDelete(t *testing.T) {
	t.Parallel()

	store := NewStore()
	item := NewTextItem("hello", "processed hello", false)

	store.Put(item)
	got, ok := store.Get(item.ID)
	if !ok {
		t.Fatal("item not found after Put")
	}
	if got.Status != StatusPending {
		t.Fatalf("status = %q, want Pending", got.Status)
	}
	if got.OriginalContent.Text != "hello" || got.ProcessedContent.Text != "processed hello" {
		t.Fatalf("payloads = %+v / %+v", got.OriginalContent, got.ProcessedContent)
	}

	if !store.Delete(item.ID) {
		t.Fatal("Delete returned false for existing item")
	}
	if store.Delete(item.ID) {
		t.Fatal("Delete returned true for missing item")
	}
	if store.Len() != 0 {
		t.Fatalf("len = %d after delete", store.Len())
	}
}

func TestStoreSetStatus(t *testing.T) {
	t.Parallel()

	store := NewStore()
	item := NewTextItem("hello", "hello", false)
	store.Put(item)

	updated, err := store.SetStatus(item.ID, StatusApproved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusApproved {
		t.Fatalf("status = %q, want Approved", updated.Status)
	}

	if _, err := store.SetStatus("missing", StatusRejected); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestStoreRecent(t *testing.T) {
	t.Parallel()

	store := NewStore()
	base := time.Now().UTC()
	for i := 0; i < 25; i++ {
		item := NewTextItem("t", "t", false)
		item.Timestamp = base.Add(time.Duration(i) * time.Second)
		store.Put(item)
	}

	recent := store.Recent(20)
	if len(recent) != 20 {
		t.Fatalf("len = %d, want 20", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].Timestamp.After(recent[i-1].Timestamp) {
			t.Fatalf("items not sorted descending at %d", i)
		}
	}
	if !recent[0].Timestamp.Equal(base.Add(24 * time.Second)) {
		t.Fatalf("newest item missing from snapshot")
	}

	// The snapshot is a copy: mutating it must not touch the store.
	recent[0].Status = StatusRejected
	stored, _ := store.Get(recent[0].ID)
	if stored.Status != StatusPending {
		t.Fatal("Recent returned a live view, want a copy")
	}
}

func TestNewItemsHaveUniqueIDs(t *testing.T) {
	t.Parallel()

	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		item := NewTextItem("t", "t", false)
		if _, dup := seen[item.ID]; dup {
			t.Fatalf("duplicate id %s", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"Pending", "Approved", "Rejected"} {
		if _, err := ParseStatus(valid); err != nil {
			t.Fatalf("ParseStatus(%q) error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "pending", "Deleted", "approved"} {
		if _, err := ParseStatus(invalid); err == nil {
			t.Fatalf("ParseStatus(%q) should fail", invalid)
		}
	}
}
