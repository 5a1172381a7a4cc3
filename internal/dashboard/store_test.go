package dashboard

import (
	"testing"

	"github.com/linedeck/linedeck/internal/content"
)

func TestStoreAddPrepends(t *testing.T) {
	t.Parallel()

	store := NewStore()
	first := content.NewTextItem("first", "first", false)
	second := content.NewTextItem("second", "second", false)
	store.Add(first)
	store.Add(second)

	items := store.Items()
	if len(items) != 2 {
		t.Fatalf("len = %d", len(items))
	}
	if items[0].ID != second.ID {
		t.Fatal("newest item must come first")
	}
}

func TestStoreSetStatus(t *testing.T) {
	t.Parallel()

	store := NewStore()
	item := content.NewTextItem("a", "a", false)
	store.Add(item)

	if !store.SetStatus(item.ID, content.StatusApproved) {
		t.Fatal("SetStatus returned false for existing item")
	}
	if store.Items()[0].Status != content.StatusApproved {
		t.Fatal("status not updated")
	}
	if store.SetStatus("missing", content.StatusRejected) {
		t.Fatal("SetStatus returned true for missing item")
	}
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	store := NewStore()
	a := content.NewTextItem("a", "a", false)
	b := content.NewTextItem("b", "b", false)
	store.Add(a)
	store.Add(b)

	if !store.Delete(a.ID) {
		t.Fatal("Delete returned false for existing item")
	}
	if store.Len() != 1 {
		t.Fatalf("len = %d", store.Len())
	}
	if store.Items()[0].ID != b.ID {
		t.Fatal("wrong item deleted")
	}
	if store.Delete(a.ID) {
		t.Fatal("Delete returned true for missing item")
	}
}

func TestStoreItemsIsACopy(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Add(content.NewTextItem("a", "a", false))

	items := store.Items()
	items[0].Status = content.StatusRejected
	if store.Items()[0].Status != content.StatusPending {
		t.Fatal("Items returned a live view, want a copy")
	}
}
