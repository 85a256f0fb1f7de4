package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mmynk/listling/internal/models"
	"github.com/mmynk/listling/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		Username:     email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser assigns ID and timestamps", func(t *testing.T) {
		user := createTestUser(t, store, "alice@example.com")
		if user.ID == 0 {
			t.Error("Expected user ID to be assigned")
		}
		if user.CreatedAt == 0 || user.UpdatedAt == 0 {
			t.Error("Expected timestamps to be set")
		}
		if user.Role != models.RoleUser {
			t.Errorf("Role: got %s, want %s", user.Role, models.RoleUser)
		}
	})

	t.Run("GetUserByEmail returns nil for unknown email", func(t *testing.T) {
		user, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if user != nil {
			t.Errorf("Expected nil user, got %+v", user)
		}
	})

	t.Run("CreateUser rejects duplicate email", func(t *testing.T) {
		createTestUser(t, store, "dup@example.com")
		dup := &models.User{Email: "dup@example.com", Username: "dup", PasswordHash: "x"}
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected error for duplicate email, got nil")
		}
	})

	t.Run("GetUsersByIDs omits missing users", func(t *testing.T) {
		bob := createTestUser(t, store, "bob@example.com")
		users, err := store.GetUsersByIDs(ctx, []int64{bob.ID, 99999})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 1 {
			t.Fatalf("Expected 1 user, got %d", len(users))
		}
		if _, ok := users[bob.ID]; !ok {
			t.Error("Expected bob in result")
		}
	})

	t.Run("CountAndListUsers searches and excludes", func(t *testing.T) {
		carol := createTestUser(t, store, "carol@example.com")
		createTestUser(t, store, "carolyn@example.com")

		count, users, err := store.CountAndListUsers(ctx, storage.UserQuery{
			Search: "carol",
			Page:   storage.Page{Limit: 50, Page: 1},
		})
		if err != nil {
			t.Fatalf("CountAndListUsers failed: %v", err)
		}
		if count != 2 {
			t.Errorf("Count: got %d, want 2", count)
		}
		for _, u := range users {
			if u.PasswordHash != "" {
				t.Error("Expected public projection without credential hash")
			}
		}

		count, _, err = store.CountAndListUsers(ctx, storage.UserQuery{
			Search:     "carol",
			ExcludeIDs: []int64{carol.ID},
			Page:       storage.Page{Limit: 50, Page: 1},
		})
		if err != nil {
			t.Fatalf("CountAndListUsers failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Count with exclusion: got %d, want 1", count)
		}
	})
}

func TestSQLiteStoreLists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@example.com")
	member := createTestUser(t, store, "member@example.com")

	t.Run("CreateList persists items and members atomically", func(t *testing.T) {
		list, err := store.CreateList(ctx, owner.ID,
			storage.ListFields{Title: "Groceries", Description: "Weekly"},
			[]storage.ItemFields{
				{Title: "Milk", Amount: 2},
				{Title: "Eggs", Amount: 12},
			},
			[]int64{member.ID},
		)
		if err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}
		if list.ID == 0 {
			t.Error("Expected list ID to be assigned")
		}
		if list.OwnerID != owner.ID {
			t.Errorf("OwnerID: got %d, want %d", list.OwnerID, owner.ID)
		}
		if list.Owner == nil || list.Owner.Email != owner.Email {
			t.Error("Expected nested owner projection")
		}
		if len(list.Items) != 2 {
			t.Fatalf("Items: got %d, want 2", len(list.Items))
		}
		if list.Items[0].Status {
			t.Error("Expected new items to be open")
		}
		if len(list.Members) != 1 || list.Members[0].ID != member.ID {
			t.Fatalf("Members: got %+v, want [%d]", list.Members, member.ID)
		}
		if list.Members[0].PasswordHash != "" {
			t.Error("Member projection must not carry a credential")
		}
	})

	t.Run("GetListAccess returns owner and member ids", func(t *testing.T) {
		list, err := store.CreateList(ctx, owner.ID,
			storage.ListFields{Title: "Shared", Description: "d"}, nil, []int64{member.ID})
		if err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}

		ownerID, memberIDs, err := store.GetListAccess(ctx, list.ID)
		if err != nil {
			t.Fatalf("GetListAccess failed: %v", err)
		}
		if ownerID != owner.ID {
			t.Errorf("ownerID: got %d, want %d", ownerID, owner.ID)
		}
		if len(memberIDs) != 1 || memberIDs[0] != member.ID {
			t.Errorf("memberIDs: got %v, want [%d]", memberIDs, member.ID)
		}
	})

	t.Run("GetListAccess returns NotFound for missing list", func(t *testing.T) {
		_, _, err := store.GetListAccess(ctx, 99999)
		if !storage.IsNotFound(err) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})

	t.Run("UpdateList applies partial update", func(t *testing.T) {
		list, err := store.CreateList(ctx, owner.ID,
			storage.ListFields{Title: "Old", Description: "keep"}, nil, nil)
		if err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}

		title := "New"
		updated, err := store.UpdateList(ctx, list.ID, storage.ListUpdate{Title: &title})
		if err != nil {
			t.Fatalf("UpdateList failed: %v", err)
		}
		if updated.Title != "New" {
			t.Errorf("Title: got %s, want New", updated.Title)
		}
		if updated.Description != "keep" {
			t.Errorf("Description: got %s, want keep", updated.Description)
		}
	})

	t.Run("UpdateList returns NotFound for missing list", func(t *testing.T) {
		title := "x"
		_, err := store.UpdateList(ctx, 99999, storage.ListUpdate{Title: &title})
		if !storage.IsNotFound(err) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})

	t.Run("DeleteList returns snapshot and cascades", func(t *testing.T) {
		list, err := store.CreateList(ctx, owner.ID,
			storage.ListFields{Title: "Doomed", Description: "d"},
			[]storage.ItemFields{{Title: "Item", Amount: 1}},
			[]int64{member.ID},
		)
		if err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}

		snapshot, err := store.DeleteList(ctx, list.ID)
		if err != nil {
			t.Fatalf("DeleteList failed: %v", err)
		}
		if snapshot.Title != "Doomed" || len(snapshot.Items) != 1 || len(snapshot.Members) != 1 {
			t.Errorf("Snapshot incomplete: %+v", snapshot)
		}

		if _, err := store.GetList(ctx, list.ID); !storage.IsNotFound(err) {
			t.Errorf("Expected NotFoundError after delete, got %v", err)
		}
		count, err := store.CountListItems(ctx, list.ID)
		if err != nil {
			t.Fatalf("CountListItems failed: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected items to cascade, got %d", count)
		}
	})
}

func TestSQLiteStoreItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@example.com")
	list, err := store.CreateList(ctx, owner.ID,
		storage.ListFields{Title: "Groceries", Description: "d"}, nil, nil)
	if err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}

	t.Run("CreateListItem defaults to open", func(t *testing.T) {
		item, err := store.CreateListItem(ctx, list.ID, storage.ItemFields{Title: "Milk", Amount: 2})
		if err != nil {
			t.Fatalf("CreateListItem failed: %v", err)
		}
		if item.ID == 0 || item.ListID != list.ID {
			t.Errorf("Unexpected item identity: %+v", item)
		}
		if item.Status {
			t.Error("Expected new item to be open")
		}
	})

	t.Run("CreateListItem returns NotFound for missing list", func(t *testing.T) {
		_, err := store.CreateListItem(ctx, 99999, storage.ItemFields{Title: "x", Amount: 1})
		if !storage.IsNotFound(err) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})

	t.Run("UpdateListItem applies partial update", func(t *testing.T) {
		item, err := store.CreateListItem(ctx, list.ID, storage.ItemFields{Title: "Eggs", Amount: 6})
		if err != nil {
			t.Fatalf("CreateListItem failed: %v", err)
		}

		status := true
		updated, err := store.UpdateListItem(ctx, list.ID, item.ID, storage.ItemUpdate{Status: &status})
		if err != nil {
			t.Fatalf("UpdateListItem failed: %v", err)
		}
		if !updated.Status {
			t.Error("Expected item to be completed")
		}
		if updated.Title != "Eggs" || updated.Amount != 6 {
			t.Errorf("Unchanged fields were modified: %+v", updated)
		}
	})

	t.Run("UpdateListItem is scoped by list", func(t *testing.T) {
		other, err := store.CreateList(ctx, owner.ID,
			storage.ListFields{Title: "Other", Description: "d"}, nil, nil)
		if err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}
		item, err := store.CreateListItem(ctx, other.ID, storage.ItemFields{Title: "x", Amount: 1})
		if err != nil {
			t.Fatalf("CreateListItem failed: %v", err)
		}

		status := true
		_, err = store.UpdateListItem(ctx, list.ID, item.ID, storage.ItemUpdate{Status: &status})
		if !storage.IsNotFound(err) {
			t.Errorf("Expected NotFoundError for wrong list, got %v", err)
		}
	})

	t.Run("DeleteListItem returns snapshot", func(t *testing.T) {
		item, err := store.CreateListItem(ctx, list.ID, storage.ItemFields{Title: "Gone", Amount: 1})
		if err != nil {
			t.Fatalf("CreateListItem failed: %v", err)
		}

		snapshot, err := store.DeleteListItem(ctx, list.ID, item.ID)
		if err != nil {
			t.Fatalf("DeleteListItem failed: %v", err)
		}
		if snapshot.Title != "Gone" {
			t.Errorf("Snapshot title: got %s, want Gone", snapshot.Title)
		}

		_, err = store.DeleteListItem(ctx, list.ID, item.ID)
		if !storage.IsNotFound(err) {
			t.Errorf("Expected NotFoundError for double delete, got %v", err)
		}
	})
}

func TestSQLiteStoreMembers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@example.com")
	alice := createTestUser(t, store, "alice@example.com")
	bob := createTestUser(t, store, "bob@example.com")

	list, err := store.CreateList(ctx, owner.ID,
		storage.ListFields{Title: "Shared", Description: "d"}, nil, nil)
	if err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}

	t.Run("AddMembers skips duplicates", func(t *testing.T) {
		if err := store.AddMembers(ctx, list.ID, []int64{alice.ID, bob.ID}); err != nil {
			t.Fatalf("AddMembers failed: %v", err)
		}
		// Second add of the same pair must be a no-op, not an error.
		if err := store.AddMembers(ctx, list.ID, []int64{alice.ID}); err != nil {
			t.Fatalf("AddMembers (duplicate) failed: %v", err)
		}

		members, err := store.ListMembers(ctx, list.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 2 {
			t.Errorf("Members: got %d, want 2", len(members))
		}
	})

	t.Run("RemoveMember returns removed projection", func(t *testing.T) {
		removed, err := store.RemoveMember(ctx, list.ID, alice.ID)
		if err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		if removed.ID != alice.ID {
			t.Errorf("Removed: got %d, want %d", removed.ID, alice.ID)
		}
		if removed.PasswordHash != "" {
			t.Error("Removed projection must not carry a credential")
		}
	})

	t.Run("RemoveMember returns NotFound for missing pair", func(t *testing.T) {
		_, err := store.RemoveMember(ctx, list.ID, alice.ID)
		if !storage.IsNotFound(err) {
			t.Errorf("Expected NotFoundError, got %v", err)
		}
	})
}

func TestCountAndListLists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@example.com")
	member := createTestUser(t, store, "member@example.com")
	stranger := createTestUser(t, store, "stranger@example.com")

	// Owned active list, owned history list (no items), and a list the
	// member only belongs to.
	active, err := store.CreateList(ctx, owner.ID,
		storage.ListFields{Title: "Active", Description: "d"},
		[]storage.ItemFields{{Title: "Open", Amount: 1}}, nil)
	if err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}
	if _, err := store.CreateList(ctx, owner.ID,
		storage.ListFields{Title: "Empty", Description: "d"}, nil, nil); err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}
	shared, err := store.CreateList(ctx, stranger.ID,
		storage.ListFields{Title: "Shared", Description: "d"}, nil, []int64{member.ID})
	if err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}

	t.Run("ScopeNone matches everything", func(t *testing.T) {
		count, lists, err := store.CountAndListLists(ctx, storage.ListQuery{Scope: storage.ScopeNone})
		if err != nil {
			t.Fatalf("CountAndListLists failed: %v", err)
		}
		if count != 3 || len(lists) != 3 {
			t.Errorf("Got count=%d len=%d, want 3/3", count, len(lists))
		}
	})

	t.Run("ScopeOwned matches owner rows only", func(t *testing.T) {
		count, _, err := store.CountAndListLists(ctx, storage.ListQuery{
			Scope: storage.ScopeOwned, UserID: owner.ID,
		})
		if err != nil {
			t.Fatalf("CountAndListLists failed: %v", err)
		}
		if count != 2 {
			t.Errorf("Count: got %d, want 2", count)
		}
	})

	t.Run("ScopeMember matches membership rows only", func(t *testing.T) {
		count, lists, err := store.CountAndListLists(ctx, storage.ListQuery{
			Scope: storage.ScopeMember, UserID: member.ID,
		})
		if err != nil {
			t.Fatalf("CountAndListLists failed: %v", err)
		}
		if count != 1 || lists[0].ID != shared.ID {
			t.Errorf("Got count=%d, want 1 (shared list)", count)
		}
	})

	t.Run("ScopeAccessor matches owned or member rows", func(t *testing.T) {
		count, _, err := store.CountAndListLists(ctx, storage.ListQuery{
			Scope: storage.ScopeAccessor, UserID: member.ID,
		})
		if err != nil {
			t.Fatalf("CountAndListLists failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Count: got %d, want 1", count)
		}
	})

	t.Run("Activity partitions active and history", func(t *testing.T) {
		count, lists, err := store.CountAndListLists(ctx, storage.ListQuery{
			Scope: storage.ScopeNone, Activity: storage.ActivityActive,
		})
		if err != nil {
			t.Fatalf("CountAndListLists failed: %v", err)
		}
		if count != 1 || lists[0].ID != active.ID {
			t.Errorf("Active: got count=%d, want 1", count)
		}

		count, _, err = store.CountAndListLists(ctx, storage.ListQuery{
			Scope: storage.ScopeNone, Activity: storage.ActivityHistory,
		})
		if err != nil {
			t.Fatalf("CountAndListLists failed: %v", err)
		}
		// The empty list and the shared list have no open items.
		if count != 2 {
			t.Errorf("History: got count=%d, want 2", count)
		}
	})

	t.Run("Completing the only open item moves a list to history", func(t *testing.T) {
		status := true
		if _, err := store.UpdateListItem(ctx, active.ID, active.Items[0].ID,
			storage.ItemUpdate{Status: &status}); err != nil {
			t.Fatalf("UpdateListItem failed: %v", err)
		}

		count, _, err := store.CountAndListLists(ctx, storage.ListQuery{
			Scope: storage.ScopeNone, Activity: storage.ActivityActive,
		})
		if err != nil {
			t.Fatalf("CountAndListLists failed: %v", err)
		}
		if count != 0 {
			t.Errorf("Active after completion: got %d, want 0", count)
		}

		// Reopen for later subtests.
		status = false
		if _, err := store.UpdateListItem(ctx, active.ID, active.Items[0].ID,
			storage.ItemUpdate{Status: &status}); err != nil {
			t.Fatalf("UpdateListItem failed: %v", err)
		}
	})

	t.Run("Count reflects all rows regardless of page", func(t *testing.T) {
		pager := newTestStore(t)
		pageOwner := createTestUser(t, pager, "pager@example.com")
		for i := 0; i < 15; i++ {
			if _, err := pager.CreateList(ctx, pageOwner.ID,
				storage.ListFields{Title: fmt.Sprintf("List %02d", i), Description: "d"}, nil, nil); err != nil {
				t.Fatalf("CreateList failed: %v", err)
			}
		}

		count, lists, err := pager.CountAndListLists(ctx, storage.ListQuery{
			Scope: storage.ScopeNone,
			Page:  &storage.Page{Limit: 10, Page: 2},
		})
		if err != nil {
			t.Fatalf("CountAndListLists failed: %v", err)
		}
		if count != 15 {
			t.Errorf("Count: got %d, want 15", count)
		}
		if len(lists) != 5 {
			t.Errorf("Page 2 size: got %d, want 5", len(lists))
		}
	})
}
