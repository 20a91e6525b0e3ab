package inmem

import (
	"context"
	"errors"
	"testing"

	"github.com/skybi/user-service/internal/user"
)

func newRepository(t *testing.T) user.Repository {
	t.Helper()
	driver := New()
	if err := driver.Initialize(context.Background()); err != nil {
		t.Fatalf("could not initialize driver: %v", err)
	}
	t.Cleanup(driver.Close)
	return driver.Users()
}

func mustCreate(t *testing.T, repo user.Repository, name, email string) *user.User {
	t.Helper()
	obj, err := repo.Create(context.Background(), &user.Create{
		Name:         name,
		Age:          30,
		Email:        email,
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("could not create user %s: %v", name, err)
	}
	return obj
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)

	created := mustCreate(t, repo, "Ann", " Ann@Example.com ")
	if created.ID == "" || created.Email != "ann@example.com" || created.Roles != user.DefaultRoles {
		t.Fatalf("unexpected user %+v", created)
	}

	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil || byID == nil || byID.Name != "Ann" {
		t.Fatalf("GetByID = %+v, %v", byID, err)
	}
	byEmail, err := repo.GetByEmail(ctx, "ANN@example.com")
	if err != nil || byEmail == nil || byEmail.ID != created.ID {
		t.Fatalf("GetByEmail = %+v, %v", byEmail, err)
	}

	missing, err := repo.GetByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for unknown id, got %+v, %v", missing, err)
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	repo := newRepository(t)
	mustCreate(t, repo, "Ann", "ann@example.com")

	_, err := repo.Create(context.Background(), &user.Create{Name: "Other", Age: 1, Email: "ANN@example.com"})
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestListKeepsCreationOrder(t *testing.T) {
	repo := newRepository(t)
	var want []string
	for _, name := range []string{"Zed", "Ann", "Mia", "Bob"} {
		want = append(want, mustCreate(t, repo, name, name+"@example.com").ID)
	}

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != len(want) {
		t.Fatalf("got %d users, want %d", len(users), len(want))
	}
	for i := range want {
		if users[i].ID != want[i] {
			t.Fatalf("user %d = %s, want %s", i, users[i].ID, want[i])
		}
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	ann := mustCreate(t, repo, "Ann", "ann@example.com")
	bob := mustCreate(t, repo, "Bob", "bob@example.com")

	name := "Anna"
	roles := user.EmptyRoleSet.With(user.RoleAdmin, user.RoleUser)
	updated, err := repo.Update(ctx, ann.ID, &user.Update{Name: &name, Roles: &roles})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Anna" || updated.Roles != "User,Admin" || updated.Email != "ann@example.com" {
		t.Fatalf("unexpected user %+v", updated)
	}

	// Order must not change on update
	users, _ := repo.List(ctx)
	if users[0].ID != ann.ID || users[1].ID != bob.ID {
		t.Fatal("update changed the creation order")
	}

	taken := "bob@example.com"
	if _, err := repo.Update(ctx, ann.ID, &user.Update{Email: &taken}); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	free := "anna@example.com"
	if _, err := repo.Update(ctx, ann.ID, &user.Update{Email: &free}); err != nil {
		t.Fatal(err)
	}
	if old, _ := repo.GetByEmail(ctx, "ann@example.com"); old != nil {
		t.Fatal("old email is still indexed")
	}

	missing, err := repo.Update(ctx, "nope", &user.Update{Name: &name})
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for unknown id, got %+v, %v", missing, err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	ann := mustCreate(t, repo, "Ann", "ann@example.com")

	if err := repo.Delete(ctx, ann.ID); err != nil {
		t.Fatal(err)
	}
	if obj, _ := repo.GetByID(ctx, ann.ID); obj != nil {
		t.Fatal("user still exists after delete")
	}
	if err := repo.Delete(ctx, ann.ID); err != nil {
		t.Fatalf("deleting a missing user should not fail, got %v", err)
	}

	// The email address is free again
	mustCreate(t, repo, "Ann", "ann@example.com")
}

func TestReturnedUsersAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	ann := mustCreate(t, repo, "Ann", "ann@example.com")

	ann.Name = "mutated"
	stored, _ := repo.GetByID(ctx, ann.ID)
	if stored.Name != "Ann" {
		t.Fatal("mutating a returned user changed the stored one")
	}
}
