package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/pashagolub/pgxmock"
	"github.com/skybi/user-service/internal/user"
)

func newMockRepository(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("could not create the pool mock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mock.Close()
	})
	return &UserRepository{db: mock}, mock
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows(userColumns)
}

func TestListOrdersBySequence(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT user_id, name, age, email, password_hash, roles FROM users ORDER BY seq`).
		WillReturnRows(userRows().
			AddRow("a", "Ann", 30, "ann@example.com", "h1", "User").
			AddRow("b", "Bob", 25, "bob@example.com", "h2", "User,Admin"))

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 || users[0].ID != "a" || users[1].Roles != "User,Admin" {
		t.Fatalf("unexpected users %+v", users)
	}
}

func TestListEmpty(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FROM users ORDER BY seq`).WillReturnRows(userRows())

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", users)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FROM users WHERE user_id = \$1 LIMIT 1`).
		WithArgs("missing").
		WillReturnRows(userRows())

	obj, err := repo.GetByID(context.Background(), "missing")
	if err != nil || obj != nil {
		t.Fatalf("expected nil, nil; got %+v, %v", obj, err)
	}
}

func TestGetByEmailNormalizes(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FROM users WHERE email = \$1 LIMIT 1`).
		WithArgs("ann@example.com").
		WillReturnRows(userRows().AddRow("a", "Ann", 30, "ann@example.com", "h1", "User"))

	obj, err := repo.GetByEmail(context.Background(), "  ANN@example.com")
	if err != nil || obj == nil || obj.ID != "a" {
		t.Fatalf("GetByEmail = %+v, %v", obj, err)
	}
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`INSERT INTO users \(user_id,name,age,email,password_hash,roles\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6\)`).
		WithArgs(pgxmock.AnyArg(), "Ann", 30, "ann@example.com", "hash", "User").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	obj, err := repo.Create(context.Background(), &user.Create{
		Name:         "Ann",
		Age:          30,
		Email:        "Ann@Example.com",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if obj.ID == "" || obj.Email != "ann@example.com" || obj.Roles != user.DefaultRoles {
		t.Fatalf("unexpected user %+v", obj)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &user.Create{Name: "Ann", Age: 30, Email: "ann@example.com"})
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo, mock := newMockRepository(t)
	roles := user.EmptyRoleSet.With(user.RoleUser).With(user.RoleAdmin)
	name := "Annie"
	mock.ExpectExec(`UPDATE users SET name = \$1, roles = \$2 WHERE user_id = \$3`).
		WithArgs("Annie", "User,Admin", "a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`FROM users WHERE user_id = \$1 LIMIT 1`).
		WithArgs("a").
		WillReturnRows(userRows().AddRow("a", "Annie", 30, "ann@example.com", "h1", "User,Admin"))

	obj, err := repo.Update(context.Background(), "a", &user.Update{Name: &name, Roles: &roles})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if obj == nil || obj.Name != "Annie" || obj.Roles != "User,Admin" {
		t.Fatalf("unexpected user %+v", obj)
	}
}

func TestUpdateUnknownUser(t *testing.T) {
	repo, mock := newMockRepository(t)
	age := 40
	mock.ExpectExec(`UPDATE users SET age = \$1 WHERE user_id = \$2`).
		WithArgs(40, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	obj, err := repo.Update(context.Background(), "missing", &user.Update{Age: &age})
	if err != nil || obj != nil {
		t.Fatalf("expected nil, nil; got %+v, %v", obj, err)
	}
}

func TestUpdateEmailConflict(t *testing.T) {
	repo, mock := newMockRepository(t)
	email := "bob@example.com"
	mock.ExpectExec(`UPDATE users SET email = \$1 WHERE user_id = \$2`).
		WillReturnError(&pgconn.PgError{Code: codeUniqueViolation})

	_, err := repo.Update(context.Background(), "a", &user.Update{Email: &email})
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`DELETE FROM users WHERE user_id = \$1`).
		WithArgs("a").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
