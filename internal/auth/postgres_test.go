package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreFindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "display_name", "created_at", "updated_at"}).
		AddRow("user-1", "a@x.com", "$2a$10$hash", "Ada", now, now)
	mock.ExpectQuery("select id, email, password_hash, display_name, created_at, updated_at.*from users where email").
		WithArgs("a@x.com").
		WillReturnRows(rows)

	store := NewPGStore(db)
	user, err := store.FindByEmail(context.Background(), "  A@X.com ")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if user.ID != "user-1" || user.PasswordHash != "$2a$10$hash" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreFindByEmailNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select id, email, password_hash, display_name, created_at, updated_at.*from users where email").
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "display_name", "created_at", "updated_at"}))

	store := NewPGStore(db)
	if _, err := store.FindByEmail(context.Background(), "nobody@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStoreCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("insert into users").
		WithArgs(sqlmock.AnyArg(), "a@x.com", "$2a$10$hash", "Ada").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	store := NewPGStore(db)
	user := &User{Email: "A@X.com", PasswordHash: "$2a$10$hash", DisplayName: "Ada"}
	if err := store.Create(context.Background(), user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated id")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be populated")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
