package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rizwanu321/BillMate24-sub000/internal/core"
)

func TestShopkeeper_RegisterAndAuthenticate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	shopkeepers := core.NewShopkeeperService(pool)

	sk, err := shopkeepers.Register(ctx, "owner@corner.shop", "Asha", "Corner Shop", "s3cret-pass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if sk.PasswordHash == "s3cret-pass" {
		t.Fatal("password stored in plain text")
	}

	got, err := shopkeepers.Authenticate(ctx, "owner@corner.shop", "s3cret-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != sk.ID {
		t.Errorf("authenticated id = %d, want %d", got.ID, sk.ID)
	}

	if _, err := shopkeepers.Authenticate(ctx, "owner@corner.shop", "wrong"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := shopkeepers.Authenticate(ctx, "nobody@corner.shop", "s3cret-pass"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}

	if _, err := shopkeepers.Register(ctx, "owner@corner.shop", "Asha", "Corner Shop", "another-pass"); !errors.Is(err, core.ErrDuplicateEmail) {
		t.Errorf("re-register: got %v, want ErrDuplicateEmail", err)
	}
	if _, err := shopkeepers.Register(ctx, "short@corner.shop", "Asha", "Corner Shop", "short"); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("short password: got %v, want ErrInvalidInput", err)
	}
}
