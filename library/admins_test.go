package library

import (
	"errors"
	"testing"
)

func TestAdministratorAuthentication(t *testing.T) {
	db := tempDB(t)

	if _, err := db.AddAdministrator("Ana", "ana", "segredo123"); err != nil {
		t.Fatalf("add administrator: %v", err)
	}
	if _, err := db.AddAdministrator("Other", "ana", "whatever"); !errors.Is(err, ErrDuplicateLogin) {
		t.Fatalf("want ErrDuplicateLogin, got %v", err)
	}

	admin, err := db.AuthenticateAdministrator("ana", "segredo123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if admin.Name != "Ana" {
		t.Fatalf("wrong administrator: %+v", admin)
	}
	// The stored secret is a hash, never the password itself.
	if admin.Secret == "segredo123" {
		t.Fatalf("password stored in clear")
	}

	if _, err := db.AuthenticateAdministrator("ana", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := db.AuthenticateAdministrator("nobody", "segredo123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials for unknown login, got %v", err)
	}
}

func TestEnsureDefaultAdmin(t *testing.T) {
	db := tempDB(t)

	if err := db.EnsureDefaultAdmin(); err != nil {
		t.Fatalf("ensure default admin: %v", err)
	}
	if _, err := db.AuthenticateAdministrator(DefaultAdminLogin, DefaultAdminPassword); err != nil {
		t.Fatalf("default admin must be able to sign in: %v", err)
	}

	// Idempotent: a second call must not duplicate or reset accounts.
	if err := db.EnsureDefaultAdmin(); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if n, err := db.count(`SELECT COUNT(*) FROM administrators`); err != nil || n != 1 {
		t.Fatalf("want exactly 1 administrator, got %d (%v)", n, err)
	}
}
