package auth

import (
	"context"
	"testing"
)

func TestSeedAdmin_FirstBoot(t *testing.T) {
	store := NewIdentityStore(testDB(t))
	ctx := context.Background()

	password, err := SeedAdmin(ctx, store, discardLogger())
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}
	if password == "" {
		t.Fatal("SeedAdmin() should generate a password on first boot")
	}

	cred, err := store.StaffByUsername(ctx, "admin@school.local")
	if err != nil {
		t.Fatalf("StaffByUsername() error = %v", err)
	}
	if cred == nil {
		t.Fatal("seed admin should exist in the teachers table")
	}
	if cred.Role != string(RoleAdmin) {
		t.Errorf("Role = %q, want %q", cred.Role, RoleAdmin)
	}
	if !VerifyPassword(password, cred.PasswordHash, cred.PasswordSalt) {
		t.Error("generated password should verify against the stored hash")
	}
}

func TestSeedAdmin_SkipsWhenIdentitiesExist(t *testing.T) {
	store := NewIdentityStore(testDB(t))
	ctx := context.Background()

	if err := store.CreateStudent(ctx, NewIdentity{Email: "s@school.local", DisplayName: "S"}); err != nil {
		t.Fatalf("CreateStudent() error = %v", err)
	}

	password, err := SeedAdmin(ctx, store, discardLogger())
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}
	if password != "" {
		t.Error("SeedAdmin() should skip when identities already exist")
	}

	cred, err := store.StaffByUsername(ctx, "admin@school.local")
	if err != nil {
		t.Fatalf("StaffByUsername() error = %v", err)
	}
	if cred != nil {
		t.Error("no seed admin should be created when identities exist")
	}
}

func TestSeedAdmin_IdempotentAcrossBoots(t *testing.T) {
	store := NewIdentityStore(testDB(t))
	ctx := context.Background()

	first, err := SeedAdmin(ctx, store, discardLogger())
	if err != nil {
		t.Fatalf("SeedAdmin() first boot error = %v", err)
	}
	if first == "" {
		t.Fatal("first boot should seed")
	}

	second, err := SeedAdmin(ctx, store, discardLogger())
	if err != nil {
		t.Fatalf("SeedAdmin() second boot error = %v", err)
	}
	if second != "" {
		t.Error("second boot should not reseed")
	}
}
