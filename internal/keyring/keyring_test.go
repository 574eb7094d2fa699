package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestConnectionStringLifecycle(t *testing.T) {
	gokeyring.MockInit()

	household := "postgresql://tandem@db.home.lan:5432/household?sslmode=require"
	if err := SetConnectionString(household); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != household {
		t.Errorf("GetConnectionString() = %q, want %q", got, household)
	}

	// Pointing at a new household database replaces the old entry.
	moved := "postgresql://tandem@db.home.lan:5432/household_new"
	if err := SetConnectionString(moved); err != nil {
		t.Fatalf("replacing connection string failed: %v", err)
	}
	got, err = GetConnectionString()
	if err != nil {
		t.Fatal(err)
	}
	if got != moved {
		t.Errorf("after replacement GetConnectionString() = %q, want %q", got, moved)
	}

	// Deleting returns the CLI to the local database on the next run.
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("after delete GetConnectionString() error = %v, want ErrNoCredentials", err)
	}
}

func TestEmptyConnectionStringRejected(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestMissingEntryReportsNoCredentials(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteConnectionString()

	if _, err := GetConnectionString(); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("GetConnectionString() error = %v, want ErrNoCredentials", err)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("DeleteConnectionString() error = %v, want ErrNoCredentials", err)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true with the mock backend")
	}
}
