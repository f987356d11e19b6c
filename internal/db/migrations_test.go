package db

import (
	"strings"
	"testing"
)

func TestMigrationsOrdered(t *testing.T) {
	migrations, err := Migrations()
	if err != nil {
		t.Fatalf("Migrations() error = %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected embedded migrations")
	}

	for i := 1; i < len(migrations); i++ {
		if migrations[i-1].Version >= migrations[i].Version {
			t.Errorf("migration %q is not before %q", migrations[i-1].Version, migrations[i].Version)
		}
	}

	if !strings.Contains(migrations[0].SQL, "CREATE TABLE") {
		t.Errorf("first migration should create tables")
	}
}
