package internal

import (
	"path/filepath"
	"testing"

	"github.com/iksnae/voice-desk/testutil"
)

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "new file",
			path: func(t *testing.T) string {
				return filepath.Join(testutil.CreateTempDir(t), "nested", "students.db")
			},
			wantErr: false,
		},
		{
			name: "existing fixture",
			path: func(t *testing.T) string {
				return testutil.CreateStudentsFixture(t)
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := OpenDatabase(tt.path(t))
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenDatabase() error = %v, wantErr %v", err, tt.wantErr)
			}
			if db == nil {
				t.Fatal("OpenDatabase() returned nil database")
			}
			defer db.Close()
			if err := db.Ping(); err != nil {
				t.Errorf("Database ping failed: %v", err)
			}
		})
	}
}

func TestMigrateAndCount(t *testing.T) {
	db, err := OpenDatabase(filepath.Join(testutil.CreateTempDir(t), "cars.db"))
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	err = Migrate(db,
		"CREATE TABLE IF NOT EXISTS cars (vin TEXT PRIMARY KEY, make TEXT, model TEXT, year INTEGER)",
		"INSERT INTO cars (vin, make, model, year) VALUES ('V1', 'Honda', 'Civic', 2020)",
	)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	n, err := TableCount(db, "cars")
	if err != nil {
		t.Fatalf("TableCount() error = %v", err)
	}
	if n != 1 {
		t.Errorf("TableCount() = %d, want 1", n)
	}

	if err := Migrate(db, "NOT SQL"); err == nil {
		t.Error("Migrate() should fail on invalid SQL")
	}
}
