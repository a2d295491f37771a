package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectDataDir_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DetectDataDir()
	if err != nil {
		t.Fatalf("DetectDataDir() error = %v", err)
	}
	want := filepath.Join(dir, "voice-desk")
	if got != want {
		t.Errorf("DetectDataDir() = %v, want %v", got, want)
	}
}

func TestDetectDataDir_Default(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")

	got, err := DetectDataDir()
	if err != nil {
		t.Fatalf("DetectDataDir() error = %v", err)
	}
	if got == "" {
		t.Error("DetectDataDir() should not return empty string")
	}
	if filepath.Base(got) != "voice-desk" && filepath.Base(got) != ".voice-desk" {
		t.Errorf("DetectDataDir() = %v, want a voice-desk directory", got)
	}
}

func TestDataPaths_Exists(t *testing.T) {
	dir := t.TempDir()
	paths := DataPaths{
		Dir:        dir,
		StudentsDB: filepath.Join(dir, "students.db"),
		CarsDB:     filepath.Join(dir, "auto_db.sqlite"),
	}

	if paths.StudentsDBExists() || paths.CarsDBExists() {
		t.Fatal("no database files should exist yet")
	}

	if err := os.WriteFile(paths.StudentsDB, []byte{}, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if !paths.StudentsDBExists() {
		t.Error("StudentsDBExists() = false after creating the file")
	}
	if paths.CarsDBExists() {
		t.Error("CarsDBExists() = true without a file")
	}
}
