// Package sqlite implements the student and car stores on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iksnae/voice-desk/internal"
	"github.com/iksnae/voice-desk/internal/store"
	"github.com/rs/zerolog/log"
)

const studentsSchema = `
CREATE TABLE IF NOT EXISTS students (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	major TEXT NOT NULL,
	year INTEGER NOT NULL,
	cgpa REAL NOT NULL
)`

// SeedStudent is inserted into an empty students table.
var SeedStudent = store.Student{ID: "2023428", Name: "Haris", Major: "BSCS", Year: 2023, CGPA: 3.26}

// StudentStore implements store.StudentStore.
type StudentStore struct {
	db   *sql.DB
	path string
}

var _ store.StudentStore = (*StudentStore)(nil)

// NewStudentStore creates the students table if needed and seeds it once.
func NewStudentStore(db *sql.DB, path string) (*StudentStore, error) {
	s := &StudentStore{db: db, path: path}
	if err := internal.Migrate(db, studentsSchema); err != nil {
		return nil, &internal.StorageError{Path: path, Op: "migrate", Err: err}
	}

	n, err := internal.TableCount(db, "students")
	if err != nil {
		return nil, &internal.StorageError{Path: path, Op: "query", Err: err}
	}
	if n == 0 {
		if err := s.Add(context.Background(), SeedStudent); err != nil {
			return nil, err
		}
		log.Debug().Str("path", path).Str("id", SeedStudent.ID).Msg("Seeded students table")
	}
	return s, nil
}

// GetByID returns the student with id.
func (s *StudentStore) GetByID(ctx context.Context, id string) (store.Student, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, major, year, cgpa FROM students WHERE id = ?", strings.TrimSpace(id))
	return s.scan(row)
}

// GetByName returns the first student whose name matches case-insensitively.
func (s *StudentStore) GetByName(ctx context.Context, name string) (store.Student, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, major, year, cgpa FROM students WHERE LOWER(name) = LOWER(?) ORDER BY id LIMIT 1",
		strings.TrimSpace(name))
	return s.scan(row)
}

func (s *StudentStore) scan(row *sql.Row) (store.Student, error) {
	var st store.Student
	if err := row.Scan(&st.ID, &st.Name, &st.Major, &st.Year, &st.CGPA); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Student{}, store.ErrNotFound
		}
		return store.Student{}, &internal.StorageError{Path: s.path, Op: "query", Err: err}
	}
	return st, nil
}

// Add inserts a new student. The record is validated before any write and an
// existing id yields store.ErrAlreadyExists without touching the table.
func (s *StudentStore) Add(ctx context.Context, st store.Student) error {
	if err := st.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &internal.StorageError{Path: s.path, Op: "insert", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM students WHERE id = ?", st.ID).Scan(&exists)
	if err != nil {
		return &internal.StorageError{Path: s.path, Op: "query", Err: err}
	}
	if exists > 0 {
		return fmt.Errorf("student %s: %w", st.ID, store.ErrAlreadyExists)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO students (id, name, major, year, cgpa) VALUES (?, ?, ?, ?, ?)",
		st.ID, st.Name, st.Major, st.Year, st.CGPA)
	if err != nil {
		return &internal.StorageError{Path: s.path, Op: "insert", Err: err}
	}
	return tx.Commit()
}

// List returns every student ordered by id.
func (s *StudentStore) List(ctx context.Context) ([]store.Student, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, major, year, cgpa FROM students ORDER BY id")
	if err != nil {
		return nil, &internal.StorageError{Path: s.path, Op: "query", Err: err}
	}
	defer rows.Close()

	var students []store.Student
	for rows.Next() {
		var st store.Student
		if err := rows.Scan(&st.ID, &st.Name, &st.Major, &st.Year, &st.CGPA); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return students, nil
}
