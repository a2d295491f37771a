package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iksnae/voice-desk/internal"
	"github.com/iksnae/voice-desk/internal/store"
)

const carsSchema = `
CREATE TABLE IF NOT EXISTS cars (
	vin TEXT PRIMARY KEY,
	make TEXT NOT NULL,
	model TEXT NOT NULL,
	year INTEGER NOT NULL
)`

// CarStore implements store.CarStore.
type CarStore struct {
	db   *sql.DB
	path string
}

var _ store.CarStore = (*CarStore)(nil)

// NewCarStore creates the cars table if needed.
func NewCarStore(db *sql.DB, path string) (*CarStore, error) {
	if err := internal.Migrate(db, carsSchema); err != nil {
		return nil, &internal.StorageError{Path: path, Op: "migrate", Err: err}
	}
	return &CarStore{db: db, path: path}, nil
}

// GetByVIN returns the car with vin.
func (s *CarStore) GetByVIN(ctx context.Context, vin string) (store.Car, error) {
	var c store.Car
	err := s.db.QueryRowContext(ctx,
		"SELECT vin, make, model, year FROM cars WHERE vin = ?", store.NormalizeVIN(vin)).
		Scan(&c.VIN, &c.Make, &c.Model, &c.Year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Car{}, store.ErrNotFound
		}
		return store.Car{}, &internal.StorageError{Path: s.path, Op: "query", Err: err}
	}
	return c, nil
}

// Create inserts a car; an existing VIN yields store.ErrAlreadyExists.
func (s *CarStore) Create(ctx context.Context, c store.Car) error {
	c.VIN = store.NormalizeVIN(c.VIN)
	if c.VIN == "" {
		return &store.ValidationError{Field: "vin", Message: "must not be empty"}
	}

	_, err := s.GetByVIN(ctx, c.VIN)
	switch {
	case err == nil:
		return fmt.Errorf("car %s: %w", c.VIN, store.ErrAlreadyExists)
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO cars (vin, make, model, year) VALUES (?, ?, ?, ?)",
		c.VIN, strings.TrimSpace(c.Make), strings.TrimSpace(c.Model), c.Year)
	if err != nil {
		return &internal.StorageError{Path: s.path, Op: "insert", Err: err}
	}
	return nil
}
