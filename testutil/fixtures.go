package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

const studentsSchema = `
CREATE TABLE IF NOT EXISTS students (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	major TEXT NOT NULL,
	year INTEGER NOT NULL,
	cgpa REAL NOT NULL
)`

const carsSchema = `
CREATE TABLE IF NOT EXISTS cars (
	vin TEXT PRIMARY KEY,
	make TEXT NOT NULL,
	model TEXT NOT NULL,
	year INTEGER NOT NULL
)`

// StudentRow is a row of the students fixture
type StudentRow struct {
	ID    string
	Name  string
	Major string
	Year  int
	CGPA  float64
}

// CarRow is a row of the cars fixture
type CarRow struct {
	VIN   string
	Make  string
	Model string
	Year  int
}

// SampleStudents are inserted by CreateStudentsFixture
var SampleStudents = []StudentRow{
	{ID: "2023428", Name: "Haris", Major: "BSCS", Year: 2023, CGPA: 3.26},
	{ID: "2022101", Name: "Ayesha Khan", Major: "BSEE", Year: 2022, CGPA: 3.71},
}

// SampleCars are inserted by CreateCarsFixture
var SampleCars = []CarRow{
	{VIN: "1HGCM82633A004352", Make: "Honda", Model: "Accord", Year: 2003},
}

// OpenFixtureDB opens a SQLite file and closes it when the test ends
func OpenFixtureDB(t *testing.T, dbPath string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateStudentsFixture creates a students database with sample rows and returns its path
func CreateStudentsFixture(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(CreateTempDir(t), "students.db")
	db := OpenFixtureDB(t, dbPath)

	if _, err := db.Exec(studentsSchema); err != nil {
		t.Fatalf("Failed to create students table: %v", err)
	}
	for _, s := range SampleStudents {
		InsertStudent(t, db, s)
	}
	return dbPath
}

// CreateCarsFixture creates a cars database with sample rows and returns its path
func CreateCarsFixture(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(CreateTempDir(t), "auto_db.sqlite")
	db := OpenFixtureDB(t, dbPath)

	if _, err := db.Exec(carsSchema); err != nil {
		t.Fatalf("Failed to create cars table: %v", err)
	}
	for _, c := range SampleCars {
		InsertCar(t, db, c)
	}
	return dbPath
}

// InsertStudent inserts a student row
func InsertStudent(t *testing.T, db *sql.DB, s StudentRow) {
	t.Helper()
	insertSQL := "INSERT INTO students (id, name, major, year, cgpa) VALUES (?, ?, ?, ?, ?)"
	if _, err := db.Exec(insertSQL, s.ID, s.Name, s.Major, s.Year, s.CGPA); err != nil {
		t.Fatalf("Failed to insert student: %v", err)
	}
}

// InsertCar inserts a car row
func InsertCar(t *testing.T, db *sql.DB, c CarRow) {
	t.Helper()
	insertSQL := "INSERT INTO cars (vin, make, model, year) VALUES (?, ?, ?, ?)"
	if _, err := db.Exec(insertSQL, c.VIN, c.Make, c.Model, c.Year); err != nil {
		t.Fatalf("Failed to insert car: %v", err)
	}
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
