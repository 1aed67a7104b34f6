package db

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrInvalidRating is returned for NaN or infinite ratings, which SQLite would store as NULL.
var ErrInvalidRating = errors.New("rating must be a finite number")

//go:embed schema.sql
var schemaSQL string

const selectMedia = `
	SELECT id, title, filename, rating_a, rating_b, watched_a, watched_b, link
	FROM movies`

// Store provides read-write access to the catalog SQLite database.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "cinedex", "cinedex.sqlite")
}

// Open opens (creating if needed) the database and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection serializes every statement; the store has no other locking.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a record and returns its id. No filename uniqueness check is made.
func (s *Store) Create(m NewMedia) (int64, error) {
	if err := checkRatings(&m.RatingA, &m.RatingB); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`
		INSERT INTO movies (title, filename, rating_a, rating_b, watched_a, watched_b, link)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.Title, m.Filename, m.RatingA, m.RatingB, boolToInt(m.WatchedA), boolToInt(m.WatchedB), m.Link)
	if err != nil {
		return 0, fmt.Errorf("insert media: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert media id: %w", err)
	}
	return id, nil
}

// Update writes only the fields set in e. An empty edit or an unknown id is a no-op.
func (s *Store) Update(id int64, e Edit) error {
	if e.IsEmpty() {
		return nil
	}
	if err := checkRatings(e.RatingA, e.RatingB); err != nil {
		return err
	}

	var sets []string
	var args []any
	if e.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *e.Title)
	}
	if e.RatingA != nil {
		sets = append(sets, "rating_a = ?")
		args = append(args, *e.RatingA)
	}
	if e.RatingB != nil {
		sets = append(sets, "rating_b = ?")
		args = append(args, *e.RatingB)
	}
	if e.WatchedA != nil {
		sets = append(sets, "watched_a = ?")
		args = append(args, boolToInt(*e.WatchedA))
	}
	if e.WatchedB != nil {
		sets = append(sets, "watched_b = ?")
		args = append(args, boolToInt(*e.WatchedB))
	}
	if e.Link != nil {
		sets = append(sets, "link = ?")
		args = append(args, *e.Link)
	}
	args = append(args, id)

	query := "UPDATE movies SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("update media %d: %w", id, err)
	}
	return nil
}

// List returns every record in the requested order.
func (s *Store) List(sort Sort) ([]Media, error) {
	orderBy, err := sort.orderBy()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(selectMedia + " " + orderBy)
	if err != nil {
		return nil, fmt.Errorf("query media: %w", err)
	}
	defer rows.Close()

	var media []Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

// GetByID returns the record with the given id, or nil if there is none.
func (s *Store) GetByID(id int64) (*Media, error) {
	return s.getOne(selectMedia+" WHERE id = ?", id)
}

// GetByFilename returns the oldest record with the given filename, or nil if there is none.
func (s *Store) GetByFilename(filename string) (*Media, error) {
	return s.getOne(selectMedia+" WHERE filename = ? ORDER BY id ASC LIMIT 1", filename)
}

func (s *Store) getOne(query string, args ...any) (*Media, error) {
	m, err := scanMedia(s.db.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Delete removes the record if present. Files on disk are never touched.
func (s *Store) Delete(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM movies WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete media %d: %w", id, err)
	}
	return nil
}

// Count returns the number of records.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count media: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedia(r rowScanner) (Media, error) {
	var m Media
	var ratingA, ratingB sql.NullFloat64
	var watchedA, watchedB sql.NullInt64
	var link sql.NullString

	if err := r.Scan(&m.ID, &m.Title, &m.Filename, &ratingA, &ratingB,
		&watchedA, &watchedB, &link); err != nil {
		if err == sql.ErrNoRows {
			return m, err
		}
		return m, fmt.Errorf("scan media: %w", err)
	}

	m.RatingA = ratingA.Float64
	m.RatingB = ratingB.Float64
	m.WatchedA = watchedA.Int64 != 0
	m.WatchedB = watchedB.Int64 != 0
	if link.Valid {
		m.Link = link.String
	}
	return m, nil
}

func checkRatings(ratings ...*float64) error {
	for _, r := range ratings {
		if r != nil && (math.IsNaN(*r) || math.IsInf(*r, 0)) {
			return fmt.Errorf("%w: %v", ErrInvalidRating, *r)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
