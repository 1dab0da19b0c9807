package db

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("artifact not found")

// DB is a SQLite database holding serialized fitted artifacts.
type DB struct {
	database *sql.DB
}

// ArtifactInfo describes a stored artifact without its payload.
type ArtifactInfo struct {
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	database, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database failed: %w", err)
	}

	query := `
    CREATE TABLE IF NOT EXISTS artifacts (
        name TEXT PRIMARY KEY,
        payload BLOB NOT NULL,
        checksum TEXT NOT NULL,
        updated_at DATETIME NOT NULL
    );
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, fmt.Errorf("create schema failed: %w", err)
	}
	return &DB{database: database}, nil
}

func (d *DB) Close() error {
	if d == nil || d.database == nil {
		return nil
	}
	return d.database.Close()
}

// SaveArtifact inserts or replaces the named artifact.
func (d *DB) SaveArtifact(ctx context.Context, name string, payload []byte) error {
	if name == "" {
		return errors.New("artifact name required")
	}
	if len(payload) == 0 {
		return fmt.Errorf("artifact %s: empty payload", name)
	}
	sum := sha256.Sum256(payload)
	_, err := d.database.ExecContext(ctx, `
        INSERT OR REPLACE INTO artifacts (name, payload, checksum, updated_at)
        VALUES (?, ?, ?, ?)`,
		name, payload, hex.EncodeToString(sum[:]), time.Now().UTC())
	return err
}

// LoadArtifact returns the payload of the named artifact after verifying its
// checksum.
func (d *DB) LoadArtifact(ctx context.Context, name string) ([]byte, error) {
	var payload []byte
	var checksum string
	err := d.database.QueryRowContext(ctx, `
        SELECT payload, checksum
        FROM artifacts
        WHERE name = ?`, name).Scan(&payload, &checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(payload)
	if hex.EncodeToString(sum[:]) != checksum {
		return nil, fmt.Errorf("artifact %s: checksum mismatch", name)
	}
	return payload, nil
}

func (d *DB) ListArtifacts(ctx context.Context) ([]ArtifactInfo, error) {
	rows, err := d.database.QueryContext(ctx, `
        SELECT name, length(payload), checksum, updated_at
        FROM artifacts
        ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	infos := make([]ArtifactInfo, 0)
	for rows.Next() {
		var info ArtifactInfo
		if err := rows.Scan(&info.Name, &info.Size, &info.Checksum, &info.UpdatedAt); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
