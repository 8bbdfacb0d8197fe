package animation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-animator/pkg/geometry"
)

// SQLiteSink stores keyframes in a SQLite table, one row per (agent, frame).
type SQLiteSink struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the keyframe database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSink, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: every write is its own transaction and ":memory:" stays a single database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteSink{path: path, db: db}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS keyframes (
			agent_id TEXT NOT NULL,
			frame    INTEGER NOT NULL,
			pos_x    REAL NOT NULL,
			pos_y    REAL NOT NULL,
			pos_z    REAL NOT NULL,
			rot_x    REAL NOT NULL,
			rot_y    REAL NOT NULL,
			rot_z    REAL NOT NULL,
			PRIMARY KEY (agent_id, frame)
		)
	`)
	if err != nil {
		return fmt.Errorf("create keyframes table: %w", err)
	}
	return nil
}

func (s *SQLiteSink) RecordPose(id behavior.AgentID, frame int, pose behavior.Pose) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	p, o := pose.Position, pose.Orientation
	_, err = db.ExecContext(context.Background(), `
		INSERT INTO keyframes (agent_id, frame, pos_x, pos_y, pos_z, rot_x, rot_y, rot_z)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(agent_id, frame) DO UPDATE SET
			pos_x = excluded.pos_x,
			pos_y = excluded.pos_y,
			pos_z = excluded.pos_z,
			rot_x = excluded.rot_x,
			rot_y = excluded.rot_y,
			rot_z = excluded.rot_z
	`, string(id), frame, p.X, p.Y, p.Z, o.X, o.Y, o.Z)
	return err
}

func (s *SQLiteSink) ClearRecorded(id behavior.AgentID) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(context.Background(), `DELETE FROM keyframes WHERE agent_id = ?`, string(id))
	return err
}

// Keyframes returns the track of id ordered by frame.
func (s *SQLiteSink) Keyframes(ctx context.Context, id behavior.AgentID) ([]Keyframe, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT frame, pos_x, pos_y, pos_z, rot_x, rot_y, rot_z
		FROM keyframes WHERE agent_id = ? ORDER BY frame
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var track []Keyframe
	for rows.Next() {
		var (
			frame int
			p, o  geometry.Vector3
		)
		if err := rows.Scan(&frame, &p.X, &p.Y, &p.Z, &o.X, &o.Y, &o.Z); err != nil {
			return nil, err
		}
		track = append(track, Keyframe{Agent: id, Frame: frame, Pose: behavior.Pose{Position: p, Orientation: o}})
	}
	return track, rows.Err()
}

// Count returns the number of stored keyframes.
func (s *SQLiteSink) Count(ctx context.Context) (int, error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM keyframes`).Scan(&n)
	return n, err
}

func (s *SQLiteSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteSink) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, errors.New("sqlite sink is closed")
	}
	return s.db, nil
}
