/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package diag persists per-session usage counters to a local SQLite file
// so sketching sessions can be inspected after the fact. Recording is
// opt-in and entirely local.
package diag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	applog "inkboard/internal/log"
	"inkboard/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// schemaVersion tracks the local SQLite schema. Bump on breaking changes.
const schemaVersion = 1

// Session is one recorded sketching session.
type Session struct {
	ID         int64
	StartedAt  time.Time
	EndedAt    time.Time
	Events     uint64
	Filtered   uint64
	Strokes    int
	LivePoints int
	Images     int
	Zoom       float32
	Device     string
	AppVersion string
}

// Recorder writes and reads sessions from one SQLite database file.
type Recorder struct {
	db  *sql.DB
	log *slog.Logger
}

// Open creates the database file (and its parent directory) when missing,
// enables WAL mode, and ensures the schema exists.
func Open(path string) (*Recorder, error) {
	l := applog.WithComponent("diag").With(slog.String("path", path))
	if path == "" {
		return nil, errors.New("diagnostics db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create diag dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create diag dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("diagnostics db ready")
	return &Recorder{db: db, log: l}, nil
}

// Close releases the database handle.
func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at  TEXT NOT NULL,
			ended_at    TEXT NOT NULL,
			events      INTEGER NOT NULL,
			filtered    INTEGER NOT NULL,
			strokes     INTEGER NOT NULL,
			live_points INTEGER NOT NULL,
			images      INTEGER NOT NULL,
			zoom        REAL NOT NULL,
			device      TEXT NOT NULL DEFAULT '',
			app         TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES('schema', ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		fmt.Sprintf("%d", schemaVersion)); err != nil {
		return fmt.Errorf("seed schema version: %w", err)
	}
	return nil
}

// RecordSession inserts one finished session and returns its row id.
func (r *Recorder) RecordSession(ctx context.Context, s Session) (int64, error) {
	if s.AppVersion == "" {
		s.AppVersion = version.String()
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now().UTC()
	}
	if s.EndedAt.IsZero() {
		s.EndedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, events, filtered, strokes, live_points, images, zoom, device, app)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.StartedAt.UTC().Format(time.RFC3339), s.EndedAt.UTC().Format(time.RFC3339),
		int64(s.Events), int64(s.Filtered), s.Strokes, s.LivePoints, s.Images,
		float64(s.Zoom), s.Device, s.AppVersion)
	if err != nil {
		r.log.Error("record session failed", slog.Any("err", err))
		return 0, fmt.Errorf("record session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session id: %w", err)
	}
	r.log.Info("session recorded", slog.Int64("id", id), slog.Uint64("events", s.Events))
	return id, nil
}

// RecentSessions returns up to limit sessions, newest first.
func (r *Recorder) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at, events, filtered, strokes, live_points, images, zoom, device, app
		 FROM sessions ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Session
	for rows.Next() {
		var (
			s                Session
			started, ended   string
			events, filtered int64
			zoom             float64
		)
		if err := rows.Scan(&s.ID, &started, &ended, &events, &filtered,
			&s.Strokes, &s.LivePoints, &s.Images, &zoom, &s.Device, &s.AppVersion); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.StartedAt, _ = time.Parse(time.RFC3339, started)
		s.EndedAt, _ = time.Parse(time.RFC3339, ended)
		s.Events = uint64(events)
		s.Filtered = uint64(filtered)
		s.Zoom = float32(zoom)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}
