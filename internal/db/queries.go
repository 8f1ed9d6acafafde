package db

import (
	"database/sql"
	"errors"
	"fmt"
)

const selectEntry = `SELECT
	e.id, e.image_path, e.digest,
	e.version, e.wavelet, e.strength,
	e.pos_row, e.pos_col,
	e.wm_height, e.wm_width,
	e.image_width, e.image_height,
	e.message_len`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner, extra ...any) (Entry, error) {
	var e Entry
	r := &e.Record
	dest := append([]any{
		&e.ID, &e.ImagePath, &r.Digest,
		&r.Version, &r.Wavelet, &r.Strength,
		&r.Position.Row, &r.Position.Col,
		&r.WatermarkSize.Height, &r.WatermarkSize.Width,
		&r.Image.Width, &r.Image.Height,
		&r.MessageLen,
	}, extra...)
	err := s.Scan(dest...)
	return e, err
}

// Get returns the entry for a marked image digest, with its payload if stored.
func (d *DB) Get(digest string) (Entry, error) {
	var payload []byte
	row := d.db.QueryRow(selectEntry+`, p.pixels
		FROM embeddings e LEFT JOIN payloads p ON p.id = e.payload_id
		WHERE e.digest = ?`, digest)
	e, err := scanEntry(row, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, digest)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to query embedding: %w", err)
	}
	e.Payload = payload
	return e, nil
}

// List returns every entry in insertion order, without payloads.
func (d *DB) List() ([]Entry, error) {
	rows, err := d.db.Query(selectEntry + " FROM embeddings e ORDER BY e.id")
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
