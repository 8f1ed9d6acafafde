package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/yyyoichi/watermark_rdwt/record"
)

// Entry is a registered embedding.
type Entry struct {
	ID        int64
	ImagePath string
	Record    record.Record
	// Payload holds the embedded payload pixels, row-major with stride
	// Record.WatermarkSize.Width. It is nil when the payload was not stored.
	Payload []byte
}

// Put registers e.Record under its digest, replacing an earlier entry for the
// same marked image, and returns the entry ID.
func (d *DB) Put(e Entry) (int64, error) {
	if err := e.Record.Validate(); err != nil {
		return 0, err
	}
	if e.Payload != nil && len(e.Payload) != e.Record.WatermarkSize.Area() {
		return 0, fmt.Errorf("payload has %d pixels, want %d", len(e.Payload), e.Record.WatermarkSize.Area())
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var payloadID sql.NullInt64
	if e.Payload != nil {
		id, err := insertPayload(tx, e.Payload, e.Record.WatermarkSize.Height, e.Record.WatermarkSize.Width)
		if err != nil {
			return 0, err
		}
		payloadID = sql.NullInt64{Int64: id, Valid: true}
	}

	r := e.Record
	args := []any{
		e.ImagePath, payloadID,
		r.Version, r.Wavelet, r.Strength,
		r.Position.Row, r.Position.Col,
		r.WatermarkSize.Height, r.WatermarkSize.Width,
		r.Image.Width, r.Image.Height,
		r.MessageLen,
		r.Digest,
	}

	var id int64
	err = tx.QueryRow("SELECT id FROM embeddings WHERE digest = ?", r.Digest).Scan(&id)
	switch {
	case err == nil:
		_, err = tx.Exec(`UPDATE embeddings SET
			image_path = ?, payload_id = ?,
			version = ?, wavelet = ?, strength = ?,
			pos_row = ?, pos_col = ?,
			wm_height = ?, wm_width = ?,
			image_width = ?, image_height = ?,
			message_len = ?
			WHERE digest = ?`, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to update embedding: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		result, err := tx.Exec(`INSERT INTO embeddings (
			image_path, payload_id,
			version, wavelet, strength,
			pos_row, pos_col,
			wm_height, wm_width,
			image_width, image_height,
			message_len,
			digest
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert embedding: %w", err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("failed to query embedding: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return id, nil
}

// insertPayload inserts or gets an existing payload
func insertPayload(tx *sql.Tx, pixels []byte, height, width int) (int64, error) {
	var id int64
	err := tx.QueryRow(
		"SELECT id FROM payloads WHERE pixels = ? AND height = ? AND width = ?",
		pixels, height, width,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to query payload: %w", err)
	}

	result, err := tx.Exec(
		"INSERT INTO payloads (pixels, height, width) VALUES (?, ?, ?)",
		pixels, height, width,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert payload: %w", err)
	}
	return result.LastInsertId()
}
