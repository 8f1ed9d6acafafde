package db

const schema = `
-- Payloads kept for later comparison with extracted ones
CREATE TABLE IF NOT EXISTS payloads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    pixels BLOB NOT NULL,
    height INTEGER NOT NULL,
    width INTEGER NOT NULL,
    UNIQUE(pixels, height, width)
);

-- One row per marked image, keyed by its digest
CREATE TABLE IF NOT EXISTS embeddings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    digest TEXT NOT NULL UNIQUE,
    image_path TEXT NOT NULL,
    payload_id INTEGER,

    version INTEGER NOT NULL,
    wavelet TEXT NOT NULL,
    strength REAL NOT NULL,
    pos_row INTEGER NOT NULL,
    pos_col INTEGER NOT NULL,
    wm_height INTEGER NOT NULL,
    wm_width INTEGER NOT NULL,
    image_width INTEGER NOT NULL,
    image_height INTEGER NOT NULL,
    message_len INTEGER NOT NULL DEFAULT 0,

    FOREIGN KEY (payload_id) REFERENCES payloads(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_embeddings_path ON embeddings(image_path);
`
