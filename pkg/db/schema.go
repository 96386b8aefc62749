package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Documents: one row per merit list PDF URL
CREATE TABLE IF NOT EXISTS documents (
    document_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL UNIQUE,
    domain TEXT NOT NULL,
    path TEXT,
    title TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_documents_domain ON documents(domain);

-- Document accesses: every fetch attempt, successful or not.
-- Only fetch metadata lives here; queries and matched rows are never stored.
CREATE TABLE IF NOT EXISTS document_accesses (
    access_id INTEGER PRIMARY KEY AUTOINCREMENT,
    document_id INTEGER NOT NULL,
    accessed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    size_bytes INTEGER NOT NULL DEFAULT 0,
    page_count INTEGER NOT NULL DEFAULT 0,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    error_type TEXT,
    success BOOLEAN NOT NULL,
    FOREIGN KEY (document_id) REFERENCES documents(document_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_accesses_document ON document_accesses(document_id);
CREATE INDEX IF NOT EXISTS idx_accesses_time ON document_accesses(accessed_at);
CREATE INDEX IF NOT EXISTS idx_accesses_success ON document_accesses(success);
`
