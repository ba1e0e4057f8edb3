package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations applies the engine schema.
func (db *DB) RunMigrations() error {
	migration := `
-- Contract templates
CREATE TABLE IF NOT EXISTS templates (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('draft', 'active', 'archived')),
    version TEXT NOT NULL,
    parent_id TEXT,
    content TEXT NOT NULL,
    variables TEXT NOT NULL DEFAULT '[]',
    required_fields TEXT NOT NULL DEFAULT '[]',
    defaults TEXT NOT NULL DEFAULT '{}',
    billing TEXT NOT NULL DEFAULT '{}',
    usage_count INTEGER NOT NULL DEFAULT 0,
    last_used_at TIMESTAMP,
    success_rate REAL NOT NULL DEFAULT 0,
    requires_approval INTEGER NOT NULL DEFAULT 0,
    next_review_at TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    modified_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (parent_id) REFERENCES templates(id)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_templates_slug ON templates(tenant_id, slug);
CREATE INDEX IF NOT EXISTS idx_templates_tenant ON templates(tenant_id);
CREATE INDEX IF NOT EXISTS idx_templates_status ON templates(status);

-- Contract version snapshots
CREATE TABLE IF NOT EXISTS contract_versions (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    contract_id TEXT NOT NULL,
    negotiation_id TEXT,
    version_number TEXT NOT NULL,
    type TEXT NOT NULL CHECK(type IN ('initial', 'revision', 'amendment', 'renewal')),
    status TEXT NOT NULL CHECK(status IN ('draft', 'review', 'approved', 'rejected', 'final')),
    approval_status TEXT NOT NULL CHECK(approval_status IN ('pending', 'approved', 'rejected')),
    title TEXT NOT NULL DEFAULT '',
    value REAL NOT NULL DEFAULT 0,
    start_date TIMESTAMP,
    end_date TIMESTAMP,
    data TEXT NOT NULL DEFAULT '{}',
    components TEXT NOT NULL DEFAULT '[]',
    pricing TEXT NOT NULL DEFAULT '{}',
    changes TEXT NOT NULL DEFAULT '[]',
    approval_log TEXT NOT NULL DEFAULT '[]',
    is_client_visible INTEGER NOT NULL DEFAULT 0,
    is_final INTEGER NOT NULL DEFAULT 0,
    created_by TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    modified_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_versions_number ON contract_versions(tenant_id, contract_id, version_number);
CREATE UNIQUE INDEX IF NOT EXISTS idx_versions_final ON contract_versions(tenant_id, contract_id) WHERE is_final = 1;
CREATE INDEX IF NOT EXISTS idx_versions_contract ON contract_versions(tenant_id, contract_id);
CREATE INDEX IF NOT EXISTS idx_versions_negotiation ON contract_versions(negotiation_id);

-- Negotiations
CREATE TABLE IF NOT EXISTS negotiations (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    contract_id TEXT NOT NULL,
    quote_id TEXT,
    number TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL CHECK(status IN ('active', 'paused', 'completed', 'cancelled')),
    phase TEXT NOT NULL CHECK(phase IN ('preparation', 'proposal', 'negotiation', 'approval', 'finalization')),
    round INTEGER NOT NULL DEFAULT 1,
    internal_participants TEXT NOT NULL DEFAULT '[]',
    external_participants TEXT NOT NULL DEFAULT '[]',
    target_value REAL,
    minimum_value REAL,
    final_value REAL,
    pricing_history TEXT NOT NULL DEFAULT '[]',
    started_at TIMESTAMP NOT NULL,
    deadline TIMESTAMP,
    completed_at TIMESTAMP,
    last_activity_at TIMESTAMP NOT NULL,
    won INTEGER NOT NULL DEFAULT 0,
    outcome_notes TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_negotiations_number ON negotiations(tenant_id, number);
CREATE INDEX IF NOT EXISTS idx_negotiations_contract ON negotiations(tenant_id, contract_id);
CREATE INDEX IF NOT EXISTS idx_negotiations_status ON negotiations(status);

-- Discussion comments
CREATE TABLE IF NOT EXISTS comments (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    contract_id TEXT NOT NULL,
    negotiation_id TEXT,
    version_id TEXT,
    parent_id TEXT,
    author_id TEXT NOT NULL,
    author_kind TEXT NOT NULL CHECK(author_kind IN ('internal', 'client', 'system')),
    body TEXT NOT NULL,
    type TEXT NOT NULL CHECK(type IN ('general', 'suggestion', 'objection', 'approval', 'question')),
    priority TEXT NOT NULL CHECK(priority IN ('low', 'normal', 'high', 'urgent')),
    section_ref TEXT NOT NULL DEFAULT '',
    mentions TEXT NOT NULL DEFAULT '[]',
    attachments TEXT NOT NULL DEFAULT '[]',
    is_internal INTEGER NOT NULL DEFAULT 0,
    is_resolved INTEGER NOT NULL DEFAULT 0,
    requires_response INTEGER NOT NULL DEFAULT 0,
    response_due TIMESTAMP,
    resolved_by TEXT,
    resolved_at TIMESTAMP,
    thread_position INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    modified_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (parent_id) REFERENCES comments(id)
);
-- Sibling thread positions stay unique per parent (top-level siblings share
-- the '' key since unique indexes treat NULLs as distinct).
CREATE UNIQUE INDEX IF NOT EXISTS idx_comments_thread_position
    ON comments(tenant_id, contract_id, COALESCE(parent_id, ''), thread_position);
CREATE INDEX IF NOT EXISTS idx_comments_contract ON comments(tenant_id, contract_id);
CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id);
CREATE INDEX IF NOT EXISTS idx_comments_negotiation ON comments(negotiation_id);

-- Audit trail
CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id TEXT NOT NULL,
    contract_id TEXT NOT NULL DEFAULT '',
    entity_kind TEXT NOT NULL,
    entity_id TEXT,
    activity_type TEXT NOT NULL,
    actor TEXT NOT NULL DEFAULT '',
    summary TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_activity_tenant ON activity_log(tenant_id);
CREATE INDEX IF NOT EXISTS idx_activity_contract ON activity_log(tenant_id, contract_id);
CREATE INDEX IF NOT EXISTS idx_activity_created ON activity_log(created_at);

-- Contract state synced in from the owning application
CREATE TABLE IF NOT EXISTS contracts (
    id TEXT NOT NULL,
    tenant_id TEXT NOT NULL,
    title TEXT NOT NULL,
    value REAL NOT NULL DEFAULT 0,
    start_date TIMESTAMP,
    end_date TIMESTAMP,
    components TEXT NOT NULL DEFAULT '[]',
    data TEXT NOT NULL DEFAULT '{}',
    synced_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (tenant_id, id)
);

-- API keys for transport auth
CREATE TABLE IF NOT EXISTS api_keys (
    key_hash TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
