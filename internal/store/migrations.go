package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
	id              TEXT PRIMARY KEY,
	url             TEXT NOT NULL UNIQUE,
	item_type       TEXT NOT NULL CHECK(item_type IN ('issue', 'pull-request')),
	item_state      TEXT NOT NULL CHECK(item_state IN ('open', 'closed', 'merged', 'draft')),
	title           TEXT NOT NULL DEFAULT '',
	repo_full_name  TEXT NOT NULL,
	event_date      DATETIME NOT NULL,
	event_date_title TEXT NOT NULL DEFAULT '',
	participating   INTEGER NOT NULL DEFAULT 0 CHECK(participating IN (0, 1)),
	participants    TEXT NOT NULL DEFAULT '[]',
	position        INTEGER NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_records_position ON records(position);
CREATE INDEX IF NOT EXISTS idx_records_repo ON records(repo_full_name);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_records_participating ON records(participating);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
