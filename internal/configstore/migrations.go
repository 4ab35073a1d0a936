package configstore

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

CREATE TABLE IF NOT EXISTS config_items (
	id         TEXT PRIMARY KEY,
	directory  TEXT NOT NULL,
	name       TEXT NOT NULL,
	value      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(directory, name)
);

CREATE INDEX IF NOT EXISTS idx_config_items_directory ON config_items(directory);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
