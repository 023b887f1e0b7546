package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// SchemaVersion is the newest schema this build understands.
var SchemaVersion = migrations[len(migrations)-1].version

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS lists (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT 'List',
	position INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	list_id     TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	description TEXT NOT NULL DEFAULT '',
	resolution  TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'normal'
	            CHECK (status IN ('normal', 'high', 'hold')),
	position    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_tasks_list_id ON tasks(list_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
