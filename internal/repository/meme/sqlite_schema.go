package meme

import "github.com/kailas-cloud/memedex/internal/db/sqlite"

// Migrations creates the record table and its FTS5 index. FTS5 rows share
// the record id as rowid and are maintained by SQLite.Insert/UpdateFields/Delete.
var Migrations = []sqlite.Migration{
	{
		Version: 1,
		Name:    "create_memes",
		SQL: `CREATE TABLE memes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	path        TEXT    NOT NULL,
	filename    TEXT    NOT NULL,
	category    TEXT    NOT NULL,
	hash        TEXT    NOT NULL DEFAULT '',
	text        TEXT    NOT NULL DEFAULT '',
	description TEXT    NOT NULL DEFAULT '',
	keywords    TEXT    NOT NULL DEFAULT '[]',
	created_at  INTEGER NOT NULL
);
CREATE INDEX memes_recent ON memes (created_at DESC, id DESC);`,
	},
	{
		Version: 2,
		Name:    "create_memes_fts",
		SQL: `CREATE VIRTUAL TABLE memes_fts USING fts5(
	text, description, keywords, filename,
	tokenize = 'unicode61 remove_diacritics 0'
);`,
	},
}
