package db

// schemaSQL holds one row per saved query. The newest created_at of an email is its
// latest record.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS user_queries (
	email      TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	raw_input  JSONB       NOT NULL,
	PRIMARY KEY (email, created_at)
);
CREATE INDEX IF NOT EXISTS idx_user_queries_latest ON user_queries (email, created_at DESC);
`

const (
	insertQuerySQL = `INSERT INTO user_queries (email, created_at, updated_at, raw_input)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (email, created_at) DO UPDATE SET updated_at = $3, raw_input = $4`

	latestQuerySQL = `SELECT email, created_at, updated_at, raw_input
		 FROM user_queries WHERE email = $1
		 ORDER BY created_at DESC LIMIT 1`

	updateLatestSQL = `UPDATE user_queries SET raw_input = $3, updated_at = $2
		 WHERE email = $1 AND created_at = (
		     SELECT MAX(created_at) FROM user_queries WHERE email = $1)
		 RETURNING email, created_at, updated_at, raw_input`

	historySQL = `SELECT email, created_at, updated_at, raw_input
		 FROM user_queries WHERE email = $1
		 ORDER BY created_at DESC LIMIT $2`
)
