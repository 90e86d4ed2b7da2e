package server

// migrate runs database migrations
func (s *Server) migrate() error {
	migrations := []string{
		migrationUsers,
		migrationSessions,
		migrationCategories,
		migrationTodos,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

const migrationUsers = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    username VARCHAR(255) UNIQUE,
    email VARCHAR(255) UNIQUE,
    password_hash VARCHAR(255),
    provider VARCHAR(64),
    provider_user_id VARCHAR(255),
    name TEXT NOT NULL DEFAULT '',
    nickname TEXT NOT NULL DEFAULT '',
    avatar_url TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW(),
    UNIQUE(provider, provider_user_id)
);
`

const migrationSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id),
    token VARCHAR(64) UNIQUE NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token);
CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
`

// Category and todo ids are client-generated, so they are plain text keyed
// together with the owner. Todo category references may dangle after a
// category replace; dangling references render as uncategorized client-side.
const migrationCategories = `
CREATE TABLE IF NOT EXISTS categories (
    id TEXT NOT NULL,
    user_id UUID NOT NULL REFERENCES users(id),
    name TEXT NOT NULL,
    color TEXT NOT NULL DEFAULT '#A0C4FF',
    position INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    PRIMARY KEY (user_id, id)
);

CREATE INDEX IF NOT EXISTS idx_categories_user ON categories(user_id);
`

const migrationTodos = `
CREATE TABLE IF NOT EXISTS todos (
    id TEXT NOT NULL,
    user_id UUID NOT NULL REFERENCES users(id),
    text TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    category_id TEXT,
    day_key CHAR(10) NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    PRIMARY KEY (user_id, id)
);

CREATE INDEX IF NOT EXISTS idx_todos_user_day ON todos(user_id, day_key);
`
