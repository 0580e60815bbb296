package storage

// Both schemas declare the same tables, defaults and indexes. Timestamps are
// written by the application, never by column defaults, so that rows look the
// same whichever backend stored them.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chat_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		user_message TEXT NOT NULL,
		ai_response TEXT NOT NULL,
		timestamp TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS learning_goals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'general',
		priority INTEGER NOT NULL DEFAULT 2,
		status TEXT NOT NULL DEFAULT 'active',
		target_date TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS study_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		goal_id INTEGER REFERENCES learning_goals(id) ON DELETE SET NULL,
		subject TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		session_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_user ON chat_history(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_goals_user ON learning_goals(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_date ON study_sessions(user_id, session_date)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chat_history (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		user_message TEXT NOT NULL,
		ai_response TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS learning_goals (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category VARCHAR(50) NOT NULL DEFAULT 'general',
		priority INTEGER NOT NULL DEFAULT 2,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		target_date DATE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS study_sessions (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		goal_id BIGINT REFERENCES learning_goals(id) ON DELETE SET NULL,
		subject VARCHAR(100) NOT NULL,
		duration_minutes INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		session_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_user ON chat_history(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_goals_user ON learning_goals(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_date ON study_sessions(user_id, session_date)`,
}
