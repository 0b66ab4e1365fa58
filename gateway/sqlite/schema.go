package sqlite

const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	financial_score INTEGER NOT NULL,
	risk_tolerance TEXT NOT NULL,
	wealth_grid TEXT NOT NULL,
	answers TEXT NOT NULL,
	is_onboarded INTEGER NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	type TEXT NOT NULL,
	amount TEXT NOT NULL,
	bucket TEXT NOT NULL,
	category TEXT NOT NULL,
	note TEXT NOT NULL,
	date DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ledger_user_date ON ledger_entries(user_id, date);

CREATE TABLE IF NOT EXISTS advisory_cards (
	id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	concept TEXT NOT NULL,
	content TEXT NOT NULL,
	action TEXT NOT NULL,
	tags TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS read_marks (
	user_id TEXT NOT NULL,
	card_id TEXT NOT NULL,
	read_at DATETIME NOT NULL,
	PRIMARY KEY (user_id, card_id)
);
`
