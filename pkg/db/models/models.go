package models

// All lists every persisted model in dependency order, for AutoMigrate on
// SQLite where the goose SQL migrations (Postgres dialect) do not apply.
func All() []any {
	return []any{
		&User{},
		&Session{},
		&Order{},
		&OrderLineItem{},
	}
}
