package models

import "github.com/google/uuid"

// assignID gives a record a UUID primary key before insert when it has none.
// IDs are generated in Go so the schema works on PostgreSQL and SQLite alike.
func assignID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

// AllModels lists every table the application migrates, in dependency order
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Comment{},
		&Like{},
		&Follow{},
		&Event{},
		&Registration{},
	}
}

