package models

// All lists every model in dependency order, for migrations and table drops.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserAccounts{},
		&Character{},
		&UserCharacter{},
		&Job{},
		&CharacterJob{},
		&Event{},
		&EventRoster{},
	}
}
