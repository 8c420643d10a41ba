package models

// All lists every persisted model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&Category{},
		&Book{},
		&BookBorrowing{},
		&BookReturn{},
		&BookReservation{},
		&BookComment{},
		&BookRecommendation{},
		&Notification{},
		&UserProfile{},
	}
}
