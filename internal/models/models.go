package models

// All - список моделей для AutoMigrate
func All() []interface{} {
	return []interface{}{
		&Profile{},
		&ProProfile{},
		&Category{},
		&Job{},
		&Proposal{},
		&Conversation{},
		&Message{},
		&Review{},
		&Notification{},
	}
}
