package database

import "blog/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Author{},
		&models.Post{},
		&models.Comment{},
	}
}
