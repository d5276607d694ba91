package specification

import (
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// ByCollection restricts chunk queries to one chat's document.
type ByCollection struct {
	Collection string
}

func (s ByCollection) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("collection = ?", s.Collection)
}

// NearestTo selects the cosine similarity to Vector and orders by it,
// closest first. Later Order calls only add tie-breakers.
type NearestTo struct {
	Vector pgvector.Vector
}

func (s NearestTo) Apply(db *gorm.DB) *gorm.DB {
	return db.
		Select("*, 1 - (embedding_value <=> ?) AS similarity", s.Vector).
		Order("similarity DESC")
}
