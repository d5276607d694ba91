package scope

import "gorm.io/gorm"

// OrderByChunkIndex keeps document order; used as the tie-breaker after
// distance ordering.
func OrderByChunkIndex(db *gorm.DB) *gorm.DB {
	return db.Order("chunk_index ASC")
}
