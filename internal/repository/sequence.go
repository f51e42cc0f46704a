package repository

import "gorm.io/gorm"

// maxSequenceAttempts bounds retries when a concurrent writer takes the same per-article number
const maxSequenceAttempts = 2

// maxSeq returns the largest value of column among the article's rows of model, 0 when there are none.
// Callers allocate max+1 inside their write transaction; a unique (article_id, column) index
// rejects a concurrent duplicate.
func maxSeq(tx *gorm.DB, model interface{}, column, articleID string) (int, error) {
	var max *int
	err := tx.Model(model).
		Where("article_id = ?", articleID).
		Select("MAX(" + column + ")").
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}
