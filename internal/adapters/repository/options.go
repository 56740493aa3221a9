package repository

import "github.com/okian/squadup/internal/domain/model"

// Option configures a MemStore.
type Option func(*MemStore)

// WithCategories overrides the award reference set.
func WithCategories(categories []model.AwardCategory) Option {
	return func(s *MemStore) {
		if len(categories) > 0 {
			s.categories = append([]model.AwardCategory(nil), categories...)
		}
	}
}
