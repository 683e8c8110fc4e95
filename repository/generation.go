package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pmitra96/recipe-backend/models"
)

// GenerationRepository stores generation history rows.
type GenerationRepository struct {
	DB *gorm.DB
}

// NewGenerationRepository creates and returns a new GenerationRepository.
func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{
		DB: db,
	}
}

// Create inserts one generation.
func (r *GenerationRepository) Create(ctx context.Context, g *models.Generation) error {
	return r.DB.WithContext(ctx).Create(g).Error
}

// List returns the newest generations first. An empty kind matches every kind.
func (r *GenerationRepository) List(ctx context.Context, kind string, limit int) ([]models.Generation, error) {
	query := r.DB.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var generations []models.Generation
	if err := query.Find(&generations).Error; err != nil {
		return nil, err
	}
	return generations, nil
}
