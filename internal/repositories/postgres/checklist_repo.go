package postgres

import (
	"context"
	"errors"

	"github.com/gemtrack/gemtrack/internal/models"
	"github.com/gemtrack/gemtrack/internal/utils"
	"gorm.io/gorm"
)

type ChecklistRepository interface {
	GetByID(ctx context.Context, id string) (*models.ChecklistItem, error)
	Save(ctx context.Context, item *models.ChecklistItem) error
}

type checklistRepo struct {
	db *gorm.DB
}

func NewChecklistRepo(db *gorm.DB) ChecklistRepository {
	return &checklistRepo{db: db}
}

func (r *checklistRepo) GetByID(ctx context.Context, id string) (*models.ChecklistItem, error) {
	var row models.ChecklistItem
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *checklistRepo) Save(ctx context.Context, item *models.ChecklistItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
