package postgres

import (
	"context"
	"errors"

	"github.com/gemtrack/gemtrack/internal/models"
	"github.com/gemtrack/gemtrack/internal/utils"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	ListPublic(ctx context.Context) ([]models.Template, error)
	GetByID(ctx context.Context, id string) (*models.Template, error)
	IncrementDownloads(ctx context.Context, id string) error
}

type templateRepo struct {
	db *gorm.DB
}

func NewTemplateRepo(db *gorm.DB) TemplateRepository {
	return &templateRepo{db: db}
}

func (r *templateRepo) ListPublic(ctx context.Context) ([]models.Template, error) {
	var rows []models.Template
	err := r.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("category ASC").
		Find(&rows).Error
	return rows, err
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (*models.Template, error) {
	var row models.Template
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *templateRepo) IncrementDownloads(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.Template{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}
