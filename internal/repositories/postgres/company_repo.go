package postgres

import (
	"context"
	"errors"

	"github.com/gemtrack/gemtrack/internal/models"
	"github.com/gemtrack/gemtrack/internal/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*models.Company, error)
	UpdateRecipients(ctx context.Context, id string, recipients []string) error
}

type companyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var row models.Company
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *companyRepo) UpdateRecipients(ctx context.Context, id string, recipients []string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", id).
		Update("reminder_recipients", pq.StringArray(recipients))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
