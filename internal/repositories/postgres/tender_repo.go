package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gemtrack/gemtrack/internal/models"
	"github.com/gemtrack/gemtrack/internal/utils"
	"gorm.io/gorm"
)

type TenderRepository interface {
	Insert(ctx context.Context, t *models.Tender, items []models.ChecklistItem) error
	ListByCompany(ctx context.Context, companyID string) ([]models.Tender, error)
	GetByID(ctx context.Context, companyID, id string) (*models.Tender, error)
	UpdateNickname(ctx context.Context, companyID, id string, nickname *string) error

	// expiry job queries; both windows are exclusive per the cron contract
	ExpiringBetween(ctx context.Context, from, to time.Time) ([]models.Tender, error)
	ExpiredBefore(ctx context.Context, cutoff time.Time) ([]models.Tender, error)

	// UpdateEvaluation marks a bid as participated with the given
	// evaluation status, matched by bid number inside the company.
	// Returns false when no tender carries that bid number.
	UpdateEvaluation(ctx context.Context, companyID, bidNumber, status string) (bool, error)

	// DeleteCascade removes the checklist items and the tender row in one
	// transaction. Deleting an id that is already gone is not an error.
	DeleteCascade(ctx context.Context, id string) error
}

type tenderRepo struct {
	db *gorm.DB
}

func NewTenderRepo(db *gorm.DB) TenderRepository {
	return &tenderRepo{db: db}
}

func (r *tenderRepo) Insert(ctx context.Context, t *models.Tender, items []models.ChecklistItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *tenderRepo) ListByCompany(ctx context.Context, companyID string) ([]models.Tender, error) {
	var rows []models.Tender
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("company_id = ?", companyID).
		Order("bid_end_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *tenderRepo) GetByID(ctx context.Context, companyID, id string) (*models.Tender, error) {
	var row models.Tender
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ? AND company_id = ?", id, companyID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *tenderRepo) UpdateNickname(ctx context.Context, companyID, id string, nickname *string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Tender{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Updates(map[string]any{"nickname": nickname, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *tenderRepo) ExpiringBetween(ctx context.Context, from, to time.Time) ([]models.Tender, error) {
	var rows []models.Tender
	err := r.db.WithContext(ctx).
		Where("bid_end_date > ? AND bid_end_date < ? AND status = ?", from, to, models.TenderActive).
		Order("bid_end_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *tenderRepo) ExpiredBefore(ctx context.Context, cutoff time.Time) ([]models.Tender, error) {
	var rows []models.Tender
	err := r.db.WithContext(ctx).
		Where("bid_end_date < ?", cutoff).
		Order("bid_end_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *tenderRepo) UpdateEvaluation(ctx context.Context, companyID, bidNumber, status string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Tender{}).
		Where("company_id = ? AND bid_number = ?", companyID, bidNumber).
		Updates(map[string]any{
			"evaluation_status": status,
			"is_participated":   true,
			"updated_at":        time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *tenderRepo) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tender_id = ?", id).Delete(&models.ChecklistItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Tender{}).Error
	})
}
