package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gemtrack/gemtrack/internal/cache"
	"github.com/gemtrack/gemtrack/internal/events"
	"github.com/gemtrack/gemtrack/internal/models"
	pgrepo "github.com/gemtrack/gemtrack/internal/repositories/postgres"
	"github.com/gemtrack/gemtrack/internal/storage"
	"github.com/gemtrack/gemtrack/internal/utils"
)

// ChecklistUpdate is a partial update; nil fields are left untouched.
type ChecklistUpdate struct {
	IsReady     *bool
	IsSubmitted *bool
	DocumentURL *string
	Notes       *string
}

type ChecklistService interface {
	Update(ctx context.Context, userID, companyID, itemID string, upd ChecklistUpdate) (*models.ChecklistItem, error)
	DownloadURL(ctx context.Context, companyID, itemID string) (string, error)
}

type checklistService struct {
	items     pgrepo.ChecklistRepository
	tenders   pgrepo.TenderRepository
	docs      storage.Store
	cache     cache.Cache
	publisher events.Publisher
	log       *logrus.Logger
}

func NewChecklistService(items pgrepo.ChecklistRepository, tenders pgrepo.TenderRepository, docs storage.Store, c cache.Cache, publisher events.Publisher, log *logrus.Logger) ChecklistService {
	return &checklistService{items: items, tenders: tenders, docs: docs, cache: c, publisher: publisher, log: log}
}

// owned loads the item and verifies the parent tender belongs to the
// caller's company.
func (s *checklistService) owned(ctx context.Context, op, companyID, itemID string) (*models.ChecklistItem, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if err == utils.ErrNotFound {
			return nil, utils.E(utils.CodeNotFound, op, "checklist item not found", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to fetch checklist item", err)
	}

	if _, err := s.tenders.GetByID(ctx, companyID, item.TenderID); err != nil {
		if err == utils.ErrNotFound {
			return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to verify ownership", err)
	}
	return item, nil
}

func (s *checklistService) Update(ctx context.Context, userID, companyID, itemID string, upd ChecklistUpdate) (*models.ChecklistItem, error) {
	const op = "ChecklistService.Update"

	if upd.IsReady == nil && upd.IsSubmitted == nil && upd.DocumentURL == nil && upd.Notes == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no update fields provided", nil)
	}

	item, err := s.owned(ctx, op, companyID, itemID)
	if err != nil {
		return nil, err
	}

	if upd.IsReady != nil {
		item.IsReady = *upd.IsReady
	}
	if upd.IsSubmitted != nil {
		item.IsSubmitted = *upd.IsSubmitted
	}
	if upd.DocumentURL != nil {
		item.DocumentURL = upd.DocumentURL
		// a prepared document implies readiness
		if *upd.DocumentURL != "" {
			item.IsReady = true
		}
	}
	if upd.Notes != nil {
		item.Notes = *upd.Notes
	}
	item.UpdatedBy = &userID
	item.UpdatedAt = time.Now().UTC()

	if err := s.items.Save(ctx, item); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update checklist item", err)
	}

	if cerr := s.cache.Del(ctx, cache.TenderListKey(companyID)); cerr != nil {
		s.log.WithError(cerr).Warn("tender list cache invalidation failed")
	}
	if perr := s.publisher.PublishTenderChange(ctx, companyID, events.TenderEvent{Type: "updated", TenderID: item.TenderID}); perr != nil {
		s.log.WithError(perr).Warn("tender change publish failed")
	}

	return item, nil
}

func (s *checklistService) DownloadURL(ctx context.Context, companyID, itemID string) (string, error) {
	const op = "ChecklistService.DownloadURL"

	item, err := s.owned(ctx, op, companyID, itemID)
	if err != nil {
		return "", err
	}
	if item.DocumentURL == nil || *item.DocumentURL == "" {
		return "", utils.E(utils.CodeNotFound, op, "document not found", nil)
	}

	url, err := s.docs.SignedURL(ctx, *item.DocumentURL, signedURLTTL)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to sign download url", err)
	}
	return url, nil
}
