package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gemtrack/gemtrack/internal/cache"
	"github.com/gemtrack/gemtrack/internal/events"
	"github.com/gemtrack/gemtrack/internal/lifecycle"
	"github.com/gemtrack/gemtrack/internal/models"
	pgrepo "github.com/gemtrack/gemtrack/internal/repositories/postgres"
	"github.com/gemtrack/gemtrack/internal/storage"
	"github.com/gemtrack/gemtrack/internal/utils"
)

const (
	tenderListTTL = 30 * time.Second
	signedURLTTL  = 60 * time.Second
)

// TenderView decorates a tender with its deadline-derived display state.
// The decoration is recomputed on every read; the persisted status column
// is never trusted for display.
type TenderView struct {
	models.Tender
	DisplayStatus lifecycle.Status `json:"display_status"`
	TimeRemaining string           `json:"time_remaining"`
}

type TenderService interface {
	List(ctx context.Context, companyID string) ([]TenderView, error)
	Get(ctx context.Context, companyID, id string) (*TenderView, error)
	UpdateNickname(ctx context.Context, companyID, id string, nickname *string) (*TenderView, error)
	Delete(ctx context.Context, companyID, id string) error
	DownloadURL(ctx context.Context, companyID, id string) (string, error)
}

type tenderService struct {
	repo      pgrepo.TenderRepository
	pdfs      storage.Store
	cache     cache.Cache
	publisher events.Publisher
	log       *logrus.Logger
}

func NewTenderService(repo pgrepo.TenderRepository, pdfs storage.Store, c cache.Cache, publisher events.Publisher, log *logrus.Logger) TenderService {
	return &tenderService{repo: repo, pdfs: pdfs, cache: c, publisher: publisher, log: log}
}

func decorate(t models.Tender, now time.Time) TenderView {
	return TenderView{
		Tender:        t,
		DisplayStatus: lifecycle.Classify(t.BidEndDate, now),
		TimeRemaining: lifecycle.Remaining(t.BidEndDate, now),
	}
}

func (s *tenderService) List(ctx context.Context, companyID string) ([]TenderView, error) {
	const op = "TenderService.List"

	if companyID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "company_id is required", nil)
	}

	var rows []models.Tender
	key := cache.TenderListKey(companyID)
	hit, err := s.cache.GetJSON(ctx, key, &rows)
	if err != nil {
		s.log.WithError(err).Warn("tender list cache read failed")
	}
	if !hit {
		rows, err = s.repo.ListByCompany(ctx, companyID)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to list tenders", err)
		}
		if cerr := s.cache.SetJSON(ctx, key, rows, tenderListTTL); cerr != nil {
			s.log.WithError(cerr).Warn("tender list cache write failed")
		}
	}

	now := time.Now().UTC()
	views := make([]TenderView, 0, len(rows))
	for _, t := range rows {
		views = append(views, decorate(t, now))
	}
	return views, nil
}

func (s *tenderService) Get(ctx context.Context, companyID, id string) (*TenderView, error) {
	const op = "TenderService.Get"

	t, err := s.repo.GetByID(ctx, companyID, id)
	if err != nil {
		if err == utils.ErrNotFound {
			return nil, utils.E(utils.CodeNotFound, op, "tender not found", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to fetch tender", err)
	}

	v := decorate(*t, time.Now().UTC())
	return &v, nil
}

func (s *tenderService) UpdateNickname(ctx context.Context, companyID, id string, nickname *string) (*TenderView, error) {
	const op = "TenderService.UpdateNickname"

	if err := s.repo.UpdateNickname(ctx, companyID, id, nickname); err != nil {
		if err == utils.ErrNotFound {
			return nil, utils.E(utils.CodeNotFound, op, "tender not found", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update tender", err)
	}

	s.invalidate(ctx, companyID)
	s.broadcast(ctx, companyID, events.TenderEvent{Type: "updated", TenderID: id})

	return s.Get(ctx, companyID, id)
}

// Delete removes the row first (cascading to checklist items) and then the
// stored PDF, best effort. An orphaned PDF after a storage failure stays
// unreferenced; the record is already gone.
func (s *tenderService) Delete(ctx context.Context, companyID, id string) error {
	const op = "TenderService.Delete"

	t, err := s.repo.GetByID(ctx, companyID, id)
	if err != nil {
		if err == utils.ErrNotFound {
			return utils.E(utils.CodeNotFound, op, "tender not found", nil)
		}
		return utils.E(utils.CodeInternal, op, "failed to fetch tender", err)
	}

	if err := s.repo.DeleteCascade(ctx, t.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete tender", err)
	}

	if t.FilePath != nil && *t.FilePath != "" {
		if rerr := s.pdfs.Remove(ctx, *t.FilePath); rerr != nil {
			s.log.WithError(rerr).WithField("tender_id", t.ID).Warn("failed to delete stored pdf")
		}
	}

	s.invalidate(ctx, companyID)
	s.broadcast(ctx, companyID, events.TenderEvent{Type: "deleted", TenderID: id})
	return nil
}

func (s *tenderService) DownloadURL(ctx context.Context, companyID, id string) (string, error) {
	const op = "TenderService.DownloadURL"

	t, err := s.repo.GetByID(ctx, companyID, id)
	if err != nil {
		if err == utils.ErrNotFound {
			return "", utils.E(utils.CodeNotFound, op, "tender not found", nil)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to fetch tender", err)
	}
	if t.FilePath == nil || *t.FilePath == "" {
		return "", utils.E(utils.CodeNotFound, op, "tender has no stored pdf", nil)
	}

	url, err := s.pdfs.SignedURL(ctx, *t.FilePath, signedURLTTL)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to sign download url", err)
	}
	return url, nil
}

func (s *tenderService) invalidate(ctx context.Context, companyID string) {
	if err := s.cache.Del(ctx, cache.TenderListKey(companyID)); err != nil {
		s.log.WithError(err).Warn("tender list cache invalidation failed")
	}
}

func (s *tenderService) broadcast(ctx context.Context, companyID string, ev events.TenderEvent) {
	if err := s.publisher.PublishTenderChange(ctx, companyID, ev); err != nil {
		s.log.WithError(err).Warn("tender change publish failed")
	}
}
