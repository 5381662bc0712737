package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gemtrack/gemtrack/internal/cache"
	"github.com/gemtrack/gemtrack/internal/events"
	"github.com/gemtrack/gemtrack/internal/providers/extract"
	pgrepo "github.com/gemtrack/gemtrack/internal/repositories/postgres"
	"github.com/gemtrack/gemtrack/internal/utils"
)

// ParticipationService reads bid evaluation statuses off GeM portal
// screenshots and applies confirmed updates to the company's tenders.
// Analyze never mutates; the dashboard shows the extracted rows and the
// user applies them in a second call.
type ParticipationService interface {
	AnalyzeScreenshot(ctx context.Context, image []byte, mimeType string) ([]extract.BidUpdate, error)
	ApplyUpdates(ctx context.Context, companyID string, updates []extract.BidUpdate) (applied int, err error)
}

type participationService struct {
	tenders   pgrepo.TenderRepository
	vision    extract.VisionProvider // nil when Gemini is not configured
	cache     cache.Cache
	publisher events.Publisher
	log       *logrus.Logger
}

func NewParticipationService(tenders pgrepo.TenderRepository, vision extract.VisionProvider, c cache.Cache, publisher events.Publisher, log *logrus.Logger) ParticipationService {
	return &participationService{tenders: tenders, vision: vision, cache: c, publisher: publisher, log: log}
}

func (s *participationService) AnalyzeScreenshot(ctx context.Context, image []byte, mimeType string) ([]extract.BidUpdate, error) {
	const op = "ParticipationService.AnalyzeScreenshot"

	if s.vision == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "screenshot analysis is not configured", nil)
	}

	updates, err := s.vision.ExtractBidUpdates(ctx, image, mimeType)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "screenshot analysis failed", err)
	}

	s.log.WithField("bids", len(updates)).Info("screenshot analyzed")
	return updates, nil
}

func (s *participationService) ApplyUpdates(ctx context.Context, companyID string, updates []extract.BidUpdate) (int, error) {
	const op = "ParticipationService.ApplyUpdates"

	if len(updates) == 0 {
		return 0, utils.E(utils.CodeInvalidArgument, op, "no updates provided", nil)
	}

	applied := 0
	for _, u := range updates {
		if u.BidNumber == "" || u.EvaluationStatus == "" {
			continue
		}
		ok, err := s.tenders.UpdateEvaluation(ctx, companyID, u.BidNumber, u.EvaluationStatus)
		if err != nil {
			return applied, utils.E(utils.CodeInternal, op, "failed to update tender evaluation", err)
		}
		if !ok {
			// a bid on the portal list we never tracked; nothing to update
			s.log.WithField("bid_number", u.BidNumber).Debug("evaluation update matched no tender")
			continue
		}
		applied++
	}

	if applied > 0 {
		if cerr := s.cache.Del(ctx, cache.TenderListKey(companyID)); cerr != nil {
			s.log.WithError(cerr).Warn("tender list cache invalidation failed")
		}
		if perr := s.publisher.PublishTenderChange(ctx, companyID, events.TenderEvent{Type: "updated"}); perr != nil {
			s.log.WithError(perr).Warn("tender change publish failed")
		}
	}
	return applied, nil
}
