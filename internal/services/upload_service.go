package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/gemtrack/gemtrack/internal/cache"
	"github.com/gemtrack/gemtrack/internal/events"
	"github.com/gemtrack/gemtrack/internal/lifecycle"
	"github.com/gemtrack/gemtrack/internal/models"
	"github.com/gemtrack/gemtrack/internal/providers/extract"
	pgrepo "github.com/gemtrack/gemtrack/internal/repositories/postgres"
	"github.com/gemtrack/gemtrack/internal/storage"
	"github.com/gemtrack/gemtrack/internal/utils"
)

// defaultChecklist is the compliance set instantiated for every new tender.
var defaultChecklist = []struct {
	Code string
	Name string
}{
	{"F-1", "Bid document (signed and stamped)"},
	{"F-2", "EMD / bid security declaration"},
	{"F-3", "Technical specification compliance sheet"},
	{"F-4", "OEM authorization certificate"},
	{"F-5", "MSE / startup exemption certificate"},
	{"F-6", "Past experience purchase orders"},
	{"F-7", "Financial turnover statement"},
}

type UploadService interface {
	Upload(ctx context.Context, userID, companyID, fileName string, data []byte) (*TenderView, error)
}

type uploadService struct {
	repo      pgrepo.TenderRepository
	pdfs      storage.Store
	ai        extract.Provider // nil when Gemini is not configured
	fallback  extract.Provider
	cache     cache.Cache
	publisher events.Publisher
	log       *logrus.Logger
}

func NewUploadService(repo pgrepo.TenderRepository, pdfs storage.Store, ai extract.Provider, c cache.Cache, publisher events.Publisher, log *logrus.Logger) UploadService {
	return &uploadService{
		repo:      repo,
		pdfs:      pdfs,
		ai:        ai,
		fallback:  extract.RegexFallback{},
		cache:     c,
		publisher: publisher,
		log:       log,
	}
}

func (s *uploadService) Upload(ctx context.Context, userID, companyID, fileName string, data []byte) (*TenderView, error) {
	const op = "UploadService.Upload"

	text, err := extract.PDFText(data)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op,
			"unable to parse tender PDF, ensure it is a valid GeM bid document", err)
	}

	details := s.extractDetails(ctx, text)
	if details == nil || details.BidNumber == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op,
			"could not extract bid number from PDF", nil)
	}

	now := time.Now().UTC()
	objectName := fmt.Sprintf("%s/%s_%d.pdf", companyID, details.BidNumber, now.Unix())

	storedPath, err := s.pdfs.Upload(ctx, objectName, "application/pdf", bytes.NewReader(data))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "storage upload failed", err)
	}

	raw, _ := json.Marshal(details)

	tender := &models.Tender{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		UploadedBy:   userID,
		BidNumber:    details.BidNumber,
		Subject:      details.Subject,
		ItemCategory: details.ItemCategory,
		BidEndDate:   details.BidEndDate,
		FilePath:     &storedPath,
		Status:       lifecycle.DeriveStored(details.BidEndDate, now),
		Extraction:   datatypes.JSON(raw),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	items := make([]models.ChecklistItem, 0, len(defaultChecklist))
	for i, def := range defaultChecklist {
		items = append(items, models.ChecklistItem{
			ID:        uuid.NewString(),
			TenderID:  tender.ID,
			Code:      def.Code,
			Name:      def.Name,
			Position:  i + 1,
			UpdatedAt: now,
		})
	}

	if err := s.repo.Insert(ctx, tender, items); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create tender record", err)
	}
	tender.Items = items

	if cerr := s.cache.Del(ctx, cache.TenderListKey(companyID)); cerr != nil {
		s.log.WithError(cerr).Warn("tender list cache invalidation failed")
	}
	if perr := s.publisher.PublishTenderChange(ctx, companyID, events.TenderEvent{Type: "created", TenderID: tender.ID}); perr != nil {
		s.log.WithError(perr).Warn("tender change publish failed")
	}

	s.log.WithFields(logrus.Fields{
		"tender_id":  tender.ID,
		"bid_number": tender.BidNumber,
		"file":       fileName,
	}).Info("tender created from upload")

	v := decorate(*tender, now)
	return &v, nil
}

// extractDetails tries the Gemini provider first and falls back to the
// regex parser when it is unavailable or fails.
func (s *uploadService) extractDetails(ctx context.Context, text string) *extract.Details {
	if s.ai != nil {
		d, err := s.ai.Extract(ctx, text)
		if err == nil && d.BidNumber != "" {
			return d
		}
		if err != nil {
			s.log.WithError(err).Warn("ai extraction failed, falling back to regex")
		}
	}

	d, err := s.fallback.Extract(ctx, text)
	if err != nil {
		s.log.WithError(err).Debug("regex extraction failed")
		return nil
	}
	return d
}
