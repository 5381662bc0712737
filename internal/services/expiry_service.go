package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gemtrack/gemtrack/internal/events"
	"github.com/gemtrack/gemtrack/internal/models"
	mongorepo "github.com/gemtrack/gemtrack/internal/repositories/mongo"
	pgrepo "github.com/gemtrack/gemtrack/internal/repositories/postgres"
	"github.com/gemtrack/gemtrack/internal/storage"
	"github.com/gemtrack/gemtrack/internal/utils"

	"github.com/google/uuid"
)

const (
	reminderWindow = 24 * time.Hour
	cleanupGrace   = 10 * 24 * time.Hour

	deadlineLayout = "02-01-2006 15:04"
)

type ExpiryReport struct {
	RemindersSent int
	Deleted       int
	Cleanup       string
	Timestamp     time.Time
}

// ExpiryService reconciles wall-clock time with persisted tender state:
// it emits reminders for tenders closing within 24 hours and purges
// tenders more than 10 days past their deadline.
type ExpiryService interface {
	Run(ctx context.Context, now time.Time) (*ExpiryReport, error)
}

type expiryService struct {
	tenders   pgrepo.TenderRepository
	companies pgrepo.CompanyRepository
	publisher events.Publisher

	// elevated-credential store for the tender-pdfs bucket; nil disables
	// the cleanup phase
	remover storage.Store

	runs mongorepo.JobRunRepository // optional run history
	log  *logrus.Logger
}

func NewExpiryService(
	tenders pgrepo.TenderRepository,
	companies pgrepo.CompanyRepository,
	publisher events.Publisher,
	remover storage.Store,
	runs mongorepo.JobRunRepository,
	log *logrus.Logger,
) ExpiryService {
	return &expiryService{
		tenders:   tenders,
		companies: companies,
		publisher: publisher,
		remover:   remover,
		runs:      runs,
		log:       log,
	}
}

func (s *expiryService) Run(ctx context.Context, now time.Time) (*ExpiryReport, error) {
	const op = "ExpiryService.Run"
	started := time.Now().UTC()

	report := &ExpiryReport{Timestamp: now}

	// Phase 1: reminders. Read and notify only; no tender state changes,
	// and a second run inside the window re-notifies.
	expiring, err := s.tenders.ExpiringBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		s.record(ctx, started, report, err)
		return nil, utils.E(utils.CodeInternal, op, "failed to query expiring tenders", err)
	}

	companyNames := map[string]*models.Company{}
	for _, t := range expiring {
		co, ok := companyNames[t.CompanyID]
		if !ok {
			co, err = s.companies.GetByID(ctx, t.CompanyID)
			if err != nil {
				s.log.WithError(err).WithField("company_id", t.CompanyID).Warn("company lookup failed")
				co = &models.Company{ID: t.CompanyID}
			}
			companyNames[t.CompanyID] = co
		}

		ev := events.ReminderEvent{
			TenderID:   t.ID,
			Title:      t.Title(),
			BidNumber:  t.BidNumber,
			Company:    co.Name,
			Deadline:   t.BidEndDate.Format(deadlineLayout),
			Recipients: co.ReminderRecipients,
		}
		if perr := s.publisher.PublishReminder(ctx, ev); perr != nil {
			// delivery is best effort; the tender still counts as reminded
			s.log.WithError(perr).WithField("tender_id", t.ID).Warn("reminder publish failed")
		}
	}
	report.RemindersSent = len(expiring)

	// Phase 2: cleanup. Requires the elevated store.
	if s.remover == nil {
		report.Cleanup = "Cleanup skipped (service role key not configured)."
		s.log.Warn("cleanup skipped: elevated storage credential missing")
		s.record(ctx, started, report, nil)
		return report, nil
	}

	stale, err := s.tenders.ExpiredBefore(ctx, now.Add(-cleanupGrace))
	if err != nil {
		s.record(ctx, started, report, err)
		return nil, utils.E(utils.CodeInternal, op, "failed to query stale tenders", err)
	}

	for _, t := range stale {
		log := s.log.WithFields(logrus.Fields{"tender_id": t.ID, "bid_number": t.BidNumber})

		// storage first, then the row; the two steps are not atomic and a
		// failure skips this tender until the next run
		if t.FilePath != nil && *t.FilePath != "" {
			if rerr := s.remover.Remove(ctx, *t.FilePath); rerr != nil {
				log.WithError(rerr).Error("failed to delete stored pdf, skipping tender")
				continue
			}
		}

		if derr := s.tenders.DeleteCascade(ctx, t.ID); derr != nil {
			log.WithError(derr).Error("failed to delete tender row")
			continue
		}

		report.Deleted++
		log.Info("deleted expired tender")
	}

	if len(stale) == 0 {
		report.Cleanup = "No expired tenders found for cleanup."
	} else {
		report.Cleanup = fmt.Sprintf("Cleaned up %d expired tenders.", report.Deleted)
	}

	s.record(ctx, started, report, nil)
	return report, nil
}

// record writes the run to the history collection, best effort.
func (s *expiryService) record(ctx context.Context, started time.Time, report *ExpiryReport, runErr error) {
	if s.runs == nil {
		return
	}
	run := &models.JobRun{
		RunID:         uuid.NewString(),
		StartedAt:     started,
		FinishedAt:    time.Now().UTC(),
		RemindersSent: report.RemindersSent,
		Deleted:       report.Deleted,
		Cleanup:       report.Cleanup,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := s.runs.Insert(ctx, run); err != nil {
		s.log.WithError(err).Warn("failed to record job run")
	}
}
