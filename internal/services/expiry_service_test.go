package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemtrack/gemtrack/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func ptr[T any](v T) *T { return &v }

func expiryFixture() (*fakeTenderRepo, *fakeCompanyRepo, *fakePublisher, *fakeStore, *fakeJobRuns) {
	tenders := newFakeTenderRepo()
	companies := &fakeCompanyRepo{byID: map[string]*models.Company{
		"co-1": {ID: "co-1", Name: "Acme Infra", ReminderRecipients: []string{"ops@acme.test"}},
	}}
	return tenders, companies, &fakePublisher{reminderErrs: map[string]error{}}, &fakeStore{removeErr: map[string]error{}}, &fakeJobRuns{}
}

func TestExpiryRunSendsReminders(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	tenders, companies, pub, store, runs := expiryFixture()

	deadline := now.Add(23 * time.Hour)
	tenders.expiring = []models.Tender{
		{ID: "t-1", CompanyID: "co-1", BidNumber: "GEM/2025/B/100", BidEndDate: &deadline},
	}

	svc := NewExpiryService(tenders, companies, pub, store, runs, quietLogger())
	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 1, report.RemindersSent)
	require.Len(t, pub.reminders, 1)
	ev := pub.reminders[0]
	assert.Equal(t, "t-1", ev.TenderID)
	assert.Equal(t, "Acme Infra", ev.Company)
	assert.Equal(t, deadline.Format("02-01-2006 15:04"), ev.Deadline)
	assert.Equal(t, []string{"ops@acme.test"}, []string(ev.Recipients))
}

func TestExpiryRunReminderPublishFailureStillCounts(t *testing.T) {
	now := time.Now().UTC()
	tenders, companies, pub, store, runs := expiryFixture()

	deadline := now.Add(time.Hour)
	tenders.expiring = []models.Tender{
		{ID: "t-1", CompanyID: "co-1", BidNumber: "GEM/2025/B/100", BidEndDate: &deadline},
		{ID: "t-2", CompanyID: "co-1", BidNumber: "GEM/2025/B/101", BidEndDate: &deadline},
	}
	pub.reminderErrs["t-1"] = errors.New("stream down")

	svc := NewExpiryService(tenders, companies, pub, store, runs, quietLogger())
	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 2, report.RemindersSent)
	assert.Len(t, pub.reminders, 1)
}

func TestExpiryRunCleanupDeletesStorageThenRow(t *testing.T) {
	now := time.Now().UTC()
	tenders, companies, pub, store, runs := expiryFixture()

	old := now.Add(-11 * 24 * time.Hour)
	tenders.stale = []models.Tender{
		{ID: "t-1", CompanyID: "co-1", BidNumber: "GEM/2024/B/1", BidEndDate: &old, FilePath: ptr("co-1/GEM_2024_B_1.pdf")},
		{ID: "t-2", CompanyID: "co-1", BidNumber: "GEM/2024/B/2", BidEndDate: &old},
	}
	tenders.byID["t-1"] = &tenders.stale[0]
	tenders.byID["t-2"] = &tenders.stale[1]

	svc := NewExpiryService(tenders, companies, pub, store, runs, quietLogger())
	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Deleted)
	assert.Equal(t, "Cleaned up 2 expired tenders.", report.Cleanup)
	assert.Equal(t, []string{"co-1/GEM_2024_B_1.pdf"}, store.removed)
	assert.ElementsMatch(t, []string{"t-1", "t-2"}, tenders.deleted)
}

func TestExpiryRunCleanupStorageFailureSkipsTender(t *testing.T) {
	now := time.Now().UTC()
	tenders, companies, pub, store, runs := expiryFixture()

	old := now.Add(-11 * 24 * time.Hour)
	tenders.stale = []models.Tender{
		{ID: "t-1", CompanyID: "co-1", BidEndDate: &old, FilePath: ptr("co-1/a.pdf")},
		{ID: "t-2", CompanyID: "co-1", BidEndDate: &old, FilePath: ptr("co-1/b.pdf")},
	}
	tenders.byID["t-1"] = &tenders.stale[0]
	tenders.byID["t-2"] = &tenders.stale[1]
	store.removeErr["co-1/a.pdf"] = errors.New("bucket unavailable")

	svc := NewExpiryService(tenders, companies, pub, store, runs, quietLogger())
	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	// the failing tender is skipped, not fatal; it stays for the next run
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, "Cleaned up 1 expired tenders.", report.Cleanup)
	assert.Equal(t, []string{"t-2"}, tenders.deleted)
	assert.Contains(t, tenders.byID, "t-1")
}

func TestExpiryRunCleanupSkippedWithoutRemover(t *testing.T) {
	now := time.Now().UTC()
	tenders, companies, pub, _, runs := expiryFixture()

	old := now.Add(-11 * 24 * time.Hour)
	tenders.stale = []models.Tender{{ID: "t-1", CompanyID: "co-1", BidEndDate: &old}}
	tenders.byID["t-1"] = &tenders.stale[0]

	svc := NewExpiryService(tenders, companies, pub, nil, runs, quietLogger())
	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, "Cleanup skipped (service role key not configured).", report.Cleanup)
	assert.Zero(t, report.Deleted)
	assert.Empty(t, tenders.deleted)
}

func TestExpiryRunNoStaleTenders(t *testing.T) {
	now := time.Now().UTC()
	tenders, companies, pub, store, runs := expiryFixture()

	svc := NewExpiryService(tenders, companies, pub, store, runs, quietLogger())
	report, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Zero(t, report.RemindersSent)
	assert.Equal(t, "No expired tenders found for cleanup.", report.Cleanup)
}

func TestExpiryRunQueryFailureIsFatal(t *testing.T) {
	now := time.Now().UTC()
	tenders, companies, pub, store, runs := expiryFixture()
	tenders.expiringErr = errors.New("connection refused")

	svc := NewExpiryService(tenders, companies, pub, store, runs, quietLogger())
	report, err := svc.Run(context.Background(), now)
	assert.Error(t, err)
	assert.Nil(t, report)

	// the failed run still lands in the history
	if assert.Len(t, runs.runs, 1) {
		assert.NotEmpty(t, runs.runs[0].Error)
	}
}

func TestExpiryRunRecordsHistory(t *testing.T) {
	now := time.Now().UTC()
	tenders, companies, pub, store, runs := expiryFixture()

	svc := NewExpiryService(tenders, companies, pub, store, runs, quietLogger())
	_, err := svc.Run(context.Background(), now)
	require.NoError(t, err)

	require.Len(t, runs.runs, 1)
	run := runs.runs[0]
	assert.NotEmpty(t, run.RunID)
	assert.Empty(t, run.Error)
	assert.Equal(t, "No expired tenders found for cleanup.", run.Cleanup)
}
