package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/gemtrack/gemtrack/internal/events"
	"github.com/gemtrack/gemtrack/internal/models"
	"github.com/gemtrack/gemtrack/internal/utils"
)

type fakeTenderRepo struct {
	byID     map[string]*models.Tender
	expiring []models.Tender
	stale    []models.Tender

	expiringErr error
	staleErr    error
	evalErr     error
	deleteErr   map[string]error

	deleted []string
}

func newFakeTenderRepo() *fakeTenderRepo {
	return &fakeTenderRepo{byID: map[string]*models.Tender{}, deleteErr: map[string]error{}}
}

func (r *fakeTenderRepo) Insert(_ context.Context, t *models.Tender, items []models.ChecklistItem) error {
	r.byID[t.ID] = t
	return nil
}

func (r *fakeTenderRepo) ListByCompany(_ context.Context, companyID string) ([]models.Tender, error) {
	var out []models.Tender
	for _, t := range r.byID {
		if t.CompanyID == companyID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTenderRepo) GetByID(_ context.Context, companyID, id string) (*models.Tender, error) {
	t, ok := r.byID[id]
	if !ok || t.CompanyID != companyID {
		return nil, utils.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTenderRepo) UpdateNickname(_ context.Context, companyID, id string, nickname *string) error {
	t, ok := r.byID[id]
	if !ok || t.CompanyID != companyID {
		return utils.ErrNotFound
	}
	t.Nickname = nickname
	return nil
}

func (r *fakeTenderRepo) ExpiringBetween(_ context.Context, _, _ time.Time) ([]models.Tender, error) {
	return r.expiring, r.expiringErr
}

func (r *fakeTenderRepo) ExpiredBefore(_ context.Context, _ time.Time) ([]models.Tender, error) {
	return r.stale, r.staleErr
}

func (r *fakeTenderRepo) UpdateEvaluation(_ context.Context, companyID, bidNumber, status string) (bool, error) {
	if r.evalErr != nil {
		return false, r.evalErr
	}
	for _, t := range r.byID {
		if t.CompanyID == companyID && t.BidNumber == bidNumber {
			t.EvaluationStatus = &status
			t.IsParticipated = true
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTenderRepo) DeleteCascade(_ context.Context, id string) error {
	if err := r.deleteErr[id]; err != nil {
		return err
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeCompanyRepo struct {
	byID map[string]*models.Company
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id string) (*models.Company, error) {
	co, ok := r.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return co, nil
}

func (r *fakeCompanyRepo) UpdateRecipients(_ context.Context, id string, recipients []string) error {
	co, ok := r.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	co.ReminderRecipients = recipients
	return nil
}

type fakeChecklistRepo struct {
	byID map[string]*models.ChecklistItem
}

func (r *fakeChecklistRepo) GetByID(_ context.Context, id string) (*models.ChecklistItem, error) {
	item, ok := r.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *fakeChecklistRepo) Save(_ context.Context, item *models.ChecklistItem) error {
	r.byID[item.ID] = item
	return nil
}

type fakePublisher struct {
	reminders    []events.ReminderEvent
	changes      []events.TenderEvent
	reminderErrs map[string]error
}

func (p *fakePublisher) PublishReminder(_ context.Context, ev events.ReminderEvent) error {
	if err := p.reminderErrs[ev.TenderID]; err != nil {
		return err
	}
	p.reminders = append(p.reminders, ev)
	return nil
}

func (p *fakePublisher) PublishTenderChange(_ context.Context, _ string, ev events.TenderEvent) error {
	p.changes = append(p.changes, ev)
	return nil
}

type fakeStore struct {
	removed   []string
	removeErr map[string]error
	signed    string
}

func (s *fakeStore) Upload(_ context.Context, objectName, _ string, _ io.Reader) (string, error) {
	return objectName, nil
}

func (s *fakeStore) Remove(_ context.Context, objectName string) error {
	if err := s.removeErr[objectName]; err != nil {
		return err
	}
	s.removed = append(s.removed, objectName)
	return nil
}

func (s *fakeStore) SignedURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	if s.signed == "" {
		return "", errors.New("signing unavailable")
	}
	return s.signed + "/" + objectName, nil
}

type fakeCache struct {
	m map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{m: map[string][]byte{}} }

func (c *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	b, ok := c.m[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.m[key] = b
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.m, k)
	}
	return nil
}

type fakeJobRuns struct {
	runs []models.JobRun
}

func (r *fakeJobRuns) Insert(_ context.Context, run *models.JobRun) error {
	r.runs = append(r.runs, *run)
	return nil
}

func (r *fakeJobRuns) Recent(_ context.Context, _ int64) ([]models.JobRun, error) {
	return r.runs, nil
}
