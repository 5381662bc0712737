package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemtrack/gemtrack/internal/cache"
	"github.com/gemtrack/gemtrack/internal/lifecycle"
	"github.com/gemtrack/gemtrack/internal/models"
	"github.com/gemtrack/gemtrack/internal/utils"
)

func tenderFixture() (TenderService, *fakeTenderRepo, *fakeStore, *fakeCache, *fakePublisher) {
	repo := newFakeTenderRepo()
	store := &fakeStore{signed: "https://signed.test", removeErr: map[string]error{}}
	c := newFakeCache()
	pub := &fakePublisher{}
	svc := NewTenderService(repo, store, c, pub, quietLogger())
	return svc, repo, store, c, pub
}

func TestTenderListDecoratesFromDeadline(t *testing.T) {
	svc, repo, _, c, _ := tenderFixture()

	soon := time.Now().UTC().Add(5 * time.Hour)
	far := time.Now().UTC().Add(30 * 24 * time.Hour)
	repo.byID["t-1"] = &models.Tender{ID: "t-1", CompanyID: "co-1", BidNumber: "GEM/2025/B/1", BidEndDate: &soon, Status: models.TenderActive}
	repo.byID["t-2"] = &models.Tender{ID: "t-2", CompanyID: "co-1", BidNumber: "GEM/2025/B/2", BidEndDate: &far, Status: models.TenderActive}
	repo.byID["t-3"] = &models.Tender{ID: "t-3", CompanyID: "co-1", BidNumber: "GEM/2025/B/3", Status: models.TenderActive}

	views, err := svc.List(context.Background(), "co-1")
	require.NoError(t, err)
	require.Len(t, views, 3)

	byID := map[string]TenderView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	assert.Equal(t, lifecycle.StatusCritical, byID["t-1"].DisplayStatus)
	assert.Equal(t, "4h remaining", byID["t-1"].TimeRemaining)
	assert.Equal(t, lifecycle.StatusNormal, byID["t-2"].DisplayStatus)
	assert.Equal(t, lifecycle.StatusUnknown, byID["t-3"].DisplayStatus)
	assert.Equal(t, "N/A", byID["t-3"].TimeRemaining)

	assert.Contains(t, c.m, cache.TenderListKey("co-1"))
}

func TestTenderListServesFromCache(t *testing.T) {
	svc, repo, _, c, _ := tenderFixture()

	deadline := time.Now().UTC().Add(48 * time.Hour)
	cached := []models.Tender{{ID: "t-cached", CompanyID: "co-1", BidNumber: "GEM/2025/B/9", BidEndDate: &deadline}}
	require.NoError(t, c.SetJSON(context.Background(), cache.TenderListKey("co-1"), cached, time.Minute))

	// the repo has different contents; the cache wins inside the TTL
	repo.byID["t-db"] = &models.Tender{ID: "t-db", CompanyID: "co-1", BidNumber: "GEM/2025/B/10"}

	views, err := svc.List(context.Background(), "co-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "t-cached", views[0].ID)

	// the decoration is still fresh even for cached rows
	assert.Equal(t, lifecycle.StatusWarning, views[0].DisplayStatus)
}

func TestTenderDeleteRemovesRowThenPDF(t *testing.T) {
	svc, repo, store, c, pub := tenderFixture()

	path := "co-1/GEM_2025_B_1.pdf"
	repo.byID["t-1"] = &models.Tender{ID: "t-1", CompanyID: "co-1", FilePath: &path}
	c.m[cache.TenderListKey("co-1")] = []byte("[]")

	require.NoError(t, svc.Delete(context.Background(), "co-1", "t-1"))

	assert.NotContains(t, repo.byID, "t-1")
	assert.Equal(t, []string{path}, store.removed)
	assert.NotContains(t, c.m, cache.TenderListKey("co-1"))
	require.Len(t, pub.changes, 1)
	assert.Equal(t, "deleted", pub.changes[0].Type)
}

func TestTenderDeleteForeignCompany(t *testing.T) {
	svc, repo, _, _, _ := tenderFixture()
	repo.byID["t-1"] = &models.Tender{ID: "t-1", CompanyID: "co-1"}

	err := svc.Delete(context.Background(), "co-other", "t-1")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	assert.Contains(t, repo.byID, "t-1")
}

func TestTenderDownloadURL(t *testing.T) {
	svc, repo, _, _, _ := tenderFixture()

	path := "co-1/GEM_2025_B_1.pdf"
	repo.byID["t-1"] = &models.Tender{ID: "t-1", CompanyID: "co-1", FilePath: &path}
	repo.byID["t-2"] = &models.Tender{ID: "t-2", CompanyID: "co-1"}

	url, err := svc.DownloadURL(context.Background(), "co-1", "t-1")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.test/"+path, url)

	_, err = svc.DownloadURL(context.Background(), "co-1", "t-2")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestTenderUpdateNickname(t *testing.T) {
	svc, repo, _, c, pub := tenderFixture()

	repo.byID["t-1"] = &models.Tender{ID: "t-1", CompanyID: "co-1", BidNumber: "GEM/2025/B/1"}
	c.m[cache.TenderListKey("co-1")] = []byte("[]")

	nick := "Hospital solar rebid"
	view, err := svc.UpdateNickname(context.Background(), "co-1", "t-1", &nick)
	require.NoError(t, err)
	assert.Equal(t, nick, view.Title())

	assert.NotContains(t, c.m, cache.TenderListKey("co-1"))
	require.Len(t, pub.changes, 1)

	_, err = svc.UpdateNickname(context.Background(), "co-1", "missing", &nick)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
