package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemtrack/gemtrack/internal/cache"
	"github.com/gemtrack/gemtrack/internal/models"
	"github.com/gemtrack/gemtrack/internal/utils"
)

func checklistFixture() (ChecklistService, *fakeTenderRepo, *fakeChecklistRepo, *fakePublisher, *fakeCache) {
	tenders := newFakeTenderRepo()
	tenders.byID["t-1"] = &models.Tender{ID: "t-1", CompanyID: "co-1", BidNumber: "GEM/2025/B/1"}

	items := &fakeChecklistRepo{byID: map[string]*models.ChecklistItem{
		"item-1": {ID: "item-1", TenderID: "t-1", Code: "F-1", Name: "EMD Payment Proof", Position: 1},
	}}

	pub := &fakePublisher{}
	c := newFakeCache()
	svc := NewChecklistService(items, tenders, &fakeStore{signed: "https://signed.test"}, c, pub, quietLogger())
	return svc, tenders, items, pub, c
}

func TestChecklistUpdateDocumentImpliesReady(t *testing.T) {
	svc, _, items, pub, c := checklistFixture()
	c.m[cache.TenderListKey("co-1")] = []byte("[]")

	url := "co-1/t-1/emd.pdf"
	item, err := svc.Update(context.Background(), "user-1", "co-1", "item-1", ChecklistUpdate{DocumentURL: &url})
	require.NoError(t, err)

	assert.True(t, item.IsReady, "attaching a document marks the item ready")
	require.NotNil(t, item.DocumentURL)
	assert.Equal(t, url, *item.DocumentURL)
	require.NotNil(t, item.UpdatedBy)
	assert.Equal(t, "user-1", *item.UpdatedBy)

	assert.True(t, items.byID["item-1"].IsReady)
	assert.NotContains(t, c.m, cache.TenderListKey("co-1"))
	require.Len(t, pub.changes, 1)
	assert.Equal(t, "updated", pub.changes[0].Type)
}

func TestChecklistUpdatePartialFields(t *testing.T) {
	svc, _, items, _, _ := checklistFixture()

	submitted := true
	notes := "couriered on Monday"
	item, err := svc.Update(context.Background(), "user-1", "co-1", "item-1", ChecklistUpdate{
		IsSubmitted: &submitted,
		Notes:       &notes,
	})
	require.NoError(t, err)

	assert.True(t, item.IsSubmitted)
	assert.Equal(t, notes, item.Notes)
	assert.False(t, item.IsReady, "untouched fields keep their value")
	assert.Nil(t, items.byID["item-1"].DocumentURL)
}

func TestChecklistUpdateEmptyBodyRejected(t *testing.T) {
	svc, _, _, _, _ := checklistFixture()

	_, err := svc.Update(context.Background(), "user-1", "co-1", "item-1", ChecklistUpdate{})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestChecklistUpdateForeignCompanyForbidden(t *testing.T) {
	svc, _, _, _, _ := checklistFixture()

	ready := true
	_, err := svc.Update(context.Background(), "user-1", "co-other", "item-1", ChecklistUpdate{IsReady: &ready})
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestChecklistUpdateUnknownItem(t *testing.T) {
	svc, _, _, _, _ := checklistFixture()

	ready := true
	_, err := svc.Update(context.Background(), "user-1", "co-1", "missing", ChecklistUpdate{IsReady: &ready})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestChecklistDownloadURL(t *testing.T) {
	svc, _, items, _, _ := checklistFixture()

	_, err := svc.DownloadURL(context.Background(), "co-1", "item-1")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "no document attached yet")

	url := "co-1/t-1/emd.pdf"
	items.byID["item-1"].DocumentURL = &url

	signed, err := svc.DownloadURL(context.Background(), "co-1", "item-1")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.test/"+url, signed)
}
