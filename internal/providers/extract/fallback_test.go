package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBidText = `
Bid Document

Bid Number: GEM/2025/B/6012345
Dated: 01-03-2025
Bid End Date/Time: 15-03-2025 15:00:00
Bid Opening Date/Time: 15-03-2025 15:30:00

Item Category: Custom Bid for Services - Supply Installation Testing and Commissioning of Rooftop Solar Power Plant at District Hospital

Minimum Average Annual Turnover of the bidder: 20 Lakh (s)
`

func TestRegexFallbackExtract(t *testing.T) {
	d, err := RegexFallback{}.Extract(context.Background(), sampleBidText)
	require.NoError(t, err)

	assert.Equal(t, "GEM/2025/B/6012345", d.BidNumber)

	require.NotNil(t, d.BidEndDate)
	want := time.Date(2025, 3, 15, 15, 0, 0, 0, time.UTC)
	assert.True(t, d.BidEndDate.Equal(want), "got %v", d.BidEndDate)

	assert.Contains(t, d.ItemCategory, "Rooftop Solar Power Plant")

	// subject is capped at ten words
	assert.Equal(t, "Custom Bid for Services - Supply Installation Testing and Commissioning...", d.Subject)
}

func TestRegexFallbackBareBidNumber(t *testing.T) {
	d, err := RegexFallback{}.Extract(context.Background(), "ref GEM/2024/B/42 attached")
	require.NoError(t, err)
	assert.Equal(t, "GEM/2024/B/42", d.BidNumber)
	assert.Nil(t, d.BidEndDate)
	assert.Empty(t, d.Subject)
}

func TestRegexFallbackNoBidNumber(t *testing.T) {
	_, err := RegexFallback{}.Extract(context.Background(), "quarterly report, nothing tender shaped")
	assert.Error(t, err)
}

func TestRegexFallbackShortCategory(t *testing.T) {
	d, err := RegexFallback{}.Extract(context.Background(),
		"Bid Number: GEM/2025/B/7\nItem Category: Desktop Computers")
	require.NoError(t, err)
	assert.Equal(t, "Desktop Computers", d.Subject)
}

func TestParseBidEndDateInvalid(t *testing.T) {
	assert.Nil(t, parseBidEndDate("2025-03-15 15:00:00"))
	assert.Nil(t, parseBidEndDate(""))
}
