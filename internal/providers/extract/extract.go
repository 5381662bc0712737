package extract

import (
	"context"
	"time"
)

// Details are the bid fields pulled out of a tender PDF.
type Details struct {
	BidNumber    string     `json:"bid_number"`
	BidEndDate   *time.Time `json:"bid_end_date"`
	ItemCategory string     `json:"item_category"`
	Subject      string     `json:"subject"`
}

// Provider extracts bid details from the plain text of a tender document.
type Provider interface {
	Extract(ctx context.Context, text string) (*Details, error)
}

// BidUpdate is one row read off a GeM portal screenshot: the bid's
// evaluation progress on the participated-bids list.
type BidUpdate struct {
	BidNumber        string `json:"bid_number"`
	EvaluationStatus string `json:"evaluation_status"`
	RAStatus         string `json:"ra_status,omitempty"`
	ResultDetails    string `json:"result_details,omitempty"`
}

// VisionProvider reads bid statuses out of a portal screenshot image.
type VisionProvider interface {
	ExtractBidUpdates(ctx context.Context, image []byte, mimeType string) ([]BidUpdate, error)
}

// dateLayout is the GeM bid end date format: DD-MM-YYYY HH:MM:SS.
const dateLayout = "02-01-2006 15:04:05"

func parseBidEndDate(s string) *time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
