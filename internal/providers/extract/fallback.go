package extract

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// RegexFallback parses bid details with patterns matched against the GeM
// document layout. Used when no Gemini provider is configured or the model
// call fails.
type RegexFallback struct{}

var (
	bidNumberRe     = regexp.MustCompile(`(?i)Bid Number\s*[:.]?\s*(GEM/\S+)`)
	bidNumberBareRe = regexp.MustCompile(`(GEM/\d{4}/[A-Z]/\d+)`)
	endDateRe       = regexp.MustCompile(`(?i)Bid End Date/Time\s*[:.]?\s*(\d{2}-\d{2}-\d{4}\s*\d{2}:\d{2}:\d{2})`)
	categoryRe      = regexp.MustCompile(`(?i)Item Category\s*[:.]?\s*(.+)`)
	spacesRe        = regexp.MustCompile(`\s+`)
)

func (RegexFallback) Extract(_ context.Context, text string) (*Details, error) {
	d := &Details{}

	if m := bidNumberRe.FindStringSubmatch(text); m != nil {
		d.BidNumber = strings.TrimSpace(m[1])
	} else if m := bidNumberBareRe.FindStringSubmatch(text); m != nil {
		d.BidNumber = m[1]
	}
	if d.BidNumber == "" {
		return nil, errors.New("no bid number found")
	}

	if m := endDateRe.FindStringSubmatch(text); m != nil {
		d.BidEndDate = parseBidEndDate(spacesRe.ReplaceAllString(strings.TrimSpace(m[1]), " "))
	}

	if m := categoryRe.FindStringSubmatch(text); m != nil {
		cat := strings.TrimSpace(m[1])
		d.ItemCategory = cat

		// subject is the first ten words of the category line
		words := strings.Fields(cat)
		if len(words) > 10 {
			d.Subject = strings.Join(words[:10], " ") + "..."
		} else {
			d.Subject = cat
		}
	}

	return d, nil
}
