package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName, credentialsFile string) (*VertexGemini, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	c, err := vertexgenai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

const extractPrompt = `You are an expert at parsing GeM (Government e-Marketplace) tender documents.
Extract the following details from the provided text context of a tender PDF:
- Bid Number (Format: GEM/YYYY/X/#######)
- Bid End Date/Time (Format: DD-MM-YYYY HH:MM:SS)
- Item Category (Full name)
- Subject (A concise summary of the tender in exactly 10 words)

Return the data in STRICT JSON format like this:
{
    "bid_number": "...",
    "bid_end_date": "...",
    "item_category": "...",
    "subject": "..."
}

Tender Text Context:
`

// context cap keeps prompts inside the model input budget
const maxContextChars = 10000

func (v *VertexGemini) Extract(ctx context.Context, text string) (*Details, error) {
	if len(text) > maxContextChars {
		text = text[:maxContextChars]
	}

	raw, err := v.generate(ctx, vertexgenai.Text(extractPrompt+text))
	if err != nil {
		return nil, err
	}

	var payload struct {
		BidNumber    string `json:"bid_number"`
		BidEndDate   string `json:"bid_end_date"`
		ItemCategory string `json:"item_category"`
		Subject      string `json:"subject"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	if payload.BidNumber == "" {
		return nil, errors.New("model response has no bid number")
	}

	return &Details{
		BidNumber:    payload.BidNumber,
		BidEndDate:   parseBidEndDate(payload.BidEndDate),
		ItemCategory: payload.ItemCategory,
		Subject:      payload.Subject,
	}, nil
}

const screenshotPrompt = `You are an expert at reading GeM (Government e-Marketplace) portal screenshots.
The image shows the bid list of a seller dashboard. For every bid row visible,
extract:
- bid_number (Format: GEM/YYYY/X/#######)
- evaluation_status (one of: Technical Evaluation, Financial Evaluation, Awarded, Disqualified)
- ra_status (reverse auction status, if shown)
- result_details (any result text, if shown)

Return STRICT JSON: an array of objects with keys
bid_number, evaluation_status, ra_status, result_details. Return [] if no
bid rows are visible.`

func (v *VertexGemini) ExtractBidUpdates(ctx context.Context, image []byte, mimeType string) ([]BidUpdate, error) {
	raw, err := v.generate(ctx,
		vertexgenai.Blob{MIMEType: mimeType, Data: image},
		vertexgenai.Text(screenshotPrompt))
	if err != nil {
		return nil, err
	}

	var updates []BidUpdate
	if err := json.Unmarshal([]byte(raw), &updates); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	out := updates[:0]
	for _, u := range updates {
		if u.BidNumber != "" {
			out = append(out, u)
		}
	}
	return out, nil
}

// generate runs the model and returns the fence-stripped text response.
func (v *VertexGemini) generate(ctx context.Context, parts ...vertexgenai.Part) (string, error) {
	resp, err := v.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}

	raw := strings.TrimSpace(sb.String())
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw), nil
}
