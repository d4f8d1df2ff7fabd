package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/platform/obs"
	"field-survey-service/internal/ports"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// GeminiClient describes site photos through the Gemini generateContent API.
type GeminiClient struct {
	apiKey   string
	model    string
	baseURL  string
	session  *http.Client
	backoff  time.Duration
	maxDelay time.Duration
}

type Option func(*GeminiClient)

func WithBaseURL(u string) Option {
	return func(c *GeminiClient) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *GeminiClient) { c.session = h }
}

func NewGeminiClient(apiKey, model string, opts ...Option) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("new gemini client: %w", ports.ErrClassifierUnavailable)
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	c := &GeminiClient{
		apiKey:   apiKey,
		model:    model,
		baseURL:  DefaultBaseURL,
		session:  &http.Client{Timeout: 30 * time.Second},
		backoff:  defaultBackoff,
		maxDelay: defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"response_mime_type"`
	ResponseSchema   map[string]any `json:"response_schema"`
	Temperature      float64        `json:"temperature"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

var responseSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"suggestedName":   map[string]any{"type": "STRING"},
		"detectedType":    map[string]any{"type": "STRING"},
		"characteristics": map[string]any{"type": "STRING"},
		"observations":    map[string]any{"type": "STRING"},
	},
	"required": []string{"suggestedName", "detectedType", "characteristics", "observations"},
}

func buildPrompt() string {
	labels := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		labels = append(labels, fmt.Sprintf("%q", string(c)))
	}

	return `You are an expert surveying and cadastre engineer. Analyze this photo of a field survey point.
Return a JSON object with these fields:
- suggestedName: a short technical name (e.g. "Pavement Cracking", "Collapsed Wall").
- detectedType: classify EXACTLY as one of: ` + strings.Join(labels, ", ") + `.
- characteristics: technical description of what is visible (materials, dimensions, estimated depth). At most 15 words.
- observations: notes relevant to risk management or cadastre. At most 15 words.`
}

// Classify sends the photo to Gemini and returns its suggested point fields.
// The returned Category is the raw model label.
func (c *GeminiClient) Classify(ctx context.Context, photo *domain.Photo) (_ ports.Classification, err error) {
	defer obs.Time(ctx, "gemini.Classify")(&err)

	if photo == nil || len(photo.Data) == 0 {
		return ports.Classification{}, errors.New("classify: photo is empty")
	}

	mimeType := photo.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: mimeType, Data: photo.Base64()}},
				{Text: buildPrompt()},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
			Temperature:      0.2,
		},
	})
	if err != nil {
		return ports.Classification{}, fmt.Errorf("classify: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	resp, err := c.post(ctx, endpoint, payload)
	if err != nil {
		return ports.Classification{}, fmt.Errorf("classify: execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.Classification{}, fmt.Errorf("classify: read response: %w", err)
	}

	return parseClassification(body)
}

func parseClassification(body []byte) (ports.Classification, error) {
	if !gjson.ValidBytes(body) {
		return ports.Classification{}, errors.New("classify: response is not valid json")
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text")
	if !text.Exists() || strings.TrimSpace(text.String()) == "" {
		reason := gjson.GetBytes(body, "promptFeedback.blockReason").String()
		if reason != "" {
			return ports.Classification{}, fmt.Errorf("classify: prompt blocked: %s", reason)
		}
		return ports.Classification{}, errors.New("classify: no response text")
	}

	result := text.String()
	if !gjson.Valid(result) {
		return ports.Classification{}, errors.New("classify: response text is not valid json")
	}

	fields := gjson.GetMany(result, "suggestedName", "detectedType", "characteristics", "observations")
	return ports.Classification{
		SuggestedName:   strings.TrimSpace(fields[0].String()),
		Category:        strings.TrimSpace(fields[1].String()),
		Characteristics: strings.TrimSpace(fields[2].String()),
		Observations:    strings.TrimSpace(fields[3].String()),
	}, nil
}
