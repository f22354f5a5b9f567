// Package genai talks to the Gemini image generation REST API. The service
// contract is narrow: prompt text plus ordered reference images in, exactly
// one image out.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-3-pro-image-preview"
)

// resolutionLabels maps the enumerated output resolutions to the API's
// image size strings. Unknown resolutions fall back to 2K.
var resolutionLabels = map[int]string{
	1024: "1K",
	2048: "2K",
	4096: "4K",
}

// ResolutionLabel returns the API image size string for a resolution.
func ResolutionLabel(resolution int) string {
	if label, ok := resolutionLabels[resolution]; ok {
		return label
	}
	return "2K"
}

// Client is the external generation collaborator. It may be slow (seconds)
// and may fail on network or quota; failures propagate unretried.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	log     hclog.Logger
}

// NewClient creates a generation client. Empty model selects the default.
func NewClient(apiKey, model string, logger hclog.Logger) *Client {
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		model:   model,
		// Image generation regularly takes tens of seconds at 4K.
		http: &http.Client{Timeout: 5 * time.Minute},
		log:  logger,
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// Generate sends a prompt and ordered reference images and returns the
// single generated image. Image order is part of the service contract:
// the composite/template first, the character reference second.
func (c *Client) Generate(ctx context.Context, prompt string, images []image.Image, resolution int) (image.Image, error) {
	parts := []part{{Text: prompt}}
	for i, img := range images {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode reference image %d: %w", i, err)
		}
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: "image/png",
			Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
		}})
	}

	reqBody := generateContentRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
			ImageConfig: &imageConfig{
				AspectRatio: "1:1",
				ImageSize:   ResolutionLabel(resolution),
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	c.log.Debug("generation request", "model", c.model, "images", len(images), "size", ResolutionLabel(resolution))

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// Error bodies are usually JSON with an error field, but proxies can
	// return HTML; the status code must win over a decode failure there.
	var result generateContentResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("generation API status %d: %s", resp.StatusCode, bodySnippet(respBody))
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("generation API error %d: %s", result.Error.Code, result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation API status %d", resp.StatusCode)
	}

	return extractImage(result)
}

// bodySnippet trims a response body for use in error messages.
func bodySnippet(b []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}

// extractImage pulls the first inline image out of a response, skipping
// text parts.
func extractImage(resp generateContentResponse) (image.Image, error) {
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil {
				continue
			}
			raw, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("decode image data: %w", err)
			}
			img, _, err := image.Decode(bytes.NewReader(raw))
			if err != nil {
				return nil, fmt.Errorf("decode generated image: %w", err)
			}
			return img, nil
		}
	}
	return nil, fmt.Errorf("no image in response")
}
