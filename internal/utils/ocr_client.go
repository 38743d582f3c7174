package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OCRClient calls the hosted OCR provider's HTTP API. Only single-image
// text extraction is consumed; any parsing of the result is the caller's
// problem.
type OCRClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewOCRClient(baseURL, apiKey string) *OCRClient {
	return &OCRClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (o *OCRClient) Enabled() bool {
	return o.baseURL != "" && o.apiKey != ""
}

type ocrRequest struct {
	Image    string `json:"base64Image"`
	Language string `json:"language,omitempty"`
}

type ocrResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool   `json:"IsErroredOnProcessing"`
	ErrorMessage          string `json:"ErrorMessage"`
}

// ExtractText sends a base64-encoded image and returns the recognised text.
func (o *OCRClient) ExtractText(ctx context.Context, base64Image, language string) (string, error) {
	body, err := json.Marshal(ocrRequest{Image: base64Image, Language: language})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr provider returned status %d", resp.StatusCode)
	}

	var parsed ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.IsErroredOnProcessing {
		return "", fmt.Errorf("ocr processing failed: %s", parsed.ErrorMessage)
	}

	text := ""
	for _, r := range parsed.ParsedResults {
		text += r.ParsedText
	}
	return text, nil
}
