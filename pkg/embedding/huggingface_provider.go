package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultSentenceModel = "sentence-transformers/all-MiniLM-L6-v2"

// HuggingFaceProvider calls the Hugging Face inference API
// feature-extraction pipeline.
type HuggingFaceProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewHuggingFaceProvider(apiKey, model string) *HuggingFaceProvider {
	if model == "" {
		model = defaultSentenceModel
	}
	return &HuggingFaceProvider{
		apiKey:  apiKey,
		baseURL: "https://api-inference.huggingface.co",
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type hfEmbeddingRequest struct {
	Inputs []string `json:"inputs"`
}

func (p *HuggingFaceProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody, err := json.Marshal(hfEmbeddingRequest{Inputs: []string{text}})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/pipeline/feature-extraction/%s", p.baseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface embedding error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	// One vector per input sentence
	var vectors [][]float32
	if err := json.Unmarshal(bodyBytes, &vectors); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}

	return Normalize(vectors[0]), nil
}
