// Package generate calls the external text-to-image service that replaces
// the canvas with a picture seeded by the accumulated sentence.
package generate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// APIKeyEnv names the environment variable holding the bearer credential.
const APIKeyEnv = "API_AUTH_KEY"

// Fixed generation parameters. Every request uses the same resolution,
// step count, seed, guidance scale, and a single sample.
const (
	genSteps    = 40
	genSeed     = 0
	genCfgScale = 5
	genSamples  = 1
)

// ErrGenerationFailed covers non-2xx responses, undecodable payloads, and
// empty artifact lists. Callers treat all of them the same: leave the
// canvas untouched.
var ErrGenerationFailed = errors.New("image generation failed")

// Client posts prompts to the generation endpoint and persists the first
// returned artifact into the image store. One attempt per call, no retry.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	imageDir   string
	size       int
}

// NewClient builds a generation client writing artifacts into imageDir as
// size x size images. The API key is read from the process environment.
func NewClient(url string, timeout time.Duration, imageDir string, size int) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		apiKey:     os.Getenv(APIKeyEnv),
		imageDir:   imageDir,
		size:       size,
	}
}

type textPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type generationRequest struct {
	Steps       int          `json:"steps"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Seed        int          `json:"seed"`
	CfgScale    float64      `json:"cfg_scale"`
	Samples     int          `json:"samples"`
	TextPrompts []textPrompt `json:"text_prompts"`
}

type generationResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
		Seed   int64  `json:"seed"`
	} `json:"artifacts"`
}

// Generate submits the prompt and returns the stored path of the first
// returned image. Any failure comes back wrapping ErrGenerationFailed.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generationRequest{
		Steps:       genSteps,
		Width:       c.size,
		Height:      c.size,
		Seed:        genSeed,
		CfgScale:    genCfgScale,
		Samples:     genSamples,
		TextPrompts: []textPrompt{{Text: prompt, Weight: 1}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrGenerationFailed, resp.StatusCode)
	}

	var decoded generationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrGenerationFailed, err)
	}
	if len(decoded.Artifacts) == 0 {
		return "", fmt.Errorf("%w: no artifacts returned", ErrGenerationFailed)
	}

	artifact := decoded.Artifacts[0]
	data, err := base64.StdEncoding.DecodeString(artifact.Base64)
	if err != nil {
		return "", fmt.Errorf("%w: decode artifact: %v", ErrGenerationFailed, err)
	}

	path := filepath.Join(c.imageDir, fmt.Sprintf("txt2img_%d.png", artifact.Seed))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("persist artifact: %w", err)
	}
	return path, nil
}
