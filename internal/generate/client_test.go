package generate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestGeneratePersistsFirstArtifact(t *testing.T) {
	pngData := testPNG(t)
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TextPrompts []struct {
				Text string `json:"text"`
			} `json:"text_prompts"`
			Width  int `json:"width"`
			Height int `json:"height"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.TextPrompts) == 1 {
			gotPrompt = req.TextPrompts[0].Text
		}
		if req.Width != 64 || req.Height != 64 {
			t.Errorf("resolution = %dx%d, want 64x64", req.Width, req.Height)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"artifacts": []map[string]any{
				{"base64": base64.StdEncoding.EncodeToString(pngData), "seed": 1234},
			},
		})
	}))
	defer server.Close()

	dir := t.TempDir()
	client := NewClient(server.URL, 5*time.Second, dir, 64)

	path, err := client.Generate(context.Background(), "a red cat")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gotPrompt != "a red cat" {
		t.Fatalf("prompt sent = %q", gotPrompt)
	}
	if path != filepath.Join(dir, "txt2img_1234.png") {
		t.Fatalf("artifact path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !bytes.Equal(data, pngData) {
		t.Fatalf("persisted artifact differs from response payload")
	}
}

func TestGenerateFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"bad status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"undecodable body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"empty artifacts", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"artifacts": []any{}})
		}},
		{"bad base64", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"artifacts": []map[string]any{{"base64": "@@@", "seed": 1}},
			})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()
			client := NewClient(server.URL, 5*time.Second, t.TempDir(), 64)
			if _, err := client.Generate(context.Background(), "x"); !errors.Is(err, ErrGenerationFailed) {
				t.Fatalf("err = %v, want ErrGenerationFailed", err)
			}
		})
	}
}
