package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/shopgrid/querykit/internal/domain"
	"github.com/shopgrid/querykit/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

// embeddingResponse mirrors the OpenAI-compatible API embedding response.
type embeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingData `json:"data"`
	Model  string          `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

type embeddingData struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

func embeddingServer(t *testing.T, vectors [][]float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		resp := embeddingResponse{Object: "list", Model: "test-model"}
		for i, vec := range vectors {
			resp.Data = append(resp.Data, embeddingData{
				Object: "embedding", Embedding: vec, Index: i,
			})
		}
		resp.Usage.PromptTokens = 10
		resp.Usage.TotalTokens = 10

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestEmbedder(baseURL string, dim int) *Embedder {
	return NewEmbedder(&Config{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Model:      "test-model",
		Dimensions: dim,
		Provider:   "test",
		Logger:     zap.NewNop(),
	})
}

func TestEmbedder_Embed(t *testing.T) {
	want := []float32{0.1, 0.2, 0.3, 0.4}
	server := embeddingServer(t, [][]float32{want})
	defer server.Close()

	result, err := newTestEmbedder(server.URL, 4).Embed(context.Background(), "red running shoes")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(result.Embedding) != len(want) {
		t.Fatalf("embedding has %d dims, want %d", len(result.Embedding), len(want))
	}
	for i, v := range want {
		if result.Embedding[i] != v {
			t.Errorf("embedding[%d] = %v, want %v", i, result.Embedding[i], v)
		}
	}
	if result.PromptTokens != 10 || result.TotalTokens != 10 {
		t.Errorf("usage = %d/%d, want 10/10", result.PromptTokens, result.TotalTokens)
	}
}

func TestEmbedder_BlankTextSkipsAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("blank text must not hit the API")
	}))
	defer server.Close()

	result, err := newTestEmbedder(server.URL, 4).Embed(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(result.Embedding) != 4 {
		t.Fatalf("zero vector has %d dims, want 4", len(result.Embedding))
	}
	for i, v := range result.Embedding {
		if v != 0 {
			t.Errorf("embedding[%d] = %v, want 0", i, v)
		}
	}
}

func TestEmbedder_BatchEmbed(t *testing.T) {
	server := embeddingServer(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}})
	defer server.Close()

	result, err := newTestEmbedder(server.URL, 2).BatchEmbed(
		context.Background(), []string{"first product", "second product"})
	if err != nil {
		t.Fatalf("BatchEmbed failed: %v", err)
	}
	if len(result.Embeddings) != 2 {
		t.Fatalf("got %d embeddings, want 2", len(result.Embeddings))
	}
	if result.Embeddings[1][0] != 0.3 {
		t.Errorf("embeddings[1][0] = %v, want 0.3", result.Embeddings[1][0])
	}
}

func TestEmbedder_BatchEmbedBlankEntriesZeroFilled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Errorf("API received %d inputs, want only the 2 non-blank ones: %v", len(req.Input), req.Input)
		}

		resp := embeddingResponse{Object: "list", Model: "test-model"}
		for i := range req.Input {
			resp.Data = append(resp.Data, embeddingData{
				Object: "embedding", Embedding: []float32{0.1, float32(i)}, Index: i,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	result, err := newTestEmbedder(server.URL, 2).BatchEmbed(
		context.Background(), []string{"first", "   ", "third"})
	if err != nil {
		t.Fatalf("BatchEmbed failed: %v", err)
	}
	if len(result.Embeddings) != 3 {
		t.Fatalf("got %d embeddings, want 3", len(result.Embeddings))
	}
	blank := result.Embeddings[1]
	if len(blank) != 2 || blank[0] != 0 || blank[1] != 0 {
		t.Errorf("blank entry = %v, want the zero vector", blank)
	}
	if result.Embeddings[0][0] != 0.1 || result.Embeddings[2][1] != 1 {
		t.Errorf("non-blank entries out of order: %v", result.Embeddings)
	}
}

func TestEmbedder_BatchEmbedAllBlankSkipsAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("all-blank batch must not hit the API")
	}))
	defer server.Close()

	result, err := newTestEmbedder(server.URL, 3).BatchEmbed(
		context.Background(), []string{"", "  "})
	if err != nil {
		t.Fatalf("BatchEmbed failed: %v", err)
	}
	if len(result.Embeddings) != 2 {
		t.Fatalf("got %d embeddings, want 2", len(result.Embeddings))
	}
	for i, vec := range result.Embeddings {
		if len(vec) != 3 {
			t.Fatalf("embeddings[%d] has %d dims, want 3", i, len(vec))
		}
	}
}

func TestEmbedder_ShortResponseIsProviderError(t *testing.T) {
	server := embeddingServer(t, [][]float32{{0.1, 0.2}})
	defer server.Close()

	_, err := newTestEmbedder(server.URL, 2).BatchEmbed(
		context.Background(), []string{"one", "two"})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestEmbedder_APIErrorWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"model overloaded"}`))
	}))
	defer server.Close()

	_, err := newTestEmbedder(server.URL, 4).Embed(context.Background(), "anything")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
}
