package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"

	"github.com/AI-Template-SDK/senso-visibility/internal/models"
	"github.com/AI-Template-SDK/senso-visibility/internal/providers/testutil"
	"github.com/AI-Template-SDK/senso-visibility/services"
)

func chatCompletionBody(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   services.NameVariationModel,
		"choices": []map[string]interface{}{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]interface{}{"role": "assistant", "content": content},
		}},
		"usage": map[string]interface{}{"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150},
	})
	return string(body)
}

func TestSuggestTags(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		gotModel, _ = req["model"].(string)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletionBody(`{"names": ["Juleo", "juleo", "Juleo App", "Juleo Inc", "https://juleo.com", "", "JULEO APP"]}`)))
	}))
	defer server.Close()

	svc := services.NewNameVariationService(testutil.SampleConfig(),
		option.WithBaseURL(server.URL+"/"),
		option.WithMaxRetries(0),
	)

	tags, err := svc.SuggestTags(context.Background(), "Juleo", "juleo.com")
	if err != nil {
		t.Fatalf("SuggestTags failed: %v", err)
	}
	if gotModel != services.NameVariationModel {
		t.Errorf("model = %q, want %q", gotModel, services.NameVariationModel)
	}
	want := []string{"Juleo App", "Juleo Inc"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("SuggestTags() = %v, want %v", tags, want)
	}
}

func TestSuggestTagsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletionBody(`not json`)))
	}))
	defer server.Close()

	svc := services.NewNameVariationService(testutil.SampleConfig(),
		option.WithBaseURL(server.URL+"/"),
		option.WithMaxRetries(0),
	)

	if _, err := svc.SuggestTags(context.Background(), " ", ""); !errors.Is(err, services.ErrInvalidAudit) {
		t.Errorf("expected ErrInvalidAudit for blank brand, got %v", err)
	}
	if _, err := svc.SuggestTags(context.Background(), "Juleo", ""); err == nil {
		t.Error("expected a parse error for malformed content")
	}
}

func TestMergeTags(t *testing.T) {
	brand := models.BrandIdentity{Name: "Acme", Tags: []string{"Acme Corp"}}

	got := services.MergeTags(brand, []string{"acme corp", "ACME Inc", "www.acme.com", "sales@acme.com", "Acme-Co", "ACME INC"})
	want := []string{"Acme Corp", "ACME Inc", "Acme-Co"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeTags() = %v, want %v", got, want)
	}
}
