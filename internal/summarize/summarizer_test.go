package summarize

import (
	"errors"
	"testing"

	"google.golang.org/genai"
)

// --- テスト ---

func TestNewGeminiSummarizer_RequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiSummarizer(nil, "gemini-2.5-flash"); err == nil {
		t.Fatal("expected error when no API keys are provided")
	}
}

func TestGeminiSummarizer_KeyRotation(t *testing.T) {
	s, err := NewGeminiSummarizer([]string{"key-a", "key-b", "key-c"}, "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("NewGeminiSummarizer returned error: %v", err)
	}

	if got := s.nextKey(false); got != "key-a" {
		t.Errorf("current key = %q, want %q", got, "key-a")
	}
	if got := s.nextKey(true); got != "key-b" {
		t.Errorf("after rotation key = %q, want %q", got, "key-b")
	}
	if got := s.nextKey(true); got != "key-c" {
		t.Errorf("after rotation key = %q, want %q", got, "key-c")
	}
	// 末尾まで回ったら先頭に戻る
	if got := s.nextKey(true); got != "key-a" {
		t.Errorf("rotation should wrap around, got %q", got)
	}
}

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http 429", errors.New("googleapi: Error 429: rate limited"), true},
		{"quota exceeded", errors.New("quota exceeded for project"), true},
		{"resource exhausted", errors.New("rpc error: code = RESOURCE_EXHAUSTED"), true},
		{"other error", errors.New("invalid argument"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isQuotaError(tt.err); got != tt.want {
				t.Errorf("isQuotaError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "first "},
						{Text: "second"},
					},
				},
			},
		},
	}
	if got := extractText(resp); got != "first second" {
		t.Errorf("extractText = %q, want %q", got, "first second")
	}

	if got := extractText(nil); got != "" {
		t.Errorf("extractText(nil) = %q, want empty", got)
	}
	if got := extractText(&genai.GenerateContentResponse{}); got != "" {
		t.Errorf("extractText(empty) = %q, want empty", got)
	}
}
