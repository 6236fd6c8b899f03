// Package summarize はトランスクリプトの要約生成を提供する。
package summarize

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const summaryPrompt = `You are an expert video content analyst. Based on the transcript below, write a concise summary in English.

Requirements:
- Start with a one-sentence overview of the video's topic
- List the main points in the order they appear
- Keep technical terms as-is
- Use plain prose, no markdown headings

Transcript:
---
%s
---`

// Summarizer はテキストを要約するインターフェース。
type Summarizer interface {
	// Summarize はトランスクリプトの英語要約を返す。
	Summarize(ctx context.Context, transcript string) (string, error)
}

// GeminiSummarizer はGemini APIを使用したSummarizerの実装。
// 複数のAPIキーを保持し、レート制限時に次のキーへ切り替える。
// これはプロバイダのフェイルオーバーであり、ステージの再試行ではない。
type GeminiSummarizer struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
}

// NewGeminiSummarizer は指定されたAPIキー群を巡回するGeminiSummarizerを生成する。
func NewGeminiSummarizer(apiKeys []string, model string) (*GeminiSummarizer, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("at least one Gemini API key is required")
	}
	return &GeminiSummarizer{apiKeys: apiKeys, model: model}, nil
}

// Summarize はトランスクリプトをGeminiに送り、要約テキストを返す。
// 429 / quotaエラー時はAPIキーをローテーションして続行する。
func (s *GeminiSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	prompt := fmt.Sprintf(summaryPrompt, transcript)

	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key := s.nextKey(false)

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.nextKey(true)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			if isQuotaError(err) {
				s.nextKey(true)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		text := extractText(result)
		if text == "" {
			return "", fmt.Errorf("empty response from Gemini")
		}
		return strings.TrimSpace(text), nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

// nextKey は現在のAPIキーを返す。rotate=trueの場合は次のキーに進める。
func (s *GeminiSummarizer) nextKey(rotate bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rotate {
		s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	}
	return s.apiKeys[s.currentKey]
}

// isQuotaError はレート制限・クォータ超過エラーかを判定する。
func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// extractText はGenerateContentの結果からテキスト部分を連結して返す。
func extractText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}

// compile-time interface check
var _ Summarizer = (*GeminiSummarizer)(nil)
