// Package translate は要約テキストの目的言語への翻訳を提供する。
package translate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const translatePrompt = `Translate the following text into the language identified by the BCP-47 / ISO language code %q.
Output ONLY the translated text, with no preamble and no explanation.

Text:
---
%s
---`

// Translator はテキストを指定されたプロバイダコードの言語へ翻訳するインターフェース。
// 翻訳失敗は呼び出し側（オーケストレーター）で縮退処理されるため、
// この層では通常のエラーとして報告する。
type Translator interface {
	Translate(ctx context.Context, text, providerCode string) (string, error)
}

// langModel は言語ごとに遅延構築される翻訳ハンドル。
// 一度publishされた後は読み取り専用。
type langModel struct {
	client *genai.Client
	code   string
}

// GeminiTranslator はGemini APIを使用したTranslatorの実装。
//
// 言語ごとの翻訳ハンドルは初回利用時に遅延構築され、プロセス全体で
// 共有される。同一言語への同時初回アクセスでもハンドルが二重構築
// されないよう、ダブルチェックロッキングで「スロットを確保してから
// 構築し、構築完了後に公開する」規律を守る。
type GeminiTranslator struct {
	apiKey string
	model  string

	mu     sync.RWMutex
	models map[string]*langModel
}

// NewGeminiTranslator はGeminiTranslatorを生成する。
func NewGeminiTranslator(apiKey, model string) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("a Gemini API key is required")
	}
	return &GeminiTranslator{
		apiKey: apiKey,
		model:  model,
		models: make(map[string]*langModel),
	}, nil
}

// Translate はテキストを指定されたプロバイダコードの言語へ翻訳する。
func (t *GeminiTranslator) Translate(ctx context.Context, text, providerCode string) (string, error) {
	lm, err := t.getOrLoadModel(ctx, providerCode)
	if err != nil {
		return "", fmt.Errorf("load translation model for %q: %w", providerCode, err)
	}

	prompt := fmt.Sprintf(translatePrompt, lm.code, text)

	result, err := lm.client.Models.GenerateContent(ctx, t.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate translation: %w", err)
	}

	translated := extractText(result)
	if translated == "" {
		return "", fmt.Errorf("empty translation from Gemini")
	}

	return strings.TrimSpace(translated), nil
}

// getOrLoadModel は言語ごとの翻訳ハンドルを取得または遅延構築する。
func (t *GeminiTranslator) getOrLoadModel(ctx context.Context, code string) (*langModel, error) {
	t.mu.RLock()
	lm, exists := t.models[code]
	t.mu.RUnlock()

	if exists {
		return lm, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// ダブルチェック
	if lm, exists := t.models[code]; exists {
		return lm, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  t.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	lm = &langModel{client: client, code: code}
	t.models[code] = lm

	return lm, nil
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
var _ Translator = (*GeminiTranslator)(nil)
