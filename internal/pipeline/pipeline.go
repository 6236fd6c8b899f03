// Package pipeline は動画要約パイプラインのオーケストレーションを提供する。
//
// パイプラインは厳密に逐次実行される:
// 言語解決 → URL検証 → 音声取得 → 文字起こし → 要約 → 翻訳 → 履歴保存。
// 翻訳のみ失敗してもリクエスト全体を失敗させず、英語の要約を返す
// 縮退モードで処理を続行する。
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hitoshi/tubesum/internal/fetch"
	"github.com/hitoshi/tubesum/internal/language"
	"github.com/hitoshi/tubesum/internal/metrics"
	"github.com/hitoshi/tubesum/internal/model"
	"github.com/hitoshi/tubesum/internal/repository"
	"github.com/hitoshi/tubesum/internal/security"
	"github.com/hitoshi/tubesum/internal/summarize"
	"github.com/hitoshi/tubesum/internal/transcribe"
	"github.com/hitoshi/tubesum/internal/translate"
)

// ステージ名。メトリクスのラベルとして使用する。
const (
	stageFetch      = "fetch"
	stageTranscribe = "transcribe"
	stageSummarize  = "summarize"
	stageTranslate  = "translate"
	stagePersist    = "persist"
)

// Timeouts はステージごとのタイムアウト設定。
type Timeouts struct {
	Fetch      time.Duration
	Transcribe time.Duration
	Summarize  time.Duration
	Translate  time.Duration
}

// Result はパイプライン成功時の結果を表す。
// 文字数はバイト長ではなくルーン数で数える。
type Result struct {
	Summary          string
	Language         string // 実際に返す要約の正規言語名。縮退時は "english"
	TranscriptLength int
	SummaryLength    int
	Message          string // 名目成功と縮退成功を区別する人間向けメッセージ
	Degraded         bool
	Record           *model.SummaryRecord
}

// Service は要約パイプラインのオーケストレーター。
type Service struct {
	guard       security.URLGuardService
	sanitizer   security.TitleSanitizerService
	fetcher     fetch.AudioFetcher
	transcriber transcribe.Transcriber
	summarizer  summarize.Summarizer
	translator  translate.Translator
	summaries   repository.SummaryRepository
	collector   metrics.MetricsCollector
	timeouts    Timeouts
}

// NewService はパイプラインのServiceを生成する。
func NewService(
	guard security.URLGuardService,
	sanitizer security.TitleSanitizerService,
	fetcher fetch.AudioFetcher,
	transcriber transcribe.Transcriber,
	summarizer summarize.Summarizer,
	translator translate.Translator,
	summaries repository.SummaryRepository,
	collector metrics.MetricsCollector,
	timeouts Timeouts,
) *Service {
	return &Service{
		guard:       guard,
		sanitizer:   sanitizer,
		fetcher:     fetcher,
		transcriber: transcriber,
		summarizer:  summarizer,
		translator:  translator,
		summaries:   summaries,
		collector:   collector,
		timeouts:    timeouts,
	}
}

// Run はパイプラインを1回実行する。
//
// 言語解決とURL検証はダウンロード着手前に行われ、未対応言語や危険な
// URLに対しては外部コマンドを一切起動しない。音声アセットは取得後の
// 成否にかかわらずベストエフォートで削除され、削除失敗は握りつぶす。
// SummaryRecordはパイプライン成功時のみ保存される。
//
// 一度開始した実行は呼び出し元の切断に影響されない。呼び出し元の
// コンテキストの取り消しから切り離し、各ステージのタイムアウトのみを
// 上限として完了または失敗まで走り切る。
func (s *Service) Run(ctx context.Context, user *model.User, videoURL, languageName string) (*Result, error) {
	ctx = context.WithoutCancel(ctx)

	// ステージ0: 言語解決。ダウンロード前に失敗を確定させる。
	providerCode, skipTranslation, ok := language.Resolve(languageName)
	if !ok {
		return nil, model.NewUnsupportedLanguageError(languageName)
	}

	// ステージ0': URL検証。こちらもダウンロード前。
	if err := s.guard.ValidateURL(videoURL); err != nil {
		return nil, model.NewInvalidURLError(err.Error())
	}

	// ステージ1: 音声取得
	asset, err := s.runFetch(ctx, videoURL)
	if err != nil {
		s.collector.RecordPipelineFailure(stageFetch)
		return nil, model.NewFetchFailedError(err)
	}
	defer s.cleanupAsset(asset.Path)

	// ステージ2: 文字起こし
	transcript, err := s.runTranscribe(ctx, asset.Path)
	if err != nil {
		s.collector.RecordPipelineFailure(stageTranscribe)
		return nil, model.NewTranscriptionFailedError(err)
	}

	// ステージ3: 要約
	summary, err := s.runSummarize(ctx, transcript)
	if err != nil {
		s.collector.RecordPipelineFailure(stageSummarize)
		return nil, model.NewSummarizationFailedError(err)
	}

	// ステージ4: 翻訳。englishは翻訳呼び出し自体を省略する。
	// 翻訳失敗は致命的でなく、英語の要約のまま縮退して続行する。
	finalSummary := summary
	finalLanguage := languageName
	degraded := false
	if !skipTranslation {
		translated, err := s.runTranslate(ctx, summary, providerCode)
		if err != nil {
			slog.Warn("translation failed, returning english summary",
				slog.String("language", languageName),
				slog.String("error", err.Error()),
			)
			s.collector.RecordTranslationFallback()
			finalLanguage = language.English
			degraded = true
		} else {
			finalSummary = translated
		}
	}

	// ステージ5: 履歴保存。成功したパイプラインのみ記録する。
	record := &model.SummaryRecord{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		VideoURL:  videoURL,
		Title:     s.sanitizer.Sanitize(asset.Title),
		Summary:   finalSummary,
		Language:  finalLanguage,
		CreatedAt: time.Now(),
	}
	if err := s.summaries.Create(ctx, record); err != nil {
		s.collector.RecordPipelineFailure(stagePersist)
		return nil, err
	}

	s.collector.RecordPipelineSuccess()

	message := "要約を生成しました。"
	if degraded {
		message = "要約を生成しましたが、翻訳に失敗したため英語のまま返します。"
	}

	return &Result{
		Summary:          finalSummary,
		Language:         finalLanguage,
		TranscriptLength: utf8.RuneCountInString(transcript),
		SummaryLength:    utf8.RuneCountInString(finalSummary),
		Message:          message,
		Degraded:         degraded,
		Record:           record,
	}, nil
}

// runFetch は音声取得ステージをタイムアウト付きで実行する。
func (s *Service) runFetch(ctx context.Context, videoURL string) (*fetch.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.Fetch)
	defer cancel()

	start := time.Now()
	asset, err := s.fetcher.Fetch(ctx, videoURL)
	s.collector.RecordStageLatency(stageFetch, time.Since(start))
	return asset, err
}

// runTranscribe は文字起こしステージをタイムアウト付きで実行する。
func (s *Service) runTranscribe(ctx context.Context, audioPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.Transcribe)
	defer cancel()

	start := time.Now()
	transcript, err := s.transcriber.Transcribe(ctx, audioPath)
	s.collector.RecordStageLatency(stageTranscribe, time.Since(start))
	return transcript, err
}

// runSummarize は要約ステージをタイムアウト付きで実行する。
func (s *Service) runSummarize(ctx context.Context, transcript string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.Summarize)
	defer cancel()

	start := time.Now()
	summary, err := s.summarizer.Summarize(ctx, transcript)
	s.collector.RecordStageLatency(stageSummarize, time.Since(start))
	return summary, err
}

// runTranslate は翻訳ステージをタイムアウト付きで実行する。
func (s *Service) runTranslate(ctx context.Context, text, providerCode string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeouts.Translate)
	defer cancel()

	start := time.Now()
	translated, err := s.translator.Translate(ctx, text, providerCode)
	s.collector.RecordStageLatency(stageTranslate, time.Since(start))
	return translated, err
}

// cleanupAsset は音声アセットをベストエフォートで削除する。
// 削除失敗はパイプラインの結果に影響させず、ログのみ残す。
func (s *Service) cleanupAsset(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove audio asset",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}
