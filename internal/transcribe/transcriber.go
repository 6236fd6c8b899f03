// Package transcribe は音声アセットの文字起こしを提供する。
package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hitoshi/tubesum/internal/executor"
)

// Transcriber は音声アセットからテキストを生成するインターフェース。
type Transcriber interface {
	// Transcribe は音声ファイルを文字起こししたテキストを返す。
	// 失敗は必ずエラーとして報告され、プレースホルダテキストで
	// 成功を装うことはない。
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// WhisperConfig はwhisper.cppバイナリの実行設定。
type WhisperConfig struct {
	BinaryPath string
	ModelPath  string
	Threads    int
}

// WhisperTranscriber はwhisper.cppバイナリを使用したTranscriberの実装。
type WhisperTranscriber struct {
	exec executor.Executor
	cfg  WhisperConfig
}

// NewWhisperTranscriber はWhisperTranscriberを生成する。
func NewWhisperTranscriber(exec executor.Executor, cfg WhisperConfig) *WhisperTranscriber {
	return &WhisperTranscriber{exec: exec, cfg: cfg}
}

// Transcribe は音声ファイルを文字起こしする。
// whisper.cppにプレーンテキスト出力（-otxt）を指示し、音声ファイルの隣に
// 生成される .txt を読み取って返す。中間ファイルは読み取り後に削除する。
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	args := []string{
		"-m", t.cfg.ModelPath,
		"-f", audioPath,
		"-otxt",
		"-t", strconv.Itoa(t.cfg.Threads),
		"--output-file", outputPrefix,
	}

	if _, err := t.exec.Execute(ctx, t.cfg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	txtPath := outputPrefix + ".txt"
	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read transcript %s: %w", txtPath, err)
	}
	defer os.Remove(txtPath)

	transcript := strings.TrimSpace(string(data))
	if transcript == "" {
		return "", fmt.Errorf("empty transcript for %s", audioPath)
	}

	return transcript, nil
}

// compile-time interface check
var _ Transcriber = (*WhisperTranscriber)(nil)
