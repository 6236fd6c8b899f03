package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// --- モック ---

type mockExecutor struct {
	executeFn func(ctx context.Context, name string, args ...string) (string, error)
}

func (m *mockExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return m.executeFn(ctx, name, args...)
}

// --- テスト ---

func TestWhisperTranscriber_Transcribe_Success(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "asset.wav")

	exec := &mockExecutor{
		executeFn: func(ctx context.Context, name string, args ...string) (string, error) {
			// whisper.cppをシミュレート: --output-fileのプレフィックスに.txtを生成
			for i, a := range args {
				if a == "--output-file" {
					return "", os.WriteFile(args[i+1]+".txt", []byte("  hello transcript  \n"), 0o644)
				}
			}
			return "", errors.New("missing --output-file")
		},
	}

	tr := NewWhisperTranscriber(exec, WhisperConfig{
		BinaryPath: "whisper-cli",
		ModelPath:  "models/ggml-base.en.bin",
		Threads:    4,
	})

	transcript, err := tr.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if transcript != "hello transcript" {
		t.Errorf("transcript = %q, want %q", transcript, "hello transcript")
	}

	// 中間の.txtファイルは削除されていること
	txtPath := strings.TrimSuffix(audioPath, ".wav") + ".txt"
	if _, err := os.Stat(txtPath); !os.IsNotExist(err) {
		t.Errorf("intermediate transcript file should be removed: %v", err)
	}
}

// 失敗がプレースホルダテキストではなくエラーとして報告されることを検証
func TestWhisperTranscriber_Transcribe_CommandFailureIsError(t *testing.T) {
	exec := &mockExecutor{
		executeFn: func(ctx context.Context, name string, args ...string) (string, error) {
			return "", errors.New("model load failed")
		},
	}

	tr := NewWhisperTranscriber(exec, WhisperConfig{BinaryPath: "whisper-cli", ModelPath: "m.bin", Threads: 1})

	out, err := tr.Transcribe(context.Background(), "/tmp/audio.wav")
	if err == nil {
		t.Fatal("expected error when whisper fails")
	}
	if out != "" {
		t.Errorf("failed transcription must not return text, got %q", out)
	}
}

// 空の文字起こし結果はエラーとして扱われることを検証
func TestWhisperTranscriber_Transcribe_EmptyOutputIsError(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "silent.wav")

	exec := &mockExecutor{
		executeFn: func(ctx context.Context, name string, args ...string) (string, error) {
			for i, a := range args {
				if a == "--output-file" {
					return "", os.WriteFile(args[i+1]+".txt", []byte("   \n"), 0o644)
				}
			}
			return "", errors.New("missing --output-file")
		},
	}

	tr := NewWhisperTranscriber(exec, WhisperConfig{BinaryPath: "whisper-cli", ModelPath: "m.bin", Threads: 1})

	if _, err := tr.Transcribe(context.Background(), audioPath); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}
