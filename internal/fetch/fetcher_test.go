package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
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

func TestYtdlpFetcher_Fetch_Success(t *testing.T) {
	scratch := t.TempDir()

	var gotArgs []string
	exec := &mockExecutor{
		executeFn: func(ctx context.Context, name string, args ...string) (string, error) {
			gotArgs = args
			// yt-dlpをシミュレート: 出力テンプレートのパスにファイルを作成し、
			// タイトルと最終パスを出力する
			template := args[indexOf(t, args, "-o")+1]
			path := strings.Replace(template, "%(ext)s", "webm", 1)
			if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
				return "", err
			}
			return "Test Video Title\n" + path + "\n", nil
		},
	}

	f, err := NewYtdlpFetcher(exec, http.DefaultClient, "yt-dlp", scratch)
	if err != nil {
		t.Fatalf("NewYtdlpFetcher returned error: %v", err)
	}

	asset, err := f.Fetch(context.Background(), "https://example.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if asset.Title != "Test Video Title" {
		t.Errorf("Title = %q, want %q", asset.Title, "Test Video Title")
	}
	if filepath.Dir(asset.Path) != scratch {
		t.Errorf("asset path %q should be inside scratch dir %q", asset.Path, scratch)
	}
	if _, err := os.Stat(asset.Path); err != nil {
		t.Errorf("asset file should exist: %v", err)
	}
	if gotArgs[len(gotArgs)-1] != "https://example.com/watch?v=abc" {
		t.Errorf("video URL should be the last argument, got %v", gotArgs)
	}
}

// 同一URLの同時リクエストでも出力パスが衝突しないことを検証
func TestYtdlpFetcher_Fetch_UniquePaths(t *testing.T) {
	scratch := t.TempDir()

	var templates []string
	exec := &mockExecutor{
		executeFn: func(ctx context.Context, name string, args ...string) (string, error) {
			template := args[indexOf(t, args, "-o")+1]
			templates = append(templates, template)
			path := strings.Replace(template, "%(ext)s", "m4a", 1)
			if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
				return "", err
			}
			return "Title\n" + path + "\n", nil
		},
	}

	f, err := NewYtdlpFetcher(exec, http.DefaultClient, "yt-dlp", scratch)
	if err != nil {
		t.Fatalf("NewYtdlpFetcher returned error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(context.Background(), "https://example.com/same"); err != nil {
			t.Fatalf("Fetch returned error: %v", err)
		}
	}

	if len(templates) != 2 || templates[0] == templates[1] {
		t.Errorf("expected unique output templates per request, got %v", templates)
	}
}

// naTitleExecutor はyt-dlpがタイトルを出力しなかったケースをシミュレートする。
func naTitleExecutor(t *testing.T) *mockExecutor {
	t.Helper()
	return &mockExecutor{
		executeFn: func(ctx context.Context, name string, args ...string) (string, error) {
			template := args[indexOf(t, args, "-o")+1]
			path := strings.Replace(template, "%(ext)s", "webm", 1)
			if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
				return "", err
			}
			return "NA\n" + path + "\n", nil
		},
	}
}

// yt-dlpがタイトルを出力しない場合はoEmbedからタイトルを取得することを検証
func TestYtdlpFetcher_Fetch_MissingTitleFallsBackToOembed(t *testing.T) {
	scratch := t.TempDir()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title": "Oembed Title", "author_name": "someone"}`))
	}))
	defer srv.Close()

	f, err := NewYtdlpFetcher(naTitleExecutor(t), srv.Client(), "yt-dlp", scratch)
	if err != nil {
		t.Fatalf("NewYtdlpFetcher returned error: %v", err)
	}
	f.oembedURL = srv.URL + "/oembed"

	asset, err := f.Fetch(context.Background(), "https://example.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if asset.Title != "Oembed Title" {
		t.Errorf("Title = %q, want %q", asset.Title, "Oembed Title")
	}
	if !strings.Contains(gotQuery, "url=https%3A%2F%2Fexample.com%2Fwatch%3Fv%3Dabc") {
		t.Errorf("oembed request should carry the escaped video URL, got query %q", gotQuery)
	}
}

// oEmbed取得にも失敗した場合はプレースホルダを使用することを検証
func TestYtdlpFetcher_Fetch_OembedFailureUsesPlaceholder(t *testing.T) {
	scratch := t.TempDir()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	f, err := NewYtdlpFetcher(naTitleExecutor(t), srv.Client(), "yt-dlp", scratch)
	if err != nil {
		t.Fatalf("NewYtdlpFetcher returned error: %v", err)
	}
	f.oembedURL = srv.URL + "/oembed"

	asset, err := f.Fetch(context.Background(), "https://example.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if asset.Title != placeholderTitle {
		t.Errorf("Title = %q, want placeholder %q", asset.Title, placeholderTitle)
	}
}

func TestYtdlpFetcher_Fetch_CommandFailure(t *testing.T) {
	scratch := t.TempDir()

	exec := &mockExecutor{
		executeFn: func(ctx context.Context, name string, args ...string) (string, error) {
			return "", errors.New("video unavailable")
		},
	}

	f, err := NewYtdlpFetcher(exec, http.DefaultClient, "yt-dlp", scratch)
	if err != nil {
		t.Fatalf("NewYtdlpFetcher returned error: %v", err)
	}

	if _, err := f.Fetch(context.Background(), "https://example.com/gone"); err == nil {
		t.Fatal("expected error when downloader fails")
	}
}

func indexOf(t *testing.T, args []string, flag string) int {
	t.Helper()
	for i, a := range args {
		if a == flag {
			return i
		}
	}
	t.Fatalf("flag %q not found in args %v", flag, args)
	return -1
}
