// Package fetch は動画URLからの音声アセット取得を提供する。
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/tubesum/internal/executor"
)

// placeholderTitle はタイトルを取得できなかった場合に使用する既定値。
const placeholderTitle = "YouTube Video"

// oembedEndpoint は動画タイトル取得に使用するoEmbedエンドポイント。
const oembedEndpoint = "https://www.youtube.com/oembed"

// Asset はダウンロード済みの音声アセットを表す。
// Pathは同時実行されるリクエスト間で衝突しないよう、リクエストごとに
// 一意な識別子を含む。
type Asset struct {
	Path  string
	Title string // ベストエフォート。取得できない場合はプレースホルダ。
}

// AudioFetcher は動画参照から音声アセットを取得するインターフェース。
type AudioFetcher interface {
	// Fetch は動画URLの音声をスクラッチディレクトリにダウンロードする。
	Fetch(ctx context.Context, videoURL string) (*Asset, error)
}

// YtdlpFetcher はyt-dlpバイナリを使用したAudioFetcherの実装。
// clientはタイトル取得のサーバー発HTTPリクエストに使用するため、
// SSRF防止機能付きのクライアントを渡すこと。
type YtdlpFetcher struct {
	exec       executor.Executor
	client     *http.Client
	binaryPath string
	scratchDir string
	oembedURL  string
}

// NewYtdlpFetcher はYtdlpFetcherを生成する。
// スクラッチディレクトリが存在しない場合は作成する。
func NewYtdlpFetcher(exec executor.Executor, client *http.Client, binaryPath, scratchDir string) (*YtdlpFetcher, error) {
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	return &YtdlpFetcher{
		exec:       exec,
		client:     client,
		binaryPath: binaryPath,
		scratchDir: scratchDir,
		oembedURL:  oembedEndpoint,
	}, nil
}

// Fetch は動画URLの音声をダウンロードし、アセットのパスとタイトルを返す。
//
// yt-dlpの--printを2回指定し、標準出力から2行を読み取る:
//  1. title            （ダウンロード前に出力される）
//  2. after_move:filepath（移動完了後の最終パス）
//
// 出力テンプレートにはリクエストごとのUUIDを使用し、同時リクエスト間の
// パス衝突を防ぐ。
func (f *YtdlpFetcher) Fetch(ctx context.Context, videoURL string) (*Asset, error) {
	outputTemplate := filepath.Join(f.scratchDir, uuid.New().String()+".%(ext)s")

	args := []string{
		"--no-playlist",
		"--no-progress",
		"--no-simulate",
		"-f", "bestaudio/best",
		"-o", outputTemplate,
		"--print", "title",
		"--print", "after_move:filepath",
		videoURL,
	}

	out, err := f.exec.Execute(ctx, f.binaryPath, args...)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp download: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("yt-dlp output missing title/filepath lines: %q", out)
	}

	title := strings.TrimSpace(lines[0])
	if title == "" || title == "NA" {
		title = f.lookupTitle(ctx, videoURL)
	}
	path := strings.TrimSpace(lines[len(lines)-1])

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("downloaded asset not found at %s: %w", path, err)
	}

	slog.Info("audio downloaded",
		slog.String("path", path),
	)

	return &Asset{Path: path, Title: title}, nil
}

// lookupTitle はoEmbedエンドポイントから動画タイトルをベストエフォートで取得する。
// yt-dlpがタイトルを出力しなかった場合のフォールバックであり、
// 取得に失敗した場合はプレースホルダを返す。
func (f *YtdlpFetcher) lookupTitle(ctx context.Context, videoURL string) string {
	endpoint := f.oembedURL + "?format=json&url=" + url.QueryEscape(videoURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return placeholderTitle
	}

	resp, err := f.client.Do(req)
	if err != nil {
		slog.Warn("oembed title lookup failed",
			slog.String("error", err.Error()),
		)
		return placeholderTitle
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return placeholderTitle
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return placeholderTitle
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		return placeholderTitle
	}
	return title
}

// compile-time interface check
var _ AudioFetcher = (*YtdlpFetcher)(nil)
