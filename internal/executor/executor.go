// Package executor は外部コマンドの実行を抽象化する。
// ダウンローダーや文字起こしエンジンなどの外部バイナリ呼び出しを
// テスト時に差し替え可能にする。
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Executor は外部コマンド実行のインターフェース。
type Executor interface {
	// Execute は外部コマンドを実行し、標準出力を返す。
	// コンテキストのキャンセル・タイムアウトでプロセスは強制終了される。
	Execute(ctx context.Context, name string, args ...string) (string, error)
}

// commandExecutor はos/execを使用したExecutorの実装。
type commandExecutor struct{}

// New はExecutorの新しいインスタンスを生成する。
func New() *commandExecutor {
	return &commandExecutor{}
}

// Execute は外部コマンドを実行し、標準出力を返す。
// 失敗時は診断のため標準エラー出力をエラーメッセージに含める。
func (e *commandExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("command %q failed: %w: %s", name, err, stderrStr)
		}
		return "", fmt.Errorf("command %q failed: %w", name, err)
	}

	return stdout.String(), nil
}

// compile-time interface check
var _ Executor = (*commandExecutor)(nil)
