// Package auth は認証（資格情報の管理とトークンの発行・検証）を提供する。
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword は平文パスワードからbcryptダイジェストを生成する。
// 平文は保存されず、ダイジェストのみが永続化される。
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword は平文パスワードがダイジェストと一致するかを返す。
func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
