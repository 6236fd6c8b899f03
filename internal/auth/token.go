package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/tubesum/internal/model"
)

// tokenClaims はJWTに埋め込む同一性主張。
// 標準クレーム（iat, exp）に加えてemailとusernameを含む。
type tokenClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenIssuer はベアラートークンの発行と検証を行う。
// 署名鍵はプロセス全体の設定として起動時に1回読み込まれる。
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
}

// NewTokenIssuer はTokenIssuerを生成する。
func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expiry: expiry}
}

// Issue はクレームを符号化した署名付きトークンを発行する。
func (i *TokenIssuer) Issue(email, username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
		},
		Email:    email,
		Username: username,
	})

	return token.SignedString(i.secret)
}

// Verify はトークンを検証しクレームを返す。
// 期限切れ・形式不正・署名不正はいずれも一律に ok=false を返し、
// どの検証に失敗したかは呼び出し側に開示しない。
func (i *TokenIssuer) Verify(tokenString string) (*model.Claims, bool) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	out := &model.Claims{
		Email:    claims.Email,
		Username: claims.Username,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.Expiry = claims.ExpiresAt.Time
	}
	return out, true
}
