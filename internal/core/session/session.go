package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
)

// Identity 会话里只存身份，不存业务数据
type Identity struct {
	UserID   string `json:"uid"`
	UserName string `json:"name"`
}

// Store token -> identity 的会话存储。
// Resolve 查不到返回 (nil, nil)；Destroy 幂等。
type Store interface {
	Create(ctx context.Context, ident Identity) (string, error)
	Resolve(ctx context.Context, token string) (*Identity, error)
	Destroy(ctx context.Context, token string) error
}

// newToken 32 字节随机数，base64url，不含任何可猜的用户信息
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
