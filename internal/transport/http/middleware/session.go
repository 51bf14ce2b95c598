package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"go-gin-todo/internal/core/session"
)

const (
	KeyUserID   = "userId"
	KeyUserName = "userName"
)

// RequireSession 解析会话 cookie，把身份放进 context；
// 未登录一律 302 到登录页，带上原始路径方便登录后跳回。
func RequireSession(store session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err == nil && token != "" {
			ident, rerr := store.Resolve(c.Request.Context(), token)
			if rerr == nil && ident != nil {
				c.Set(KeyUserID, ident.UserID)
				c.Set(KeyUserName, ident.UserName)
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
		c.Abort()
	}
}

// OptionalSession 公共页面用：有会话就带上身份，没有也放行
func OptionalSession(store session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			if ident, rerr := store.Resolve(c.Request.Context(), token); rerr == nil && ident != nil {
				c.Set(KeyUserID, ident.UserID)
				c.Set(KeyUserName, ident.UserName)
			}
		}
		c.Next()
	}
}
