package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-todo/internal/domain"
	"go-gin-todo/internal/service"
	mdw "go-gin-todo/internal/transport/http/middleware"
)

type AuthHandler struct {
	Auth       *service.AuthService
	CookieName string
	SessionTTL time.Duration
	Log        *zap.Logger
}

func (h *AuthHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{
		"Flash":    takeFlash(c),
		"UserName": c.GetString(mdw.KeyUserName),
	})
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Flash": takeFlash(c),
		"Next":  c.Query("next"),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	token, err := h.Auth.Login(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			setFlash(c, "error", "Invalid username or password")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		h.Log.Error("login failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.SetCookie(h.CookieName, token, int(h.SessionTTL.Seconds()), "/", "", false, true)
	setFlash(c, "success", "You are now logged in")
	c.Redirect(http.StatusFound, safeNext(c.Query("next")))
}

func (h *AuthHandler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Flash": takeFlash(c)})
}

func (h *AuthHandler) Register(c *gin.Context) {
	_, err := h.Auth.Register(c.Request.Context(),
		c.PostForm("name"),
		c.PostForm("username"),
		c.PostForm("password"),
		c.PostForm("password2"),
	)
	switch {
	case domain.IsValidation(err):
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusFound, "/register")
	case errors.Is(err, domain.ErrDuplicateUsername):
		setFlash(c, "error", "That username is already taken")
		c.Redirect(http.StatusFound, "/register")
	case err != nil:
		h.Log.Error("register failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
	default:
		setFlash(c, "success", "Registration complete, you can log in now")
		c.Redirect(http.StatusFound, "/login")
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.CookieName); err == nil {
		_ = h.Auth.Logout(c.Request.Context(), token)
	}
	c.SetCookie(h.CookieName, "", -1, "/", "", false, true)
	setFlash(c, "info", "You have been logged out")
	c.Redirect(http.StatusFound, "/")
}

// safeNext 只允许站内路径，防开放跳转
func safeNext(next string) string {
	if next == "" {
		return "/tasks"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/tasks"
	}
	return u.Path
}
