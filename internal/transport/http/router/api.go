package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-gin-todo/internal/core/session"
	"go-gin-todo/internal/service"
	"go-gin-todo/internal/transport/http/handler"
	mdw "go-gin-todo/internal/transport/http/middleware"
	"go-gin-todo/internal/web"
)

type APIOptions struct {
	SessionCookie string
	SessionTTL    time.Duration
}

// NewAPIEngine 用户端：服务端渲染的表单应用
func NewAPIEngine(l *zap.Logger, authSvc *service.AuthService, taskSvc *service.TaskService, store session.Store, opt APIOptions) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(web.Templates())

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authH := &handler.AuthHandler{
		Auth:       authSvc,
		CookieName: opt.SessionCookie,
		SessionTTL: opt.SessionTTL,
		Log:        l,
	}
	taskH := &handler.TaskHandler{Tasks: taskSvc, Log: l}

	// 公共页面
	pub := r.Group("", mdw.OptionalSession(store, opt.SessionCookie))
	pub.GET("/", authH.Home)
	pub.GET("/home", authH.Home)
	pub.GET("/login", authH.LoginForm)
	pub.POST("/login", authH.Login)
	pub.GET("/register", authH.RegisterForm)
	pub.POST("/register", authH.Register)
	pub.GET("/logout", authH.Logout)

	// 任务页全部要求已登录
	tasks := r.Group("/tasks", mdw.RequireSession(store, opt.SessionCookie))
	tasks.GET("", taskH.List)
	tasks.POST("/add", taskH.Add)
	tasks.POST("/:id/toggle", taskH.Toggle)
	tasks.GET("/:id/edit", taskH.EditForm)
	tasks.POST("/:id/edit", taskH.Edit)
	tasks.POST("/:id/delete", taskH.Delete)

	return r
}
