package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-todo/internal/core/auth"
	"go-gin-todo/internal/domain"
	resp "go-gin-todo/internal/transport/http/response"
)

// AdminHandler 后台用户管理：列表 + 删除（删除会级联清掉任务）
type AdminHandler struct {
	Users    domain.UserRepository
	Jwter    *auth.JWTer
	AdminKey string
	Log      *zap.Logger
}

// Token 用部署时配置的 admin key 换一个 admin 角色的 JWT
func (h *AdminHandler) Token(c *gin.Context) {
	var in struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	if h.AdminKey == "" || subtle.ConstantTimeCompare([]byte(in.Key), []byte(h.AdminKey)) != 1 {
		c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid admin key"))
		return
	}
	tok, err := h.Jwter.Issue("admin", "admin")
	if err != nil {
		h.Log.Error("issue admin token failed", zap.Error(err))
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, "issue token failed"))
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"token": tok}))
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var in struct {
		Q      string `form:"q"`
		Offset int    `form:"offset,default=0"`
		Limit  int    `form:"limit,default=20"`
	}
	if err := c.ShouldBindQuery(&in); err != nil {
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
		return
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}

	users, total, err := h.Users.List(c.Request.Context(), in.Q, in.Offset, in.Limit)
	if err != nil {
		h.Log.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, "list users failed"))
		return
	}

	type row struct {
		ID        string    `json:"id"`
		Username  string    `json:"username"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"createdAt"`
	}
	items := make([]row, 0, len(users))
	for _, u := range users {
		items = append(items, row{ID: u.ID, Username: u.Username, Name: u.Name, CreatedAt: u.CreatedAt})
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"total": total, "items": items}))
}

// DeleteUser 唯一的删用户入口；任务由外键级联删除
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "missing id"))
		return
	}
	ok, err := h.Users.Delete(c.Request.Context(), id)
	if err != nil {
		h.Log.Error("delete user failed", zap.Error(err), zap.String("user_id", id))
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, "delete user failed"))
		return
	}
	if !ok {
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "user not found"))
		return
	}
	c.JSON(http.StatusOK, resp.OK(gin.H{"id": id}))
}
