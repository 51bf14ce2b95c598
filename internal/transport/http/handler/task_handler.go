package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-todo/internal/domain"
	"go-gin-todo/internal/service"
	mdw "go-gin-todo/internal/transport/http/middleware"
)

type TaskHandler struct {
	Tasks *service.TaskService
	Log   *zap.Logger
}

func (h *TaskHandler) List(c *gin.Context) {
	lists, err := h.Tasks.List(c.Request.Context(), c.GetString(mdw.KeyUserID))
	if err != nil {
		h.Log.Error("list tasks failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.HTML(http.StatusOK, "tasks.html", gin.H{
		"Flash":    takeFlash(c),
		"UserName": c.GetString(mdw.KeyUserName),
		"Active":   lists.Active,
		"Done":     lists.Done,
	})
}

func (h *TaskHandler) Add(c *gin.Context) {
	_, err := h.Tasks.Add(c.Request.Context(),
		c.GetString(mdw.KeyUserID),
		c.PostForm("title"),
		c.PostForm("description"),
	)
	if domain.IsValidation(err) {
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusFound, "/tasks")
		return
	}
	if err != nil {
		h.Log.Error("add task failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	setFlash(c, "success", "Task added")
	c.Redirect(http.StatusFound, "/tasks")
}

func (h *TaskHandler) Toggle(c *gin.Context) {
	err := h.Tasks.Toggle(c.Request.Context(), c.GetString(mdw.KeyUserID), c.Param("id"))
	h.afterMutation(c, err, "Task status updated")
}

func (h *TaskHandler) EditForm(c *gin.Context) {
	task, err := h.Tasks.Get(c.Request.Context(), c.GetString(mdw.KeyUserID), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		setFlash(c, "error", "Task not found")
		c.Redirect(http.StatusFound, "/tasks")
		return
	}
	if err != nil {
		h.Log.Error("load task failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.HTML(http.StatusOK, "task_edit.html", gin.H{
		"Flash":    takeFlash(c),
		"UserName": c.GetString(mdw.KeyUserName),
		"Task":     task,
	})
}

func (h *TaskHandler) Edit(c *gin.Context) {
	id := c.Param("id")
	err := h.Tasks.Edit(c.Request.Context(),
		c.GetString(mdw.KeyUserID), id,
		c.PostForm("title"),
		c.PostForm("description"),
	)
	if domain.IsValidation(err) {
		// 校验失败回编辑页重填
		setFlash(c, "error", err.Error())
		c.Redirect(http.StatusFound, "/tasks/"+id+"/edit")
		return
	}
	h.afterMutation(c, err, "Task updated")
}

func (h *TaskHandler) Delete(c *gin.Context) {
	err := h.Tasks.Delete(c.Request.Context(), c.GetString(mdw.KeyUserID), c.Param("id"))
	h.afterMutation(c, err, "Task deleted")
}

// afterMutation 统一的变更后处理：NotFound 和成功都回列表页，
// 只有存储层故障才让请求挂掉。
func (h *TaskHandler) afterMutation(c *gin.Context, err error, okMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		setFlash(c, "error", "Task not found")
	case err != nil:
		h.Log.Error("task mutation failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	default:
		setFlash(c, "success", okMsg)
	}
	c.Redirect(http.StatusFound, "/tasks")
}
