package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "todo_flash"

// Flash 一次性提示，写进短命 cookie，下一次渲染取走即清
type Flash struct {
	Level   string // success / error / info
	Message string
}

func setFlash(c *gin.Context, level, message string) {
	c.SetCookie(flashCookie, level+"|"+message, 60, "/", "", false, true)
}

func takeFlash(c *gin.Context) *Flash {
	v, err := c.Cookie(flashCookie)
	if err != nil || v == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	level, msg, ok := strings.Cut(v, "|")
	if !ok {
		return &Flash{Level: "info", Message: v}
	}
	return &Flash{Level: level, Message: msg}
}
