package domain

import (
	"context"
	"time"
)

// 任务状态：active / done，两态互切
const (
	StatusActive = "active"
	StatusDone   = "done"
)

type Task struct {
	ID          string    `gorm:"primaryKey;size:32" json:"id"`
	OwnerID     string    `gorm:"size:32;not null;index" json:"ownerId"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:10;not null;default:active" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Task) TableName() string { return "tasks" }

// TaskLists 按状态分组的任务清单（均按创建时间倒序）
type TaskLists struct {
	Active []Task
	Done   []Task
}

// TaskRepository 只暴露 owner 维度的查询/写入，
// 越权的 id 在 SQL 层直接查不到（RowsAffected == 0）。
type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	FindOwned(ctx context.Context, id, ownerID string) (*Task, error)
	FindByOwnerAndStatus(ctx context.Context, ownerID, status string) ([]Task, error)
	ToggleStatus(ctx context.Context, id, ownerID string) (bool, error)
	UpdateOwned(ctx context.Context, id, ownerID, title, description string) (bool, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (bool, error)
}
