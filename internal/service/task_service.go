package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-gin-todo/internal/domain"
	"go-gin-todo/pkg/utils"
)

// TaskService 所有操作的 ownerID 都来自已解析的会话，
// 绝不接受客户端提交的 owner，杜绝越权伪造。
type TaskService struct {
	tasks domain.TaskRepository
	log   *zap.Logger
}

func NewTaskService(tasks domain.TaskRepository, log *zap.Logger) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{tasks: tasks, log: log}
}

func (s *TaskService) List(ctx context.Context, ownerID string) (domain.TaskLists, error) {
	active, err := s.tasks.FindByOwnerAndStatus(ctx, ownerID, domain.StatusActive)
	if err != nil {
		return domain.TaskLists{}, err
	}
	done, err := s.tasks.FindByOwnerAndStatus(ctx, ownerID, domain.StatusDone)
	if err != nil {
		return domain.TaskLists{}, err
	}
	return domain.TaskLists{Active: active, Done: done}, nil
}

func (s *TaskService) Add(ctx context.Context, ownerID, title, description string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.Invalid("task title is required")
	}
	t := &domain.Task{
		ID:          utils.NewID(),
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      domain.StatusActive,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("task added", zap.String("task_id", t.ID), zap.String("owner_id", ownerID))
	return t, nil
}

// Get 编辑表单回显用
func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	t, err := s.tasks.FindOwned(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (s *TaskService) Toggle(ctx context.Context, ownerID, taskID string) error {
	ok, err := s.tasks.ToggleStatus(ctx, taskID, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// Edit 只改标题和描述，状态保持不变
func (s *TaskService) Edit(ctx context.Context, ownerID, taskID, title, description string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Invalid("task title is required")
	}
	ok, err := s.tasks.UpdateOwned(ctx, taskID, ownerID, title, strings.TrimSpace(description))
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	ok, err := s.tasks.DeleteOwned(ctx, taskID, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	s.log.Info("task deleted", zap.String("task_id", taskID), zap.String("owner_id", ownerID))
	return nil
}
