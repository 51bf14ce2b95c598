package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go-gin-todo/internal/domain"
)

type TaskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) *TaskRepo { return &TaskRepo{db: db} }

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TaskRepo) FindOwned(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).First(&t, "id = ? AND owner_id = ?", id, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepo) FindByOwnerAndStatus(ctx context.Context, ownerID, status string) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, status).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// ToggleStatus 单条带条件 UPDATE，翻转在 SQL 里完成，
// 与并发 delete 不会交错出中间态。
func (r *TaskRepo) ToggleStatus(ctx context.Context, id, ownerID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]any{
			"status":     gorm.Expr("CASE status WHEN ? THEN ? ELSE ? END", domain.StatusActive, domain.StatusDone, domain.StatusActive),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *TaskRepo) UpdateOwned(ctx context.Context, id, ownerID, title, description string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]any{
			"title":       title,
			"description": description,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *TaskRepo) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Task{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
