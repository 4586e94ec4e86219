package repository

import (
	"errors"

	"schoolhub_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

// UpsertByExamID 以 exam_id 为键做幂等写入，同一事件重放不会产生第二行
func (r *ActivityRepository) UpsertByExamID(activity *model.Activity) error {
	if activity.ExamID == nil {
		return r.DB.Create(activity).Error
	}
	var existing model.Activity
	err := r.DB.Where("exam_id = ?", *activity.ExamID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(activity).Error
	}
	if err != nil {
		return err
	}
	activity.ID = existing.ID
	activity.CreatedAt = existing.CreatedAt
	return r.DB.Save(activity).Error
}

func (r *ActivityRepository) FindByExamID(examID uint) (*model.Activity, error) {
	var a model.Activity
	err := r.DB.Where("exam_id = ?", examID).First(&a).Error
	return &a, err
}

func (r *ActivityRepository) FindByID(teamID, id uint) (*model.Activity, error) {
	var a model.Activity
	err := r.DB.Where("team_id = ?", teamID).First(&a, id).Error
	return &a, err
}

// List 按团队分页列出活动，status 为空表示不过滤
func (r *ActivityRepository) List(teamID uint, status string, page, limit int) ([]model.Activity, int64, error) {
	var as []model.Activity
	var total int64
	query := r.DB.Model(&model.Activity{}).Where("team_id = ?", teamID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

func (r *ActivityRepository) DeleteByExamID(examID uint) error {
	return r.DB.Unscoped().Where("exam_id = ?", examID).Delete(&model.Activity{}).Error
}
