package repository

import (
	"schoolhub_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(s *model.Submission) error {
	return r.DB.Create(s).Error
}

func (r *SubmissionRepository) Update(s *model.Submission) error {
	return r.DB.Save(s).Error
}

func (r *SubmissionRepository) FindByID(teamID uint, id string) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Preload("Student").Where("team_id = ?", teamID).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *SubmissionRepository) FindByStudentAndActivity(teamID, studentID, activityID uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Where("team_id = ? AND student_id = ? AND activity_id = ?", teamID, studentID, activityID).
		First(&s).Error
	return &s, err
}

func (r *SubmissionRepository) ListByActivity(teamID, activityID uint, page, limit int) ([]model.Submission, int64, error) {
	var ss []model.Submission
	var total int64
	query := r.DB.Model(&model.Submission{}).
		Where("team_id = ? AND activity_id = ?", teamID, activityID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Student").Order("created_at desc").Offset(offset).Limit(limit).Find(&ss).Error
	return ss, total, err
}

func (r *SubmissionRepository) ListByStudent(teamID, studentID uint) ([]model.Submission, error) {
	var ss []model.Submission
	err := r.DB.Where("team_id = ? AND student_id = ?", teamID, studentID).
		Order("created_at desc").Find(&ss).Error
	return ss, err
}
