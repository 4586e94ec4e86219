package repository

import (
	"schoolhub_backend/internal/model"

	"gorm.io/gorm"
)

type ScheduleRepository struct {
	DB *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

func (r *ScheduleRepository) Create(e *model.ScheduleEntry) error {
	return r.DB.Create(e).Error
}

func (r *ScheduleRepository) FindByID(teamID, id uint) (*model.ScheduleEntry, error) {
	var e model.ScheduleEntry
	err := r.DB.Where("team_id = ?", teamID).First(&e, id).Error
	return &e, err
}

func (r *ScheduleRepository) Update(e *model.ScheduleEntry) error {
	return r.DB.Save(e).Error
}

func (r *ScheduleRepository) Delete(teamID, id uint) error {
	return r.DB.Where("team_id = ?", teamID).Delete(&model.ScheduleEntry{}, id).Error
}

func (r *ScheduleRepository) List(teamID uint) ([]model.ScheduleEntry, error) {
	var es []model.ScheduleEntry
	err := r.DB.Where("team_id = ?", teamID).
		Order("weekday asc, start_time asc").Find(&es).Error
	return es, err
}

func (r *ScheduleRepository) ListByTeacher(teamID, teacherID uint) ([]model.ScheduleEntry, error) {
	var es []model.ScheduleEntry
	err := r.DB.Where("team_id = ? AND teacher_id = ?", teamID, teacherID).
		Order("weekday asc, start_time asc").Find(&es).Error
	return es, err
}
