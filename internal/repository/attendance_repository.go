package repository

import (
	"schoolhub_backend/internal/model"

	"gorm.io/gorm"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

func (r *AttendanceRepository) CreateSession(s *model.AttendanceSession) error {
	return r.DB.Create(s).Error
}

func (r *AttendanceRepository) FindSessionByToken(token string) (*model.AttendanceSession, error) {
	var s model.AttendanceSession
	err := r.DB.Where("token = ?", token).First(&s).Error
	return &s, err
}

func (r *AttendanceRepository) FindSessionByID(teamID uint, id string) (*model.AttendanceSession, error) {
	var s model.AttendanceSession
	err := r.DB.Where("team_id = ?", teamID).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *AttendanceRepository) FindRecord(sessionID string, studentID uint) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := r.DB.Where("session_id = ? AND student_id = ?", sessionID, studentID).First(&rec).Error
	return &rec, err
}

func (r *AttendanceRepository) CreateRecord(rec *model.AttendanceRecord) error {
	return r.DB.Create(rec).Error
}

func (r *AttendanceRepository) ListRecordsBySession(teamID uint, sessionID string) ([]model.AttendanceRecord, error) {
	var recs []model.AttendanceRecord
	err := r.DB.Where("team_id = ? AND session_id = ?", teamID, sessionID).
		Order("checked_in_at asc").Find(&recs).Error
	return recs, err
}

func (r *AttendanceRepository) ListRecordsByStudent(teamID, studentID uint) ([]model.AttendanceRecord, error) {
	var recs []model.AttendanceRecord
	err := r.DB.Where("team_id = ? AND student_id = ?", teamID, studentID).
		Order("checked_in_at desc").Find(&recs).Error
	return recs, err
}

func (r *AttendanceRepository) ListSessions(teamID uint, page, limit int) ([]model.AttendanceSession, int64, error) {
	var ss []model.AttendanceSession
	var total int64
	query := r.DB.Model(&model.AttendanceSession{}).Where("team_id = ?", teamID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("date desc").Offset(offset).Limit(limit).Find(&ss).Error
	return ss, total, err
}
