package model

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
)

// AttendanceSession 对应一次点名，Token 编码进二维码供学生扫码签到
// swagger:model AttendanceSession
type AttendanceSession struct {
	UUIDBase
	TeamID    uint      `gorm:"index;not null" json:"teamId"`
	CreatedBy uint      `gorm:"not null" json:"createdBy"`
	ClassName string    `gorm:"size:255" json:"className"`
	Date      time.Time `json:"date"`
	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	LateAfter time.Time `json:"lateAfter"`
}

func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}

// swagger:model AttendanceRecord
type AttendanceRecord struct {
	BaseModel
	TeamID      uint             `gorm:"index;not null" json:"teamId"`
	SessionID   string           `gorm:"uniqueIndex:idx_session_student;type:varchar(36);not null" json:"sessionId"`
	StudentID   uint             `gorm:"uniqueIndex:idx_session_student;not null" json:"studentId"`
	Status      AttendanceStatus `gorm:"size:20;not null" json:"status"`
	CheckedInAt time.Time        `json:"checkedInAt"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
