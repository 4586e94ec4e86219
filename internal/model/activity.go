package model

import "time"

// Activity 是考试头部字段的投影，作业统一视图读取此表而非考试表。
// ExamID 上的唯一索引保证投影重放幂等
// swagger:model Activity
type Activity struct {
	BaseModel
	TeamID      uint       `gorm:"index;not null" json:"teamId"`
	TeacherID   uint       `gorm:"index;not null" json:"teacherId"`
	ExamID      *uint      `gorm:"uniqueIndex" json:"examId,omitempty"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	TotalPoints int        `gorm:"default:0" json:"totalPoints"`
	Status      ExamStatus `gorm:"size:20;default:'draft'" json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

func (Activity) TableName() string {
	return "activities"
}
