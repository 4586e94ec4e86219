package model

import "time"

type ExamStatus string

const (
	ExamDraft     ExamStatus = "draft"
	ExamPublished ExamStatus = "published"
	ExamArchived  ExamStatus = "archived"
)

func (s ExamStatus) Valid() bool {
	switch s {
	case ExamDraft, ExamPublished, ExamArchived:
		return true
	}
	return false
}

// Exam 是考试聚合的头部，TotalPoints 由题目分值累加得出，禁止直接写入
// swagger:model Exam
type Exam struct {
	BaseModel
	TeamID      uint       `gorm:"index;not null" json:"teamId"`
	TeacherID   uint       `gorm:"index;not null" json:"teacherId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      ExamStatus `gorm:"size:20;default:'draft'" json:"status"`
	TotalPoints int        `gorm:"default:0" json:"totalPoints"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Questions   []Question `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}
