package model

import (
	"encoding/json"
	"time"
)

type SubmissionStatus string

const (
	SubmissionDraft      SubmissionStatus = "draft"
	SubmissionInProgress SubmissionStatus = "in_progress"
	SubmissionSubmitted  SubmissionStatus = "submitted"
	SubmissionLate       SubmissionStatus = "late"
	SubmissionCompleted  SubmissionStatus = "completed"
)

// Submission 是评分台账的一行。GradedBy/GradedAt 只能由评分动作成对写入，
// 学生端永远无法触碰这三个评分字段
// swagger:model Submission
type Submission struct {
	UUIDBase
	TeamID      uint             `gorm:"index;not null" json:"teamId"`
	StudentID   uint             `gorm:"index;not null" json:"studentId"`
	ActivityID  uint             `gorm:"index;not null" json:"activityId"`
	ExamID      *uint            `gorm:"index" json:"examId,omitempty"`
	Status      SubmissionStatus `gorm:"size:20;default:'draft'" json:"status"`
	Content     string           `gorm:"type:text" json:"content"`
	Attachments json.RawMessage  `gorm:"type:json" json:"attachments,omitempty"`
	Score       *float64         `json:"score,omitempty"`
	FinalGrade  *float64         `json:"finalGrade,omitempty"`
	Feedback    string           `gorm:"type:text" json:"feedback"`
	SubmittedAt *time.Time       `json:"submittedAt,omitempty"`
	GradedBy    *uint            `json:"gradedBy,omitempty"`
	GradedAt    *time.Time       `json:"gradedAt,omitempty"`
	Student     *User            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) Graded() bool {
	return s.GradedBy != nil
}

type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size,omitempty"`
}
