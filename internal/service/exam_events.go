package service

import (
	"time"

	"schoolhub_backend/internal/model"
)

type ExamEventType string

const (
	ExamCreated      ExamEventType = "created"
	ExamUpdated      ExamEventType = "updated"
	ExamDeleted      ExamEventType = "deleted"
	ExamRestored     ExamEventType = "restored"
	ExamForceDeleted ExamEventType = "force_deleted"
)

// ExamEvent 是考试写路径显式发布的事件，携带投影所需的完整头部快照，
// 消费方不需要回查考试表
type ExamEvent struct {
	Type        ExamEventType    `json:"type"`
	ExamID      uint             `json:"examId"`
	TeamID      uint             `json:"teamId"`
	TeacherID   uint             `json:"teacherId"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	TotalPoints int              `json:"totalPoints"`
	Status      model.ExamStatus `json:"status"`
	Deadline    *time.Time       `json:"deadline,omitempty"`
	OccurredAt  time.Time        `json:"occurredAt"`
}

func newExamEvent(t ExamEventType, exam *model.Exam) ExamEvent {
	return ExamEvent{
		Type:        t,
		ExamID:      exam.ID,
		TeamID:      exam.TeamID,
		TeacherID:   exam.TeacherID,
		Title:       exam.Title,
		Description: exam.Description,
		TotalPoints: exam.TotalPoints,
		Status:      exam.Status,
		Deadline:    exam.Deadline,
		OccurredAt:  time.Now(),
	}
}

// ExamEventPublisher 由投影器实现，考试服务只认这个接口
type ExamEventPublisher interface {
	Publish(ev ExamEvent)
}
