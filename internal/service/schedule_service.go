package service

import (
	"errors"

	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/repository"
	"schoolhub_backend/internal/util"

	"gorm.io/gorm"
)

type ScheduleService struct {
	Repo   *repository.ScheduleRepository
	Policy *PolicyService
}

func NewScheduleService(repo *repository.ScheduleRepository, policy *PolicyService) *ScheduleService {
	return &ScheduleService{Repo: repo, Policy: policy}
}

type ScheduleRequest struct {
	Title     string `json:"title" binding:"required"`
	TeacherID uint   `json:"teacherId"`
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Room      string `json:"room"`
}

func (s *ScheduleService) Create(actor *model.ActorContext, req ScheduleRequest) (*model.ScheduleEntry, error) {
	if !s.Policy.Can(actor, ActionCreate, Resource{Kind: ResourceSchedule, TeamID: actor.TeamID}) {
		return nil, util.ErrPermissionDenied
	}

	teacherID := req.TeacherID
	if teacherID == 0 {
		teacherID = actor.UserID
	}

	entry := &model.ScheduleEntry{
		TeamID:    actor.TeamID,
		TeacherID: teacherID,
		Title:     req.Title,
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
	}
	if err := s.Repo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ScheduleService) Update(actor *model.ActorContext, id uint, req ScheduleRequest) (*model.ScheduleEntry, error) {
	entry, err := s.Repo.FindByID(actor.TeamID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if !s.Policy.Can(actor, ActionUpdate, Resource{Kind: ResourceSchedule, TeamID: entry.TeamID, OwnerID: entry.TeacherID}) {
		return nil, util.ErrPermissionDenied
	}

	entry.Title = req.Title
	if req.TeacherID != 0 {
		entry.TeacherID = req.TeacherID
	}
	entry.Weekday = req.Weekday
	entry.StartTime = req.StartTime
	entry.EndTime = req.EndTime
	entry.Room = req.Room

	if err := s.Repo.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete 只有 owner 能删，教师的 CRUD 不含删除
func (s *ScheduleService) Delete(actor *model.ActorContext, id uint) error {
	entry, err := s.Repo.FindByID(actor.TeamID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		return err
	}
	if !s.Policy.Can(actor, ActionDelete, Resource{Kind: ResourceSchedule, TeamID: entry.TeamID, OwnerID: entry.TeacherID}) {
		return util.ErrPermissionDenied
	}
	return s.Repo.Delete(actor.TeamID, id)
}

// List 返回团队课表，teacherID 非 0 时只取该教师的课程
func (s *ScheduleService) List(actor *model.ActorContext, teacherID uint) ([]model.ScheduleEntry, error) {
	if !s.Policy.Can(actor, ActionView, Resource{Kind: ResourceSchedule, TeamID: actor.TeamID}) {
		return nil, util.ErrPermissionDenied
	}
	if teacherID != 0 {
		return s.Repo.ListByTeacher(actor.TeamID, teacherID)
	}
	return s.Repo.List(actor.TeamID)
}
