package service

import (
	"errors"

	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/repository"
	"schoolhub_backend/internal/util"

	"gorm.io/gorm"
)

// ActivityService 只提供读口，活动行本身由投影器维护
type ActivityService struct {
	Repo   *repository.ActivityRepository
	Policy *PolicyService
}

func NewActivityService(repo *repository.ActivityRepository, policy *PolicyService) *ActivityService {
	return &ActivityService{Repo: repo, Policy: policy}
}

func (s *ActivityService) List(actor *model.ActorContext, page, limit int) ([]model.Activity, int64, error) {
	if !s.Policy.Can(actor, ActionView, Resource{Kind: ResourceActivity, TeamID: actor.TeamID}) {
		return nil, 0, util.ErrPermissionDenied
	}
	// 学生与家长只看见已发布的活动，草稿对他们不存在
	status := ""
	if actor.Role == model.RoleStudent || actor.Role == model.RoleParent {
		status = string(model.ExamPublished)
	}
	return s.Repo.List(actor.TeamID, status, page, limit)
}

func (s *ActivityService) Get(actor *model.ActorContext, id uint) (*model.Activity, error) {
	activity, err := s.Repo.FindByID(actor.TeamID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !s.Policy.Can(actor, ActionView, Resource{Kind: ResourceActivity, TeamID: activity.TeamID}) {
		return nil, util.ErrNotFound
	}
	if (actor.Role == model.RoleStudent || actor.Role == model.RoleParent) &&
		activity.Status != model.ExamPublished {
		return nil, util.ErrNotFound
	}
	return activity, nil
}
