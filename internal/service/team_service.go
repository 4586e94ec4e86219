package service

import (
	"errors"

	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/repository"
	"schoolhub_backend/internal/util"

	"gorm.io/gorm"
)

type TeamService struct {
	Repo     *repository.TeamRepository
	UserRepo *repository.UserRepository
}

func NewTeamService(repo *repository.TeamRepository, userRepo *repository.UserRepository) *TeamService {
	return &TeamService{Repo: repo, UserRepo: userRepo}
}

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *TeamService) CreateTeam(userID uint, req CreateTeamRequest) (*model.Team, error) {
	team := &model.Team{
		Name:    req.Name,
		OwnerID: userID,
	}
	if err := s.Repo.CreateTeam(team); err != nil {
		return nil, err
	}
	return team, nil
}

type AddMemberRequest struct {
	Email string         `json:"email" binding:"required,email"`
	Role  model.TeamRole `json:"role" binding:"required"`
}

// AddMember 仅 owner 可加成员，owner 角色无法二次授予
func (s *TeamService) AddMember(actor *model.ActorContext, req AddMemberRequest) (*model.TeamMembership, error) {
	if actor.Role != model.RoleOwner {
		return nil, util.ErrPermissionDenied
	}
	if !req.Role.Valid() || req.Role == model.RoleOwner {
		return nil, util.ErrPermissionDenied
	}

	user, err := s.UserRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	membership := &model.TeamMembership{
		TeamID: actor.TeamID,
		UserID: user.ID,
		Role:   req.Role,
	}
	if err := s.Repo.AddMember(membership); err != nil {
		return nil, err
	}
	return membership, nil
}

type LinkParentRequest struct {
	ParentID  uint `json:"parentId" binding:"required"`
	StudentID uint `json:"studentId" binding:"required"`
}

// LinkParent 绑定家长与学生，双方必须已是本团队成员且角色匹配
func (s *TeamService) LinkParent(actor *model.ActorContext, req LinkParentRequest) (*model.ParentStudentLink, error) {
	if actor.Role != model.RoleOwner {
		return nil, util.ErrPermissionDenied
	}

	parent, err := s.Repo.FindMembership(actor.TeamID, req.ParentID)
	if err != nil || parent.Role != model.RoleParent {
		return nil, util.ErrNotTeamMember
	}
	student, err := s.Repo.FindMembership(actor.TeamID, req.StudentID)
	if err != nil || student.Role != model.RoleStudent {
		return nil, util.ErrNotTeamMember
	}

	link := &model.ParentStudentLink{
		TeamID:    actor.TeamID,
		ParentID:  req.ParentID,
		StudentID: req.StudentID,
	}
	if err := s.Repo.LinkParent(link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *TeamService) ListMembers(actor *model.ActorContext, role model.TeamRole) ([]model.TeamMembership, error) {
	if actor.Role != model.RoleOwner && actor.Role != model.RoleTeacher {
		return nil, util.ErrPermissionDenied
	}
	return s.Repo.ListMembers(actor.TeamID, role)
}

func (s *TeamService) ListMyTeams(userID uint) ([]model.Team, error) {
	return s.Repo.ListTeamsForUser(userID)
}
