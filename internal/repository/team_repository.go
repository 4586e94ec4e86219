package repository

import (
	"schoolhub_backend/internal/model"

	"gorm.io/gorm"
)

type TeamRepository struct {
	DB *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{DB: db}
}

// CreateTeam 建团并写入 owner 成员行，两者同一事务
func (r *TeamRepository) CreateTeam(team *model.Team) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		membership := &model.TeamMembership{
			TeamID: team.ID,
			UserID: team.OwnerID,
			Role:   model.RoleOwner,
		}
		return tx.Create(membership).Error
	})
}

func (r *TeamRepository) FindByID(id uint) (*model.Team, error) {
	var t model.Team
	err := r.DB.First(&t, id).Error
	return &t, err
}

func (r *TeamRepository) AddMember(m *model.TeamMembership) error {
	return r.DB.Create(m).Error
}

func (r *TeamRepository) FindMembership(teamID, userID uint) (*model.TeamMembership, error) {
	var m model.TeamMembership
	err := r.DB.Where("team_id = ? AND user_id = ?", teamID, userID).First(&m).Error
	return &m, err
}

func (r *TeamRepository) ListMembers(teamID uint, role model.TeamRole) ([]model.TeamMembership, error) {
	var ms []model.TeamMembership
	query := r.DB.Preload("User").Where("team_id = ?", teamID)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	err := query.Order("created_at asc").Find(&ms).Error
	return ms, err
}

func (r *TeamRepository) ListTeamsForUser(userID uint) ([]model.Team, error) {
	var teams []model.Team
	err := r.DB.Joins("JOIN team_memberships ON team_memberships.team_id = teams.id").
		Where("team_memberships.user_id = ? AND team_memberships.deleted_at IS NULL", userID).
		Find(&teams).Error
	return teams, err
}

func (r *TeamRepository) LinkParent(link *model.ParentStudentLink) error {
	return r.DB.Create(link).Error
}

func (r *TeamRepository) IsParentLinked(teamID, parentID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ParentStudentLink{}).
		Where("team_id = ? AND parent_id = ? AND student_id = ?", teamID, parentID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *TeamRepository) ListLinkedStudents(teamID, parentID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.ParentStudentLink{}).
		Where("team_id = ? AND parent_id = ?", teamID, parentID).
		Pluck("student_id", &ids).Error
	return ids, err
}
