package model

// TeamRole 是成员在某个团队内的角色，同一用户在不同团队可持有不同角色
type TeamRole string

const (
	RoleOwner   TeamRole = "owner"
	RoleTeacher TeamRole = "teacher"
	RoleStudent TeamRole = "student"
	RoleParent  TeamRole = "parent"
)

func (r TeamRole) Valid() bool {
	switch r {
	case RoleOwner, RoleTeacher, RoleStudent, RoleParent:
		return true
	}
	return false
}

// swagger:model Team
type Team struct {
	BaseModel
	Name    string `gorm:"size:255;not null" json:"name"`
	OwnerID uint   `gorm:"index;not null" json:"ownerId"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

// swagger:model TeamMembership
type TeamMembership struct {
	BaseModel
	TeamID uint     `gorm:"uniqueIndex:idx_team_user;not null" json:"teamId"`
	UserID uint     `gorm:"uniqueIndex:idx_team_user;not null" json:"userId"`
	Role   TeamRole `gorm:"size:20;not null" json:"role"`
	User   *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TeamMembership) TableName() string {
	return "team_memberships"
}

// ParentStudentLink 绑定家长与其可查看的学生，限定在同一团队内
type ParentStudentLink struct {
	BaseModel
	TeamID    uint `gorm:"uniqueIndex:idx_parent_student;not null" json:"teamId"`
	ParentID  uint `gorm:"uniqueIndex:idx_parent_student;not null" json:"parentId"`
	StudentID uint `gorm:"uniqueIndex:idx_parent_student;not null" json:"studentId"`
}

func (ParentStudentLink) TableName() string {
	return "parent_student_links"
}

// ActorContext 显式携带调用者身份，贯穿所有核心调用，不依赖隐式会话状态
type ActorContext struct {
	UserID uint
	TeamID uint
	Role   TeamRole
}
