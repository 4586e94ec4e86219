package service

import "schoolhub_backend/internal/model"

type Action string

const (
	ActionCreate  Action = "create"
	ActionView    Action = "view"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionListAll Action = "list_all"
	ActionSubmit  Action = "submit"
	ActionGrade   Action = "grade"
)

type ResourceKind string

const (
	ResourceExam       ResourceKind = "exam"
	ResourceQuestion   ResourceKind = "question"
	ResourceActivity   ResourceKind = "activity"
	ResourceSubmission ResourceKind = "submission"
	ResourceAttendance ResourceKind = "attendance"
	ResourceSchedule   ResourceKind = "schedule"
)

// Resource 携带判定所需的全部事实，策略函数之外没有任何隐藏状态
type Resource struct {
	Kind      ResourceKind
	TeamID    uint
	OwnerID   uint // 出题教师 / 记录创建者
	StudentID uint // 提交 / 考勤记录归属的学生
	// 家长与 StudentID 是否存在绑定关系，由调用方查好传入，保持本函数纯净
	ParentLinked bool
}

// PolicyService 是纯函数集合，每次变更或罗列操作前都要先过 Can
type PolicyService struct{}

func NewPolicyService() *PolicyService {
	return &PolicyService{}
}

func (p *PolicyService) Can(actor *model.ActorContext, action Action, res Resource) bool {
	if actor == nil || actor.TeamID != res.TeamID {
		return false
	}

	switch res.Kind {
	case ResourceExam, ResourceQuestion:
		// 题目授权完全继承所属考试
		return p.canExam(actor, action)
	case ResourceActivity:
		return p.canActivity(actor, action, res)
	case ResourceSubmission:
		return p.canSubmission(actor, action, res)
	case ResourceAttendance, ResourceSchedule:
		return p.canRecord(actor, action, res)
	}
	return false
}

// 考试的建删改与全量罗列只开放给团队 owner，教师仅可读
func (p *PolicyService) canExam(actor *model.ActorContext, action Action) bool {
	switch action {
	case ActionCreate, ActionUpdate, ActionDelete, ActionListAll:
		return actor.Role == model.RoleOwner
	case ActionView:
		return actor.Role == model.RoleOwner || actor.Role == model.RoleTeacher ||
			actor.Role == model.RoleStudent || actor.Role == model.RoleParent
	}
	return false
}

func (p *PolicyService) canActivity(actor *model.ActorContext, action Action, res Resource) bool {
	switch action {
	case ActionCreate, ActionUpdate, ActionDelete:
		// 活动由投影维护，人工改动仅限 owner
		return actor.Role == model.RoleOwner
	case ActionView, ActionListAll:
		return true // 同团队成员均可见作业列表
	}
	return false
}

func (p *PolicyService) canSubmission(actor *model.ActorContext, action Action, res Resource) bool {
	switch action {
	case ActionSubmit:
		// 学生交自己的，owner/教师可代交
		if actor.Role == model.RoleStudent {
			return res.StudentID == actor.UserID
		}
		return actor.Role == model.RoleOwner || actor.Role == model.RoleTeacher
	case ActionGrade, ActionListAll:
		return actor.Role == model.RoleOwner || actor.Role == model.RoleTeacher
	case ActionView:
		switch actor.Role {
		case model.RoleOwner, model.RoleTeacher:
			return true
		case model.RoleStudent:
			return res.StudentID == actor.UserID
		case model.RoleParent:
			return res.ParentLinked
		}
	}
	return false
}

// 考勤与课表共用一套矩阵：owner 全量，教师不可删，学生只读自己，家长只读绑定学生
func (p *PolicyService) canRecord(actor *model.ActorContext, action Action, res Resource) bool {
	switch action {
	case ActionCreate, ActionUpdate:
		return actor.Role == model.RoleOwner || actor.Role == model.RoleTeacher
	case ActionDelete:
		return actor.Role == model.RoleOwner
	case ActionListAll:
		return actor.Role == model.RoleOwner || actor.Role == model.RoleTeacher
	case ActionView:
		// 课表整表对团队可见，考勤记录按归属收紧
		if res.Kind == ResourceSchedule {
			return true
		}
		switch actor.Role {
		case model.RoleOwner, model.RoleTeacher:
			return true
		case model.RoleStudent:
			return res.StudentID == actor.UserID
		case model.RoleParent:
			return res.ParentLinked
		}
	case ActionSubmit:
		// 学生扫码签到自己的记录
		return actor.Role == model.RoleStudent && res.StudentID == actor.UserID
	}
	return false
}
