package service

import (
	"testing"

	"schoolhub_backend/internal/model"
)

func TestCanRejectsCrossTeamAccess(t *testing.T) {
	p := NewPolicyService()
	owner := actor(1, 1, model.RoleOwner)

	if p.Can(owner, ActionView, Resource{Kind: ResourceExam, TeamID: 2}) {
		t.Error("owner of team 1 allowed to view team 2 exam")
	}
	if p.Can(nil, ActionView, Resource{Kind: ResourceExam, TeamID: 1}) {
		t.Error("nil actor allowed")
	}
}

func TestCanExamMatrix(t *testing.T) {
	p := NewPolicyService()
	res := Resource{Kind: ResourceExam, TeamID: 1}

	tests := []struct {
		name   string
		role   model.TeamRole
		action Action
		want   bool
	}{
		{name: "owner creates", role: model.RoleOwner, action: ActionCreate, want: true},
		{name: "owner lists all", role: model.RoleOwner, action: ActionListAll, want: true},
		{name: "teacher cannot create", role: model.RoleTeacher, action: ActionCreate, want: false},
		{name: "teacher cannot delete", role: model.RoleTeacher, action: ActionDelete, want: false},
		{name: "teacher views", role: model.RoleTeacher, action: ActionView, want: true},
		{name: "student views", role: model.RoleStudent, action: ActionView, want: true},
		{name: "student cannot update", role: model.RoleStudent, action: ActionUpdate, want: false},
		{name: "parent views", role: model.RoleParent, action: ActionView, want: true},
		{name: "parent cannot list all", role: model.RoleParent, action: ActionListAll, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Can(actor(5, 1, tt.role), tt.action, res); got != tt.want {
				t.Errorf("Can(%s, %s, exam) = %v, want %v", tt.role, tt.action, got, tt.want)
			}
		})
	}
}

func TestCanSubmissionMatrix(t *testing.T) {
	p := NewPolicyService()

	own := Resource{Kind: ResourceSubmission, TeamID: 1, StudentID: 10}
	foreign := Resource{Kind: ResourceSubmission, TeamID: 1, StudentID: 11}
	linked := Resource{Kind: ResourceSubmission, TeamID: 1, StudentID: 10, ParentLinked: true}

	tests := []struct {
		name   string
		a      *model.ActorContext
		action Action
		res    Resource
		want   bool
	}{
		{name: "student submits own", a: actor(10, 1, model.RoleStudent), action: ActionSubmit, res: own, want: true},
		{name: "student cannot submit for peer", a: actor(10, 1, model.RoleStudent), action: ActionSubmit, res: foreign, want: false},
		{name: "teacher submits on behalf", a: actor(2, 1, model.RoleTeacher), action: ActionSubmit, res: own, want: true},
		{name: "teacher grades", a: actor(2, 1, model.RoleTeacher), action: ActionGrade, res: own, want: true},
		{name: "owner grades", a: actor(1, 1, model.RoleOwner), action: ActionGrade, res: own, want: true},
		{name: "student cannot grade own", a: actor(10, 1, model.RoleStudent), action: ActionGrade, res: own, want: false},
		{name: "student views own", a: actor(10, 1, model.RoleStudent), action: ActionView, res: own, want: true},
		{name: "student cannot view peer", a: actor(10, 1, model.RoleStudent), action: ActionView, res: foreign, want: false},
		{name: "parent views linked", a: actor(20, 1, model.RoleParent), action: ActionView, res: linked, want: true},
		{name: "parent cannot view unlinked", a: actor(20, 1, model.RoleParent), action: ActionView, res: own, want: false},
		{name: "parent cannot grade linked", a: actor(20, 1, model.RoleParent), action: ActionGrade, res: linked, want: false},
		{name: "teacher lists all", a: actor(2, 1, model.RoleTeacher), action: ActionListAll, res: Resource{Kind: ResourceSubmission, TeamID: 1}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Can(tt.a, tt.action, tt.res); got != tt.want {
				t.Errorf("Can(%s, %s) = %v, want %v", tt.a.Role, tt.action, got, tt.want)
			}
		})
	}
}

func TestCanRecordMatrix(t *testing.T) {
	p := NewPolicyService()

	tests := []struct {
		name   string
		role   model.TeamRole
		action Action
		res    Resource
		want   bool
	}{
		{name: "teacher opens attendance", role: model.RoleTeacher, action: ActionCreate, res: Resource{Kind: ResourceAttendance, TeamID: 1}, want: true},
		{name: "teacher cannot delete schedule", role: model.RoleTeacher, action: ActionDelete, res: Resource{Kind: ResourceSchedule, TeamID: 1}, want: false},
		{name: "owner deletes schedule", role: model.RoleOwner, action: ActionDelete, res: Resource{Kind: ResourceSchedule, TeamID: 1}, want: true},
		{name: "student checks in own", role: model.RoleStudent, action: ActionSubmit, res: Resource{Kind: ResourceAttendance, TeamID: 1, StudentID: 5}, want: true},
		{name: "student cannot create sessions", role: model.RoleStudent, action: ActionCreate, res: Resource{Kind: ResourceAttendance, TeamID: 1}, want: false},
		{name: "student views whole schedule", role: model.RoleStudent, action: ActionView, res: Resource{Kind: ResourceSchedule, TeamID: 1}, want: true},
		{name: "parent views whole schedule", role: model.RoleParent, action: ActionView, res: Resource{Kind: ResourceSchedule, TeamID: 1}, want: true},
		{name: "student cannot view foreign attendance", role: model.RoleStudent, action: ActionView, res: Resource{Kind: ResourceAttendance, TeamID: 1, StudentID: 9}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Can(actor(5, 1, tt.role), tt.action, tt.res); got != tt.want {
				t.Errorf("Can(%s, %s, %s) = %v, want %v", tt.role, tt.action, tt.res.Kind, got, tt.want)
			}
		})
	}
}
