package service

import (
	"errors"
	"testing"

	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/repository"
	"schoolhub_backend/internal/util"

	"gorm.io/gorm"
)

func newTeamService(t *testing.T) (*TeamService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewTeamService(repository.NewTeamRepository(db), repository.NewUserRepository(db)), db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email, Password: "x"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestCreateTeamGrantsOwnerMembership(t *testing.T) {
	svc, db := newTeamService(t)
	u := seedUser(t, db, "校长", "owner@example.com")

	team, err := svc.CreateTeam(u.ID, CreateTeamRequest{Name: "一中"})
	if err != nil {
		t.Fatalf("CreateTeam() err = %v", err)
	}

	m, err := repository.NewTeamRepository(db).FindMembership(team.ID, u.ID)
	if err != nil {
		t.Fatalf("FindMembership() err = %v", err)
	}
	if m.Role != model.RoleOwner {
		t.Errorf("creator role = %s, want owner", m.Role)
	}

	teams, err := svc.ListMyTeams(u.ID)
	if err != nil {
		t.Fatalf("ListMyTeams() err = %v", err)
	}
	if len(teams) != 1 || teams[0].ID != team.ID {
		t.Errorf("ListMyTeams() = %+v, want the created team", teams)
	}
}

func TestAddMember(t *testing.T) {
	svc, db := newTeamService(t)
	owner := seedUser(t, db, "校长", "owner@example.com")
	teacher := seedUser(t, db, "老师", "teacher@example.com")

	team, err := svc.CreateTeam(owner.ID, CreateTeamRequest{Name: "一中"})
	if err != nil {
		t.Fatalf("CreateTeam() err = %v", err)
	}
	ownerActor := actor(owner.ID, team.ID, model.RoleOwner)

	m, err := svc.AddMember(ownerActor, AddMemberRequest{Email: teacher.Email, Role: model.RoleTeacher})
	if err != nil {
		t.Fatalf("AddMember() err = %v", err)
	}
	if m.Role != model.RoleTeacher {
		t.Errorf("role = %s, want teacher", m.Role)
	}

	// 不能授予第二个 owner，也不能由非 owner 添加成员
	if _, err := svc.AddMember(ownerActor, AddMemberRequest{Email: teacher.Email, Role: model.RoleOwner}); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("AddMember() owner role err = %v, want ErrPermissionDenied", err)
	}
	teacherActor := actor(teacher.ID, team.ID, model.RoleTeacher)
	if _, err := svc.AddMember(teacherActor, AddMemberRequest{Email: "x@example.com", Role: model.RoleStudent}); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("AddMember() as teacher err = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.AddMember(ownerActor, AddMemberRequest{Email: "ghost@example.com", Role: model.RoleStudent}); !errors.Is(err, util.ErrUserNotFound) {
		t.Errorf("AddMember() unknown email err = %v, want ErrUserNotFound", err)
	}
}

func TestLinkParentValidatesRoles(t *testing.T) {
	svc, db := newTeamService(t)
	owner := seedUser(t, db, "校长", "owner@example.com")
	parent := seedUser(t, db, "家长", "parent@example.com")
	student := seedUser(t, db, "学生", "student@example.com")

	team, err := svc.CreateTeam(owner.ID, CreateTeamRequest{Name: "一中"})
	if err != nil {
		t.Fatalf("CreateTeam() err = %v", err)
	}
	ownerActor := actor(owner.ID, team.ID, model.RoleOwner)

	if _, err := svc.AddMember(ownerActor, AddMemberRequest{Email: parent.Email, Role: model.RoleParent}); err != nil {
		t.Fatalf("AddMember(parent) err = %v", err)
	}
	if _, err := svc.AddMember(ownerActor, AddMemberRequest{Email: student.Email, Role: model.RoleStudent}); err != nil {
		t.Fatalf("AddMember(student) err = %v", err)
	}

	// 双方角色不匹配时拒绝绑定
	if _, err := svc.LinkParent(ownerActor, LinkParentRequest{ParentID: student.ID, StudentID: parent.ID}); !errors.Is(err, util.ErrNotTeamMember) {
		t.Errorf("LinkParent() swapped roles err = %v, want ErrNotTeamMember", err)
	}
	if _, err := svc.LinkParent(ownerActor, LinkParentRequest{ParentID: parent.ID, StudentID: 999}); !errors.Is(err, util.ErrNotTeamMember) {
		t.Errorf("LinkParent() unknown student err = %v, want ErrNotTeamMember", err)
	}

	link, err := svc.LinkParent(ownerActor, LinkParentRequest{ParentID: parent.ID, StudentID: student.ID})
	if err != nil {
		t.Fatalf("LinkParent() err = %v", err)
	}

	linked, err := repository.NewTeamRepository(db).IsParentLinked(team.ID, parent.ID, student.ID)
	if err != nil {
		t.Fatalf("IsParentLinked() err = %v", err)
	}
	if !linked {
		t.Errorf("link %d not visible after LinkParent", link.ID)
	}
}
