package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/repository"
	"schoolhub_backend/internal/util"

	"gorm.io/gorm"
)

func newSubmissionService(t *testing.T) (*SubmissionService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewActivityRepository(db),
		repository.NewTeamRepository(db),
		NewPolicyService(),
		nil,
	)
	return svc, db
}

func seedActivity(t *testing.T, db *gorm.DB, teamID uint, totalPoints int, deadline *time.Time) *model.Activity {
	t.Helper()
	a := &model.Activity{
		TeamID:      teamID,
		TeacherID:   1,
		Title:       "期中考试",
		TotalPoints: totalPoints,
		Status:      model.ExamPublished,
		Deadline:    deadline,
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	return a
}

func TestSubmitAndGrade(t *testing.T) {
	svc, db := newSubmissionService(t)
	activity := seedActivity(t, db, 1, 40, nil)

	student := actor(10, 1, model.RoleStudent)
	sub, err := svc.Submit(student, SubmitRequest{ActivityID: activity.ID, Content: "我的答案"})
	if err != nil {
		t.Fatalf("Submit() err = %v", err)
	}
	if sub.Status != model.SubmissionSubmitted {
		t.Errorf("status = %s, want submitted", sub.Status)
	}
	if sub.Graded() {
		t.Error("fresh submission reports graded")
	}

	teacher := actor(2, 1, model.RoleTeacher)
	graded, err := svc.Grade(teacher, sub.ID, GradeRequest{Score: 35, FinalGrade: 87.5, Feedback: "不错"})
	if err != nil {
		t.Fatalf("Grade() err = %v", err)
	}
	if graded.Status != model.SubmissionCompleted {
		t.Errorf("status = %s, want completed", graded.Status)
	}
	if graded.GradedBy == nil || *graded.GradedBy != teacher.UserID {
		t.Errorf("GradedBy = %v, want %d", graded.GradedBy, teacher.UserID)
	}
	if graded.Score == nil || *graded.Score != 35 {
		t.Errorf("Score = %v, want 35", graded.Score)
	}
}

func TestSubmitAfterDeadlineMarksLate(t *testing.T) {
	svc, db := newSubmissionService(t)
	past := time.Now().Add(-time.Hour)
	activity := seedActivity(t, db, 1, 40, &past)

	sub, err := svc.Submit(actor(10, 1, model.RoleStudent), SubmitRequest{ActivityID: activity.ID, Content: "迟了"})
	if err != nil {
		t.Fatalf("Submit() err = %v", err)
	}
	if sub.Status != model.SubmissionLate {
		t.Errorf("status = %s, want late", sub.Status)
	}
}

func TestGradeRejectsScoreAboveTotal(t *testing.T) {
	svc, db := newSubmissionService(t)
	activity := seedActivity(t, db, 1, 40, nil)

	sub, err := svc.Submit(actor(10, 1, model.RoleStudent), SubmitRequest{ActivityID: activity.ID})
	if err != nil {
		t.Fatalf("Submit() err = %v", err)
	}

	teacher := actor(2, 1, model.RoleTeacher)
	if _, err := svc.Grade(teacher, sub.ID, GradeRequest{Score: 41}); !errors.Is(err, util.ErrInvalidScore) {
		t.Fatalf("Grade() err = %v, want ErrInvalidScore", err)
	}
	if _, err := svc.Grade(teacher, sub.ID, GradeRequest{Score: -1}); !errors.Is(err, util.ErrInvalidScore) {
		t.Fatalf("Grade() negative err = %v, want ErrInvalidScore", err)
	}

	// 被拒的评分不留任何痕迹
	kept, err := svc.GetSubmission(teacher, sub.ID)
	if err != nil {
		t.Fatalf("GetSubmission() err = %v", err)
	}
	if kept.Graded() || kept.Score != nil || kept.Status != model.SubmissionSubmitted {
		t.Errorf("submission mutated by rejected grade: %+v", kept)
	}
}

func TestStudentCannotOverwriteGradedSubmission(t *testing.T) {
	svc, db := newSubmissionService(t)
	activity := seedActivity(t, db, 1, 40, nil)

	student := actor(10, 1, model.RoleStudent)
	sub, err := svc.Submit(student, SubmitRequest{ActivityID: activity.ID, Content: "v1"})
	if err != nil {
		t.Fatalf("Submit() err = %v", err)
	}
	if _, err := svc.Grade(actor(2, 1, model.RoleTeacher), sub.ID, GradeRequest{Score: 30}); err != nil {
		t.Fatalf("Grade() err = %v", err)
	}

	if _, err := svc.Submit(student, SubmitRequest{ActivityID: activity.ID, Content: "v2"}); !errors.Is(err, util.ErrAlreadyGraded) {
		t.Fatalf("Submit() over graded err = %v, want ErrAlreadyGraded", err)
	}

	// 教师代交视作放行重测，评分字段清空
	resub, err := svc.Submit(actor(2, 1, model.RoleTeacher), SubmitRequest{ActivityID: activity.ID, StudentID: student.UserID, Content: "retake"})
	if err != nil {
		t.Fatalf("Submit() as teacher err = %v", err)
	}
	if resub.Graded() || resub.Score != nil {
		t.Errorf("grade fields survived retake: %+v", resub)
	}
	if resub.Status != model.SubmissionSubmitted {
		t.Errorf("status = %s, want submitted", resub.Status)
	}
}

func TestBulkGradeCollectsFailures(t *testing.T) {
	svc, db := newSubmissionService(t)
	big := seedActivity(t, db, 1, 40, nil)
	small := seedActivity(t, db, 1, 5, nil)

	subA, err := svc.Submit(actor(10, 1, model.RoleStudent), SubmitRequest{ActivityID: big.ID})
	if err != nil {
		t.Fatalf("Submit() A err = %v", err)
	}
	// B 挂在一个总分只有 5 的活动上，统一打 10 分必然越界
	subB, err := svc.Submit(actor(11, 1, model.RoleStudent), SubmitRequest{ActivityID: small.ID})
	if err != nil {
		t.Fatalf("Submit() B err = %v", err)
	}
	subC, err := svc.Submit(actor(12, 1, model.RoleStudent), SubmitRequest{ActivityID: big.ID})
	if err != nil {
		t.Fatalf("Submit() C err = %v", err)
	}

	teacher := actor(2, 1, model.RoleTeacher)
	result := svc.BulkGrade(teacher, []string{subA.ID, subB.ID, subC.ID}, GradeRequest{Score: 10})

	if len(result.Updated) != 2 {
		t.Errorf("updated = %v, want A and C", result.Updated)
	}
	if len(result.Failures) != 1 || result.Failures[0].SubmissionID != subB.ID {
		t.Fatalf("failures = %+v, want single failure for B", result.Failures)
	}

	// 单条失败不拦整批：A 与 C 已完成，B 原样
	gotA, _ := svc.GetSubmission(teacher, subA.ID)
	gotB, _ := svc.GetSubmission(teacher, subB.ID)
	gotC, _ := svc.GetSubmission(teacher, subC.ID)
	if !gotA.Graded() || !gotC.Graded() {
		t.Error("successful entries not persisted")
	}
	if gotB.Graded() {
		t.Error("failed entry was persisted")
	}
}

func TestSubmissionVisibility(t *testing.T) {
	svc, db := newSubmissionService(t)
	activity := seedActivity(t, db, 1, 40, nil)

	sub, err := svc.Submit(actor(10, 1, model.RoleStudent), SubmitRequest{ActivityID: activity.ID})
	if err != nil {
		t.Fatalf("Submit() err = %v", err)
	}

	// 其他学生查不到这份提交的存在
	if _, err := svc.GetSubmission(actor(11, 1, model.RoleStudent), sub.ID); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("GetSubmission() as other student err = %v, want ErrNotFound", err)
	}

	// 未绑定家长同样按不存在处理
	parent := actor(20, 1, model.RoleParent)
	if _, err := svc.GetSubmission(parent, sub.ID); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("GetSubmission() as unlinked parent err = %v, want ErrNotFound", err)
	}

	// 绑定之后放行
	if err := db.Create(&model.ParentStudentLink{TeamID: 1, ParentID: 20, StudentID: 10}).Error; err != nil {
		t.Fatalf("seed parent link: %v", err)
	}
	if _, err := svc.GetSubmission(parent, sub.ID); err != nil {
		t.Errorf("GetSubmission() as linked parent err = %v", err)
	}

	// 学生无评分权限且看不到他人提交，评分接口也应答 not-found
	if _, err := svc.Grade(actor(11, 1, model.RoleStudent), sub.ID, GradeRequest{Score: 1}); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("Grade() as other student err = %v, want ErrNotFound", err)
	}
	// 本人看得到但没有评分权限，答 permission denied
	if _, err := svc.Grade(actor(10, 1, model.RoleStudent), sub.ID, GradeRequest{Score: 1}); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("Grade() as owner student err = %v, want ErrPermissionDenied", err)
	}
}

func TestListForStudentParentScope(t *testing.T) {
	svc, db := newSubmissionService(t)
	activity := seedActivity(t, db, 1, 40, nil)

	if _, err := svc.Submit(actor(10, 1, model.RoleStudent), SubmitRequest{ActivityID: activity.ID}); err != nil {
		t.Fatalf("Submit() err = %v", err)
	}

	parent := actor(20, 1, model.RoleParent)
	if _, err := svc.ListForStudent(parent, 10); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("ListForStudent() unlinked err = %v, want ErrPermissionDenied", err)
	}

	if err := db.Create(&model.ParentStudentLink{TeamID: 1, ParentID: 20, StudentID: 10}).Error; err != nil {
		t.Fatalf("seed parent link: %v", err)
	}
	subs, err := svc.ListForStudent(parent, 10)
	if err != nil {
		t.Fatalf("ListForStudent() linked err = %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("submissions = %d, want 1", len(subs))
	}
}

func TestAppendAttachmentPersistsAndGates(t *testing.T) {
	svc, db := newSubmissionService(t)
	activity := seedActivity(t, db, 1, 40, nil)

	student := actor(10, 1, model.RoleStudent)
	sub, err := svc.Submit(student, SubmitRequest{
		ActivityID:  activity.ID,
		Attachments: []model.Attachment{{Name: "draft.pdf", URL: "/uploads/submissions/x/draft.pdf"}},
	})
	if err != nil {
		t.Fatalf("Submit() err = %v", err)
	}

	updated, err := svc.AppendAttachment(student, sub.ID, model.Attachment{
		Name: "photo.png",
		URL:  "/uploads/submissions/x/photo.png",
		Size: 1024,
	})
	if err != nil {
		t.Fatalf("AppendAttachment() err = %v", err)
	}
	var list []model.Attachment
	if err := json.Unmarshal(updated.Attachments, &list); err != nil {
		t.Fatalf("unmarshal attachments: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("attachments = %d, want 2", len(list))
	}
	if list[1].Name != "photo.png" || list[1].URL != "/uploads/submissions/x/photo.png" {
		t.Errorf("appended entry = %+v", list[1])
	}

	// 家长已绑定也只读，挂不了附件
	if err := db.Create(&model.ParentStudentLink{TeamID: 1, ParentID: 20, StudentID: 10}).Error; err != nil {
		t.Fatalf("seed parent link: %v", err)
	}
	parent := actor(20, 1, model.RoleParent)
	if _, err := svc.AppendAttachment(parent, sub.ID, model.Attachment{Name: "x"}); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("AppendAttachment() as parent err = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.AuthorizeAttachment(parent, sub.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("AuthorizeAttachment() as parent err = %v, want ErrPermissionDenied", err)
	}

	// 无关学生按不存在处理
	if _, err := svc.AppendAttachment(actor(11, 1, model.RoleStudent), sub.ID, model.Attachment{Name: "x"}); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("AppendAttachment() as peer err = %v, want ErrNotFound", err)
	}

	// 评分落账后学生不能再补附件
	if _, err := svc.Grade(actor(2, 1, model.RoleTeacher), sub.ID, GradeRequest{Score: 30}); err != nil {
		t.Fatalf("Grade() err = %v", err)
	}
	if _, err := svc.AppendAttachment(student, sub.ID, model.Attachment{Name: "late.png"}); !errors.Is(err, util.ErrAlreadyGraded) {
		t.Errorf("AppendAttachment() after grading err = %v, want ErrAlreadyGraded", err)
	}
}

func TestGradeMissingActivityReturnsNotFound(t *testing.T) {
	svc, db := newSubmissionService(t)
	activity := seedActivity(t, db, 1, 40, nil)

	sub, err := svc.Submit(actor(10, 1, model.RoleStudent), SubmitRequest{ActivityID: activity.ID})
	if err != nil {
		t.Fatalf("Submit() err = %v", err)
	}

	// 考试删除后活动镜像行一并消失，存量提交的评分要收敛成 404
	if err := db.Unscoped().Delete(&model.Activity{}, activity.ID).Error; err != nil {
		t.Fatalf("delete activity: %v", err)
	}

	if _, err := svc.Grade(actor(2, 1, model.RoleTeacher), sub.ID, GradeRequest{Score: 10}); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("Grade() err = %v, want ErrNotFound", err)
	}
}
