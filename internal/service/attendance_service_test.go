package service

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"schoolhub_backend/internal/config"
	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/repository"
	"schoolhub_backend/internal/util"

	"gorm.io/gorm"
)

func newAttendanceService(t *testing.T) (*AttendanceService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.AttendanceConfig{TokenTTLMinutes: 30, LateAfterMinutes: 10}
	svc := NewAttendanceService(
		repository.NewAttendanceRepository(db),
		repository.NewTeamRepository(db),
		NewPolicyService(),
		cfg,
	)
	return svc, db
}

func TestOpenSessionAndCheckIn(t *testing.T) {
	svc, _ := newAttendanceService(t)
	teacher := actor(2, 1, model.RoleTeacher)

	session, err := svc.OpenSession(teacher, OpenSessionRequest{ClassName: "高一(3)班"})
	if err != nil {
		t.Fatalf("OpenSession() err = %v", err)
	}
	if session.Token == "" {
		t.Fatal("session token empty")
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Error("session already expired at creation")
	}

	student := actor(10, 1, model.RoleStudent)
	record, err := svc.CheckIn(student, session.Token)
	if err != nil {
		t.Fatalf("CheckIn() err = %v", err)
	}
	if record.Status != model.AttendancePresent {
		t.Errorf("status = %s, want present", record.Status)
	}

	// 重复扫码幂等，返回同一条记录
	again, err := svc.CheckIn(student, session.Token)
	if err != nil {
		t.Fatalf("CheckIn() replay err = %v", err)
	}
	if again.ID != record.ID {
		t.Errorf("replay created new record %d, want %d", again.ID, record.ID)
	}
}

func TestCheckInAfterLateThreshold(t *testing.T) {
	svc, db := newAttendanceService(t)

	session, err := svc.OpenSession(actor(2, 1, model.RoleTeacher), OpenSessionRequest{ClassName: "高一(3)班"})
	if err != nil {
		t.Fatalf("OpenSession() err = %v", err)
	}
	// 把迟到阈值拨到过去，签到仍在有效期内
	if err := db.Model(&model.AttendanceSession{}).Where("id = ?", session.ID).
		Update("late_after", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("rewind late_after: %v", err)
	}

	record, err := svc.CheckIn(actor(10, 1, model.RoleStudent), session.Token)
	if err != nil {
		t.Fatalf("CheckIn() err = %v", err)
	}
	if record.Status != model.AttendanceLate {
		t.Errorf("status = %s, want late", record.Status)
	}
}

func TestCheckInRejectsExpiredToken(t *testing.T) {
	svc, db := newAttendanceService(t)

	session, err := svc.OpenSession(actor(2, 1, model.RoleTeacher), OpenSessionRequest{ClassName: "高一(3)班"})
	if err != nil {
		t.Fatalf("OpenSession() err = %v", err)
	}
	if err := db.Model(&model.AttendanceSession{}).Where("id = ?", session.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("expire session: %v", err)
	}

	if _, err := svc.CheckIn(actor(10, 1, model.RoleStudent), session.Token); !errors.Is(err, util.ErrSessionExpired) {
		t.Fatalf("CheckIn() err = %v, want ErrSessionExpired", err)
	}
	if _, err := svc.CheckIn(actor(10, 1, model.RoleStudent), "no-such-token"); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("CheckIn() unknown token err = %v, want ErrNotFound", err)
	}
}

func TestCheckInDeniedOutsideStudentRole(t *testing.T) {
	svc, _ := newAttendanceService(t)

	session, err := svc.OpenSession(actor(2, 1, model.RoleTeacher), OpenSessionRequest{ClassName: "高一(3)班"})
	if err != nil {
		t.Fatalf("OpenSession() err = %v", err)
	}

	if _, err := svc.CheckIn(actor(2, 1, model.RoleTeacher), session.Token); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("CheckIn() as teacher err = %v, want ErrPermissionDenied", err)
	}
	// 其他团队的学生拿到令牌也签不进来
	if _, err := svc.CheckIn(actor(10, 2, model.RoleStudent), session.Token); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("CheckIn() cross-team err = %v, want ErrPermissionDenied", err)
	}
}

func TestSessionQRProducesPNG(t *testing.T) {
	svc, _ := newAttendanceService(t)
	teacher := actor(2, 1, model.RoleTeacher)

	session, err := svc.OpenSession(teacher, OpenSessionRequest{ClassName: "高一(3)班"})
	if err != nil {
		t.Fatalf("OpenSession() err = %v", err)
	}

	png, err := svc.SessionQR(teacher, session.ID)
	if err != nil {
		t.Fatalf("SessionQR() err = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("QR output is not a PNG")
	}

	if _, err := svc.SessionQR(actor(10, 1, model.RoleStudent), session.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("SessionQR() as student err = %v, want ErrPermissionDenied", err)
	}
}
