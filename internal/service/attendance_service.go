package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"schoolhub_backend/internal/config"
	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/repository"
	"schoolhub_backend/internal/util"

	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

type AttendanceService struct {
	Repo     *repository.AttendanceRepository
	TeamRepo *repository.TeamRepository
	Policy   *PolicyService
	Cfg      *config.AttendanceConfig
}

func NewAttendanceService(repo *repository.AttendanceRepository, teamRepo *repository.TeamRepository, policy *PolicyService, cfg *config.AttendanceConfig) *AttendanceService {
	return &AttendanceService{Repo: repo, TeamRepo: teamRepo, Policy: policy, Cfg: cfg}
}

type OpenSessionRequest struct {
	ClassName string     `json:"className" binding:"required"`
	Date      *time.Time `json:"date,omitempty"`
}

// OpenSession 发起一次点名并生成签到令牌，令牌随二维码下发
func (s *AttendanceService) OpenSession(actor *model.ActorContext, req OpenSessionRequest) (*model.AttendanceSession, error) {
	if !s.Policy.Can(actor, ActionCreate, Resource{Kind: ResourceAttendance, TeamID: actor.TeamID}) {
		return nil, util.ErrPermissionDenied
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}

	now := time.Now()
	date := now
	if req.Date != nil {
		date = *req.Date
	}

	session := &model.AttendanceSession{
		TeamID:    actor.TeamID,
		CreatedBy: actor.UserID,
		ClassName: req.ClassName,
		Date:      date,
		Token:     hex.EncodeToString(buf),
		ExpiresAt: now.Add(time.Duration(s.Cfg.TokenTTLMinutes) * time.Minute),
		LateAfter: now.Add(time.Duration(s.Cfg.LateAfterMinutes) * time.Minute),
	}
	if err := s.Repo.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// SessionQR 把签到令牌编码成 PNG 二维码
func (s *AttendanceService) SessionQR(actor *model.ActorContext, sessionID string) ([]byte, error) {
	session, err := s.Repo.FindSessionByID(actor.TeamID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if !s.Policy.Can(actor, ActionListAll, Resource{Kind: ResourceAttendance, TeamID: session.TeamID}) {
		return nil, util.ErrPermissionDenied
	}
	return qrcode.Encode(session.Token, qrcode.Medium, 256)
}

// CheckIn 学生扫码签到。重复签到幂等返回已有记录，过期令牌拒绝
func (s *AttendanceService) CheckIn(actor *model.ActorContext, token string) (*model.AttendanceRecord, error) {
	session, err := s.Repo.FindSessionByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	if !s.Policy.Can(actor, ActionSubmit, Resource{Kind: ResourceAttendance, TeamID: session.TeamID, StudentID: actor.UserID}) {
		return nil, util.ErrPermissionDenied
	}

	now := time.Now()
	if now.After(session.ExpiresAt) {
		return nil, util.ErrSessionExpired
	}

	if existing, err := s.Repo.FindRecord(session.ID, actor.UserID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	status := model.AttendancePresent
	if now.After(session.LateAfter) {
		status = model.AttendanceLate
	}

	record := &model.AttendanceRecord{
		TeamID:      session.TeamID,
		SessionID:   session.ID,
		StudentID:   actor.UserID,
		Status:      status,
		CheckedInAt: now,
	}
	if err := s.Repo.CreateRecord(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *AttendanceService) ListSessions(actor *model.ActorContext, page, limit int) ([]model.AttendanceSession, int64, error) {
	if !s.Policy.Can(actor, ActionListAll, Resource{Kind: ResourceAttendance, TeamID: actor.TeamID}) {
		return nil, 0, util.ErrPermissionDenied
	}
	return s.Repo.ListSessions(actor.TeamID, page, limit)
}

func (s *AttendanceService) ListSessionRecords(actor *model.ActorContext, sessionID string) ([]model.AttendanceRecord, error) {
	if !s.Policy.Can(actor, ActionListAll, Resource{Kind: ResourceAttendance, TeamID: actor.TeamID}) {
		return nil, util.ErrPermissionDenied
	}
	return s.Repo.ListRecordsBySession(actor.TeamID, sessionID)
}

// ListStudentRecords 学生查自己，家长查绑定学生，教师/owner 任意
func (s *AttendanceService) ListStudentRecords(actor *model.ActorContext, studentID uint) ([]model.AttendanceRecord, error) {
	if studentID == 0 {
		studentID = actor.UserID
	}
	res := Resource{Kind: ResourceAttendance, TeamID: actor.TeamID, StudentID: studentID}
	if actor.Role == model.RoleParent {
		linked, err := s.TeamRepo.IsParentLinked(actor.TeamID, actor.UserID, studentID)
		if err != nil {
			return nil, err
		}
		res.ParentLinked = linked
	}
	if !s.Policy.Can(actor, ActionView, res) {
		return nil, util.ErrPermissionDenied
	}
	return s.Repo.ListRecordsByStudent(actor.TeamID, studentID)
}
