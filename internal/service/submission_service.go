package service

import (
	"encoding/json"
	"errors"
	"time"

	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/repository"
	"schoolhub_backend/internal/util"

	"gorm.io/gorm"
)

type SubmissionService struct {
	Repo         *repository.SubmissionRepository
	ActivityRepo *repository.ActivityRepository
	TeamRepo     *repository.TeamRepository
	Policy       *PolicyService
	Notifier     *NotificationService
}

func NewSubmissionService(
	repo *repository.SubmissionRepository,
	activityRepo *repository.ActivityRepository,
	teamRepo *repository.TeamRepository,
	policy *PolicyService,
	notifier *NotificationService,
) *SubmissionService {
	return &SubmissionService{
		Repo:         repo,
		ActivityRepo: activityRepo,
		TeamRepo:     teamRepo,
		Policy:       policy,
		Notifier:     notifier,
	}
}

type SubmitRequest struct {
	ActivityID  uint               `json:"activityId" binding:"required"`
	StudentID   uint               `json:"studentId"` // 教师代交时填写，学生端留空
	Content     string             `json:"content"`
	Attachments []model.Attachment `json:"attachments,omitempty"`
}

// Submit 创建或覆盖一份提交。过了活动截止时间记 late；
// 已评分的提交学生不能再覆盖，owner/教师重交视作放行重测并清空评分字段
func (s *SubmissionService) Submit(actor *model.ActorContext, req SubmitRequest) (*model.Submission, error) {
	studentID := req.StudentID
	if studentID == 0 {
		studentID = actor.UserID
	}

	if !s.Policy.Can(actor, ActionSubmit, Resource{Kind: ResourceSubmission, TeamID: actor.TeamID, StudentID: studentID}) {
		return nil, util.ErrPermissionDenied
	}

	activity, err := s.ActivityRepo.FindByID(actor.TeamID, req.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	status := model.SubmissionSubmitted
	if activity.Deadline != nil && now.After(*activity.Deadline) {
		status = model.SubmissionLate
	}

	var attachments json.RawMessage
	if len(req.Attachments) > 0 {
		attachments, err = json.Marshal(req.Attachments)
		if err != nil {
			return nil, err
		}
	}

	existing, err := s.Repo.FindByStudentAndActivity(actor.TeamID, studentID, req.ActivityID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil {
		if existing.Graded() {
			canOverride := actor.Role == model.RoleOwner || actor.Role == model.RoleTeacher
			if !canOverride {
				return nil, util.ErrAlreadyGraded
			}
			// 放行重测：清空评分三元组，台账回到待评状态
			existing.Score = nil
			existing.FinalGrade = nil
			existing.Feedback = ""
			existing.GradedBy = nil
			existing.GradedAt = nil
		}
		existing.Content = req.Content
		if attachments != nil {
			existing.Attachments = attachments
		}
		existing.Status = status
		existing.SubmittedAt = &now
		if err := s.Repo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	submission := &model.Submission{
		TeamID:      actor.TeamID,
		StudentID:   studentID,
		ActivityID:  activity.ID,
		ExamID:      activity.ExamID,
		Status:      status,
		Content:     req.Content,
		Attachments: attachments,
		SubmittedAt: &now,
	}
	if err := s.Repo.Create(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

type GradeRequest struct {
	Score      float64 `json:"score"`
	FinalGrade float64 `json:"finalGrade"`
	Feedback   string  `json:"feedback"`
}

// Grade 写入评分三元组并置 completed。分数必须落在 [0, 父活动总分] 内
func (s *SubmissionService) Grade(actor *model.ActorContext, submissionID string, req GradeRequest) (*model.Submission, error) {
	submission, err := s.Repo.FindByID(actor.TeamID, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	res := Resource{Kind: ResourceSubmission, TeamID: submission.TeamID, StudentID: submission.StudentID}
	if !s.Policy.Can(actor, ActionGrade, res) {
		// 无评分权限者若连查看权限都没有，按不存在处理，避免泄露提交 ID
		if !s.canView(actor, submission) {
			return nil, util.ErrNotFound
		}
		return nil, util.ErrPermissionDenied
	}

	activity, err := s.ActivityRepo.FindByID(actor.TeamID, submission.ActivityID)
	if err != nil {
		// 父活动可能在提交后被删（考试软删），按不存在返回而不是 500
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	if req.Score < 0 || req.Score > float64(activity.TotalPoints) {
		return nil, util.ErrInvalidScore
	}

	now := time.Now()
	grader := actor.UserID
	submission.Score = &req.Score
	submission.FinalGrade = &req.FinalGrade
	submission.Feedback = req.Feedback
	submission.GradedBy = &grader
	submission.GradedAt = &now
	submission.Status = model.SubmissionCompleted

	if err := s.Repo.Update(submission); err != nil {
		return nil, err
	}

	s.Notifier.Notify(submission.TeamID, "submission_graded", map[string]interface{}{
		"submissionId": submission.ID,
		"studentId":    submission.StudentID,
		"score":        req.Score,
	})
	return submission, nil
}

type BulkGradeFailure struct {
	SubmissionID string `json:"submissionId"`
	Reason       string `json:"reason"`
}

type BulkGradeResult struct {
	Updated  []string           `json:"updated"`
	Failures []BulkGradeFailure `json:"failures"`
}

// BulkGrade 对一批提交套用同一评分。每条独立落库，单条失败不拦整批，
// 失败项收集后一并返回
func (s *SubmissionService) BulkGrade(actor *model.ActorContext, ids []string, req GradeRequest) *BulkGradeResult {
	result := &BulkGradeResult{}
	for _, id := range ids {
		if _, err := s.Grade(actor, id, req); err != nil {
			result.Failures = append(result.Failures, BulkGradeFailure{SubmissionID: id, Reason: err.Error()})
			continue
		}
		result.Updated = append(result.Updated, id)
	}
	return result
}

func (s *SubmissionService) canView(actor *model.ActorContext, submission *model.Submission) bool {
	res := Resource{Kind: ResourceSubmission, TeamID: submission.TeamID, StudentID: submission.StudentID}
	if actor.Role == model.RoleParent {
		linked, err := s.TeamRepo.IsParentLinked(actor.TeamID, actor.UserID, submission.StudentID)
		if err != nil {
			return false
		}
		res.ParentLinked = linked
	}
	return s.Policy.Can(actor, ActionView, res)
}

// AuthorizeAttachment 校验附件写入权限，上传对象前调用。
// 附件跟提交权限走：学生写自己的，owner/教师可代写，家长只读。
// 连查看权限都没有的按不存在处理
func (s *SubmissionService) AuthorizeAttachment(actor *model.ActorContext, id string) (*model.Submission, error) {
	submission, err := s.Repo.FindByID(actor.TeamID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	res := Resource{Kind: ResourceSubmission, TeamID: submission.TeamID, StudentID: submission.StudentID}
	if !s.Policy.Can(actor, ActionSubmit, res) {
		if !s.canView(actor, submission) {
			return nil, util.ErrNotFound
		}
		return nil, util.ErrPermissionDenied
	}
	if submission.Graded() && actor.Role == model.RoleStudent {
		return nil, util.ErrAlreadyGraded
	}
	return submission, nil
}

// AppendAttachment 把上传完成的附件记入提交的附件列表
func (s *SubmissionService) AppendAttachment(actor *model.ActorContext, id string, att model.Attachment) (*model.Submission, error) {
	submission, err := s.AuthorizeAttachment(actor, id)
	if err != nil {
		return nil, err
	}

	var list []model.Attachment
	if len(submission.Attachments) > 0 {
		if err := json.Unmarshal(submission.Attachments, &list); err != nil {
			return nil, err
		}
	}
	list = append(list, att)
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	submission.Attachments = raw

	if err := s.Repo.Update(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// GetSubmission 对无权查看者返回 not-found 语义
func (s *SubmissionService) GetSubmission(actor *model.ActorContext, id string) (*model.Submission, error) {
	submission, err := s.Repo.FindByID(actor.TeamID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if !s.canView(actor, submission) {
		return nil, util.ErrNotFound
	}
	return submission, nil
}

func (s *SubmissionService) ListByActivity(actor *model.ActorContext, activityID uint, page, limit int) ([]model.Submission, int64, error) {
	if !s.Policy.Can(actor, ActionListAll, Resource{Kind: ResourceSubmission, TeamID: actor.TeamID}) {
		return nil, 0, util.ErrPermissionDenied
	}
	return s.Repo.ListByActivity(actor.TeamID, activityID, page, limit)
}

// ListForStudent 学生查自己的，家长查绑定学生的
func (s *SubmissionService) ListForStudent(actor *model.ActorContext, studentID uint) ([]model.Submission, error) {
	if studentID == 0 {
		studentID = actor.UserID
	}
	res := Resource{Kind: ResourceSubmission, TeamID: actor.TeamID, StudentID: studentID}
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
	return s.Repo.ListByStudent(actor.TeamID, studentID)
}
