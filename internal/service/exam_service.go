package service

import (
	"encoding/json"
	"errors"
	"time"

	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/repository"
	"schoolhub_backend/internal/util"
	"schoolhub_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type ExamService struct {
	Repo      *repository.ExamRepository
	Policy    *PolicyService
	Publisher ExamEventPublisher
}

func NewExamService(repo *repository.ExamRepository, policy *PolicyService, publisher ExamEventPublisher) *ExamService {
	return &ExamService{Repo: repo, Policy: policy, Publisher: publisher}
}

// QuestionSection 对应前端的一个题型分组，Type 形如 "multiple_choice_section"
type QuestionSection struct {
	Type      string            `json:"type" binding:"required"`
	Questions []json.RawMessage `json:"questions"`
}

type ExamRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Status      model.ExamStatus  `json:"status"`
	Deadline    *time.Time        `json:"deadline,omitempty"`
	Sections    []QuestionSection `json:"sections"`
}

// questionCommon 是每道题 JSON 里的公共字段，变体字段由验证器单独处理
type questionCommon struct {
	Content string `json:"content"`
	Points  int    `json:"points"`
}

// buildQuestions 展开各 section：校验必填变体字段、收敛规范载荷、
// 按 section 顺序连续累计 1 起始序号并累加总分
func (s *ExamService) buildQuestions(actor *model.ActorContext, sections []QuestionSection) ([]model.Question, int, error) {
	var questions []model.Question
	total := 0

	for si, sec := range sections {
		qt, err := ParseVariant(sec.Type)
		if err != nil {
			return nil, 0, err
		}

		for qi, raw := range sec.Questions {
			missing, err := ValidateQuestionPayload(qt, raw)
			if err != nil {
				return nil, 0, err
			}
			if missing != "" {
				return nil, 0, &util.ValidationError{Section: si, Index: qi, Type: string(qt), Field: missing}
			}

			var common questionCommon
			if err := json.Unmarshal(raw, &common); err != nil {
				return nil, 0, &util.ValidationError{Section: si, Index: qi, Type: string(qt), Reason: err.Error()}
			}
			if common.Content == "" {
				return nil, 0, &util.ValidationError{Section: si, Index: qi, Type: string(qt), Field: "content"}
			}
			if common.Points < 0 {
				return nil, 0, &util.ValidationError{Section: si, Index: qi, Type: string(qt), Reason: "points must be >= 0"}
			}

			payload, err := CanonicalPayload(qt, raw)
			if err != nil {
				return nil, 0, &util.ValidationError{Section: si, Index: qi, Type: string(qt), Reason: err.Error()}
			}

			questions = append(questions, model.Question{
				TeamID:    actor.TeamID,
				TeacherID: actor.UserID,
				Type:      qt,
				Content:   common.Content,
				Points:    common.Points,
				Payload:   payload,
			})
			total += common.Points
		}
	}

	return questions, total, nil
}

func (s *ExamService) CreateExam(actor *model.ActorContext, req ExamRequest) (*model.Exam, error) {
	if !s.Policy.Can(actor, ActionCreate, Resource{Kind: ResourceExam, TeamID: actor.TeamID}) {
		return nil, util.ErrPermissionDenied
	}

	status := req.Status
	if status == "" {
		status = model.ExamDraft
	}
	if !status.Valid() {
		return nil, &util.ValidationError{Type: "exam", Field: "status", Reason: "invalid status"}
	}

	questions, total, err := s.buildQuestions(actor, req.Sections)
	if err != nil {
		monitoring.ExamWrites.WithLabelValues("create", "rejected").Inc()
		return nil, err
	}

	exam := &model.Exam{
		TeamID:      actor.TeamID,
		TeacherID:   actor.UserID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		TotalPoints: total,
		Deadline:    req.Deadline,
	}

	if err := s.Repo.SaveAggregate(exam, questions); err != nil {
		monitoring.ExamWrites.WithLabelValues("create", "error").Inc()
		return nil, err
	}
	monitoring.ExamWrites.WithLabelValues("create", "ok").Inc()

	s.Publisher.Publish(newExamEvent(ExamCreated, exam))
	return exam, nil
}

// UpdateExam 整组替换题目：旧题全部删除重建，不按 id 做增量保留。
// 已有的评分记录只挂在考试/活动上，不引用题目 id，因此编辑后台账仍然有效，
// 但指向旧题内容的含义不再可追溯
func (s *ExamService) UpdateExam(actor *model.ActorContext, examID uint, req ExamRequest) (*model.Exam, error) {
	exam, err := s.Repo.FindByID(actor.TeamID, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	if !s.Policy.Can(actor, ActionUpdate, Resource{Kind: ResourceExam, TeamID: exam.TeamID, OwnerID: exam.TeacherID}) {
		return nil, util.ErrPermissionDenied
	}

	status := req.Status
	if status == "" {
		status = exam.Status
	}
	if !status.Valid() {
		return nil, &util.ValidationError{Type: "exam", Field: "status", Reason: "invalid status"}
	}

	questions, total, err := s.buildQuestions(actor, req.Sections)
	if err != nil {
		monitoring.ExamWrites.WithLabelValues("update", "rejected").Inc()
		return nil, err
	}

	dirty := exam.Title != req.Title ||
		exam.Description != req.Description ||
		exam.Status != status ||
		exam.TotalPoints != total ||
		!deadlineEqual(exam.Deadline, req.Deadline)

	exam.Title = req.Title
	exam.Description = req.Description
	exam.Status = status
	exam.TotalPoints = total
	exam.Deadline = req.Deadline

	if err := s.Repo.SaveAggregate(exam, questions); err != nil {
		monitoring.ExamWrites.WithLabelValues("update", "error").Inc()
		return nil, err
	}
	monitoring.ExamWrites.WithLabelValues("update", "ok").Inc()

	// 头部镜像字段没变时不重放投影，避免冗余写
	if dirty {
		s.Publisher.Publish(newExamEvent(ExamUpdated, exam))
	}
	return exam, nil
}

func deadlineEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func (s *ExamService) GetExam(actor *model.ActorContext, examID uint) (*model.Exam, error) {
	exam, err := s.Repo.FindByID(actor.TeamID, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if !s.Policy.Can(actor, ActionView, Resource{Kind: ResourceExam, TeamID: exam.TeamID, OwnerID: exam.TeacherID}) {
		return nil, util.ErrNotFound
	}
	// 学生与家长只能看到已发布的考试
	if (actor.Role == model.RoleStudent || actor.Role == model.RoleParent) && exam.Status != model.ExamPublished {
		return nil, util.ErrNotFound
	}

	qs, err := s.Repo.ListQuestions(exam.ID)
	if err != nil {
		return nil, err
	}
	// 学生/家长侧剥除答案字段，评分依据不随试卷下发
	if actor.Role == model.RoleStudent || actor.Role == model.RoleParent {
		for i := range qs {
			redacted, err := RedactAnswerFields(qs[i].Type, qs[i].Payload)
			if err != nil {
				return nil, err
			}
			qs[i].Payload = redacted
		}
	}
	exam.Questions = qs
	return exam, nil
}

func (s *ExamService) ListExams(actor *model.ActorContext, page, limit int) ([]model.Exam, int64, error) {
	if !s.Policy.Can(actor, ActionListAll, Resource{Kind: ResourceExam, TeamID: actor.TeamID}) {
		return nil, 0, util.ErrPermissionDenied
	}
	return s.Repo.List(actor.TeamID, page, limit)
}

func (s *ExamService) DeleteExam(actor *model.ActorContext, examID uint) error {
	exam, err := s.Repo.FindByID(actor.TeamID, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		return err
	}
	if !s.Policy.Can(actor, ActionDelete, Resource{Kind: ResourceExam, TeamID: exam.TeamID, OwnerID: exam.TeacherID}) {
		return util.ErrPermissionDenied
	}
	if err := s.Repo.SoftDelete(actor.TeamID, examID); err != nil {
		return err
	}
	monitoring.ExamWrites.WithLabelValues("delete", "ok").Inc()
	s.Publisher.Publish(newExamEvent(ExamDeleted, exam))
	return nil
}

func (s *ExamService) RestoreExam(actor *model.ActorContext, examID uint) (*model.Exam, error) {
	exam, err := s.Repo.FindByIDUnscoped(actor.TeamID, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	if !s.Policy.Can(actor, ActionUpdate, Resource{Kind: ResourceExam, TeamID: exam.TeamID, OwnerID: exam.TeacherID}) {
		return nil, util.ErrPermissionDenied
	}
	if err := s.Repo.Restore(actor.TeamID, examID); err != nil {
		return nil, err
	}
	monitoring.ExamWrites.WithLabelValues("restore", "ok").Inc()
	s.Publisher.Publish(newExamEvent(ExamRestored, exam))
	return exam, nil
}

func (s *ExamService) ForceDeleteExam(actor *model.ActorContext, examID uint) error {
	exam, err := s.Repo.FindByIDUnscoped(actor.TeamID, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		return err
	}
	if !s.Policy.Can(actor, ActionDelete, Resource{Kind: ResourceExam, TeamID: exam.TeamID, OwnerID: exam.TeacherID}) {
		return util.ErrPermissionDenied
	}
	if err := s.Repo.ForceDelete(actor.TeamID, examID); err != nil {
		return err
	}
	monitoring.ExamWrites.WithLabelValues("force_delete", "ok").Inc()
	s.Publisher.Publish(newExamEvent(ExamForceDeleted, exam))
	return nil
}
