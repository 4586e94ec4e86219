package repository

import (
	"schoolhub_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

// SaveAggregate 在单个事务里写入考试头部、整组替换题目和序号连接行。
// exam.TotalPoints 由调用方先行算好，事务失败时之前的状态原样保留
func (r *ExamRepository) SaveAggregate(exam *model.Exam, questions []model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if exam.ID == 0 {
			if err := tx.Omit("Questions").Create(exam).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Omit("Questions").Save(exam).Error; err != nil {
				return err
			}
			// 整组替换：旧题目与连接行物理删除，不保留按 id 的增量语义
			if err := tx.Unscoped().Where("exam_id = ?", exam.ID).Delete(&model.Question{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("exam_id = ?", exam.ID).Delete(&model.ExamQuestion{}).Error; err != nil {
				return err
			}
		}

		for i := range questions {
			questions[i].ExamID = exam.ID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
			join := &model.ExamQuestion{
				ExamID:     exam.ID,
				QuestionID: questions[i].ID,
				Order:      i + 1,
				Points:     questions[i].Points,
			}
			if err := tx.Create(join).Error; err != nil {
				return err
			}
		}

		exam.Questions = questions
		return nil
	})
}

func (r *ExamRepository) FindByID(teamID, id uint) (*model.Exam, error) {
	var e model.Exam
	err := r.DB.Where("team_id = ?", teamID).First(&e, id).Error
	return &e, err
}

// FindByIDUnscoped 取含软删行的考试，恢复流程使用
func (r *ExamRepository) FindByIDUnscoped(teamID, id uint) (*model.Exam, error) {
	var e model.Exam
	err := r.DB.Unscoped().Where("team_id = ?", teamID).First(&e, id).Error
	return &e, err
}

func (r *ExamRepository) ListQuestions(examID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Joins("JOIN exam_questions ON exam_questions.question_id = questions.id AND exam_questions.deleted_at IS NULL").
		Where("questions.exam_id = ?", examID).
		Order("exam_questions.`order` asc").
		Find(&qs).Error
	return qs, err
}

func (r *ExamRepository) CountQuestions(examID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}

func (r *ExamRepository) List(teamID uint, page, limit int) ([]model.Exam, int64, error) {
	var exams []model.Exam
	var total int64
	query := r.DB.Model(&model.Exam{}).Where("team_id = ?", teamID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&exams).Error
	return exams, total, err
}

func (r *ExamRepository) SoftDelete(teamID, id uint) error {
	return r.DB.Where("team_id = ?", teamID).Delete(&model.Exam{}, id).Error
}

func (r *ExamRepository) Restore(teamID, id uint) error {
	return r.DB.Unscoped().Model(&model.Exam{}).
		Where("team_id = ? AND id = ?", teamID, id).
		Update("deleted_at", nil).Error
}

// ForceDelete 物理删除考试与其题目、连接行
func (r *ExamRepository) ForceDelete(teamID, id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("exam_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("exam_id = ?", id).Delete(&model.ExamQuestion{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("team_id = ?", teamID).Delete(&model.Exam{}, id).Error
	})
}
