package model

// ExamQuestion 记录题目在考试内的 1 起始排列序号，Points 为快照，
// 题目被复用到其他考试时快照可与 Question.Points 分叉
type ExamQuestion struct {
	BaseModel
	ExamID     uint `gorm:"uniqueIndex:idx_exam_question;not null" json:"examId"`
	QuestionID uint `gorm:"uniqueIndex:idx_exam_question;not null" json:"questionId"`
	Order      int  `gorm:"not null" json:"order"`
	Points     int  `gorm:"default:0" json:"points"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}
