package model

import (
	"encoding/json"
	"errors"
)

var ErrUnknownQuestionType = errors.New("unknown question type")

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
	Essay          QuestionType = "essay"
	Matching       QuestionType = "matching"
	FillInBlank    QuestionType = "fill_in_blank"
)

// Question 的公共字段放在列上，变体字段序列化进 Payload，按 Type 解码
// swagger:model Question
type Question struct {
	BaseModel
	ExamID    uint            `gorm:"index;not null" json:"examId"`
	TeamID    uint            `gorm:"index;not null" json:"teamId"`
	TeacherID uint            `gorm:"index;not null" json:"teacherId"`
	Type      QuestionType    `gorm:"size:30;not null" json:"type"`
	Content   string          `gorm:"type:text;not null" json:"content"`
	Points    int             `gorm:"default:0" json:"points"`
	Payload   json.RawMessage `gorm:"type:json" json:"payload"`
}

func (Question) TableName() string {
	return "questions"
}

// 每种题型各自的 Payload 结构，Question.Payload 按 Type 解码到其中之一

type MultipleChoicePayload struct {
	Choices       []string `json:"choices"`
	CorrectAnswer []string `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type TrueFalsePayload struct {
	CorrectAnswer bool   `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

type ShortAnswerPayload struct {
	CorrectAnswer []string `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type EssayPayload struct {
	Rubric    string `json:"rubric"`
	WordLimit int    `json:"wordLimit,omitempty"`
}

type MatchingPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type MatchingPayload struct {
	MatchingPairs []MatchingPair `json:"matchingPairs"`
}

type FillInBlankPayload struct {
	// 每个空位对应一组可接受答案
	Answers [][]string `json:"answers"`
}

// DecodePayload 把原始 Payload 解码成与 Type 对应的结构
func (q *Question) DecodePayload() (interface{}, error) {
	var dst interface{}
	switch q.Type {
	case MultipleChoice:
		dst = &MultipleChoicePayload{}
	case TrueFalse:
		dst = &TrueFalsePayload{}
	case ShortAnswer:
		dst = &ShortAnswerPayload{}
	case Essay:
		dst = &EssayPayload{}
	case Matching:
		dst = &MatchingPayload{}
	case FillInBlank:
		dst = &FillInBlankPayload{}
	default:
		return nil, ErrUnknownQuestionType
	}
	if err := json.Unmarshal(q.Payload, dst); err != nil {
		return nil, err
	}
	return dst, nil
}
