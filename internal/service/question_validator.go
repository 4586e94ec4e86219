package service

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/util"
)

// variantRequired 列出每种题型必填的变体字段，未知类型一律拒绝
var variantRequired = map[model.QuestionType][]string{
	model.MultipleChoice: {"choices", "correctAnswer"},
	model.TrueFalse:      {"correctAnswer"},
	model.ShortAnswer:    {"correctAnswer"},
	model.Essay:          {"rubric"},
	model.Matching:       {"matchingPairs"},
	model.FillInBlank:    {"answers"},
}

// ParseVariant 去掉 section 名的 "_section" 后缀并校验题型是否受支持
func ParseVariant(sectionType string) (model.QuestionType, error) {
	qt := model.QuestionType(strings.TrimSuffix(sectionType, "_section"))
	if _, ok := variantRequired[qt]; !ok {
		return "", util.ErrUnsupportedVariant
	}
	return qt, nil
}

// ValidateQuestionPayload 纯函数：检查该题型的必填字段都在且非空。
// 返回缺失字段名，全部齐备时返回空串
func ValidateQuestionPayload(qt model.QuestionType, raw json.RawMessage) (string, error) {
	fields, ok := variantRequired[qt]
	if !ok {
		return "", util.ErrUnsupportedVariant
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", err
	}

	for _, f := range fields {
		v, present := m[f]
		if !present || fieldEmpty(v) {
			return f, nil
		}
	}
	return "", nil
}

// fieldEmpty 将 null、空数组、空字符串视同缺失
func fieldEmpty(v json.RawMessage) bool {
	t := bytes.TrimSpace(v)
	switch {
	case len(t) == 0:
		return true
	case bytes.Equal(t, []byte("null")):
		return true
	case bytes.Equal(t, []byte("[]")):
		return true
	case bytes.Equal(t, []byte(`""`)):
		return true
	}
	return false
}

// variantSecret 列出每种题型属于答案侧的字段，下发给学生/家长前剥除
var variantSecret = map[model.QuestionType][]string{
	model.MultipleChoice: {"correctAnswer", "explanation"},
	model.TrueFalse:      {"correctAnswer", "explanation"},
	model.ShortAnswer:    {"correctAnswer", "explanation"},
	model.Essay:          {"rubric"},
}

// RedactAnswerFields 返回剥除答案侧字段后的载荷。
// 配对题左右两列拆开、右列按字典序重排以免顺序泄露配对，
// 填空题只保留空位数量
func RedactAnswerFields(qt model.QuestionType, raw json.RawMessage) (json.RawMessage, error) {
	switch qt {
	case model.Matching:
		var p model.MatchingPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		left := make([]string, 0, len(p.MatchingPairs))
		right := make([]string, 0, len(p.MatchingPairs))
		for _, pair := range p.MatchingPairs {
			left = append(left, pair.Left)
			right = append(right, pair.Right)
		}
		sort.Strings(right)
		return json.Marshal(map[string][]string{"left": left, "right": right})
	case model.FillInBlank:
		var p model.FillInBlankPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return json.Marshal(map[string]int{"blanks": len(p.Answers)})
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	for _, f := range variantSecret[qt] {
		delete(m, f)
	}
	return json.Marshal(m)
}

// CanonicalPayload 把原始题目 JSON 收敛成该题型的规范载荷，
// 丢弃与题型无关的字段，保证一行里只保留相关变体
func CanonicalPayload(qt model.QuestionType, raw json.RawMessage) (json.RawMessage, error) {
	q := model.Question{Type: qt, Payload: raw}
	decoded, err := q.DecodePayload()
	if err != nil {
		return nil, err
	}
	return json.Marshal(decoded)
}
