package service

import (
	"encoding/json"
	"errors"
	"testing"

	"schoolhub_backend/internal/model"
	"schoolhub_backend/internal/util"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		name    string
		section string
		want    model.QuestionType
		wantErr bool
	}{
		{name: "multiple choice section", section: "multiple_choice_section", want: model.MultipleChoice},
		{name: "bare type name", section: "essay", want: model.Essay},
		{name: "fill in blank", section: "fill_in_blank_section", want: model.FillInBlank},
		{name: "unknown type", section: "coding_section", wantErr: true},
		{name: "empty", section: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVariant(tt.section)
			if tt.wantErr {
				if !errors.Is(err, util.ErrUnsupportedVariant) {
					t.Fatalf("ParseVariant(%q) err = %v, want ErrUnsupportedVariant", tt.section, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVariant(%q) err = %v", tt.section, err)
			}
			if got != tt.want {
				t.Errorf("ParseVariant(%q) = %v, want %v", tt.section, got, tt.want)
			}
		})
	}
}

func TestValidateQuestionPayload(t *testing.T) {
	tests := []struct {
		name        string
		qt          model.QuestionType
		raw         string
		wantMissing string
	}{
		{
			name: "multiple choice complete",
			qt:   model.MultipleChoice,
			raw:  `{"content":"1+1","points":5,"choices":["1","2"],"correctAnswer":["2"]}`,
		},
		{
			name:        "multiple choice without choices",
			qt:          model.MultipleChoice,
			raw:         `{"content":"1+1","correctAnswer":["2"]}`,
			wantMissing: "choices",
		},
		{
			name:        "multiple choice empty answer list",
			qt:          model.MultipleChoice,
			raw:         `{"content":"1+1","choices":["1","2"],"correctAnswer":[]}`,
			wantMissing: "correctAnswer",
		},
		{
			name:        "true false without answer",
			qt:          model.TrueFalse,
			raw:         `{"content":"the sky is green"}`,
			wantMissing: "correctAnswer",
		},
		{
			name: "true false with false answer",
			qt:   model.TrueFalse,
			raw:  `{"content":"the sky is green","correctAnswer":false}`,
		},
		{
			name:        "short answer null answer",
			qt:          model.ShortAnswer,
			raw:         `{"content":"capital of france","correctAnswer":null}`,
			wantMissing: "correctAnswer",
		},
		{
			name:        "essay without rubric",
			qt:          model.Essay,
			raw:         `{"content":"discuss"}`,
			wantMissing: "rubric",
		},
		{
			name:        "essay empty rubric",
			qt:          model.Essay,
			raw:         `{"content":"discuss","rubric":""}`,
			wantMissing: "rubric",
		},
		{
			name:        "matching without pairs",
			qt:          model.Matching,
			raw:         `{"content":"match them"}`,
			wantMissing: "matchingPairs",
		},
		{
			name: "matching complete",
			qt:   model.Matching,
			raw:  `{"content":"match them","matchingPairs":[{"left":"a","right":"b"}]}`,
		},
		{
			name:        "fill in blank empty answers",
			qt:          model.FillInBlank,
			raw:         `{"content":"__ is __","answers":[]}`,
			wantMissing: "answers",
		},
		{
			name: "fill in blank complete",
			qt:   model.FillInBlank,
			raw:  `{"content":"__ is __","answers":[["go"],["fun","nice"]]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missing, err := ValidateQuestionPayload(tt.qt, json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("ValidateQuestionPayload() err = %v", err)
			}
			if missing != tt.wantMissing {
				t.Errorf("ValidateQuestionPayload() missing = %q, want %q", missing, tt.wantMissing)
			}
		})
	}
}

func TestCanonicalPayloadDropsForeignFields(t *testing.T) {
	// 判断题载荷里混入了选择题字段，收敛后应只剩判断题的字段
	raw := json.RawMessage(`{"content":"x","correctAnswer":true,"choices":["a","b"],"rubric":"stray"}`)
	payload, err := CanonicalPayload(model.TrueFalse, raw)
	if err != nil {
		t.Fatalf("CanonicalPayload() err = %v", err)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		t.Fatalf("unmarshal canonical payload: %v", err)
	}
	if _, ok := m["choices"]; ok {
		t.Error("canonical payload kept foreign field choices")
	}
	if _, ok := m["rubric"]; ok {
		t.Error("canonical payload kept foreign field rubric")
	}
	var tf model.TrueFalsePayload
	if err := json.Unmarshal(payload, &tf); err != nil {
		t.Fatalf("unmarshal as TrueFalsePayload: %v", err)
	}
	if !tf.CorrectAnswer {
		t.Error("correctAnswer lost during canonicalization")
	}
}
