package catalog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validBankJSON = `{
  "name": "极限入门",
  "subject": "高等数学",
  "format_version": "v1.0.0",
  "problems": [
    {
      "id": "lim-001",
      "type": "fill_in",
      "chapter": "极限",
      "knowledge_tags": ["极限"],
      "difficulty": 0.3,
      "question_text": "求 lim(x→0) sin(x)/x 的值",
      "answer": "1",
      "answer_type": "numeric"
    },
    {
      "id": "lim-002",
      "type": "multiple_choice",
      "knowledge_tags": ["极限", "连续"],
      "difficulty": 0.5,
      "question_text": "函数 f(x)=1/x 在 x=0 处的极限是",
      "options": ["0", "1", "不存在"],
      "correct_option": 2
    }
  ]
}`

func writeBank(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write bank file: %v", err)
	}
	return path
}

func TestLoadBank(t *testing.T) {
	path := writeBank(t, t.TempDir(), "limits.json", validBankJSON)

	bank, err := LoadBank(path)
	if err != nil {
		t.Fatalf("LoadBank() error: %v", err)
	}
	if bank.Name != "极限入门" {
		t.Errorf("Name = %q, want 极限入门", bank.Name)
	}
	if len(bank.Problems) != 2 {
		t.Fatalf("len(Problems) = %d, want 2", len(bank.Problems))
	}
	// Problems without their own subject inherit the bank's.
	if got := bank.Problems[0].Subject; got != "高等数学" {
		t.Errorf("Problems[0].Subject = %q, want 高等数学", got)
	}
	if got := bank.Problems[1].Type; got != TypeMultipleChoice {
		t.Errorf("Problems[1].Type = %q, want %q", got, TypeMultipleChoice)
	}
}

func TestLoadBankRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			"fill_in without answer",
			`{"name":"b","subject":"s","format_version":"v1.0.0","problems":[
				{"id":"p1","type":"fill_in","knowledge_tags":["极限"],"difficulty":0.5,
				 "question_text":"q","answer_type":"numeric"}]}`,
		},
		{
			"multiple_choice with answer field",
			`{"name":"b","subject":"s","format_version":"v1.0.0","problems":[
				{"id":"p1","type":"multiple_choice","knowledge_tags":["极限"],"difficulty":0.5,
				 "question_text":"q","options":["a","b"],"correct_option":0,
				 "answer":"a","answer_type":"string"}]}`,
		},
		{
			"difficulty above one",
			`{"name":"b","subject":"s","format_version":"v1.0.0","problems":[
				{"id":"p1","type":"fill_in","knowledge_tags":["极限"],"difficulty":1.5,
				 "question_text":"q","answer":"1","answer_type":"numeric"}]}`,
		},
		{
			"empty knowledge tags",
			`{"name":"b","subject":"s","format_version":"v1.0.0","problems":[
				{"id":"p1","type":"fill_in","knowledge_tags":[],"difficulty":0.5,
				 "question_text":"q","answer":"1","answer_type":"numeric"}]}`,
		},
		{
			"unknown answer type",
			`{"name":"b","subject":"s","format_version":"v1.0.0","problems":[
				{"id":"p1","type":"fill_in","knowledge_tags":["极限"],"difficulty":0.5,
				 "question_text":"q","answer":"1","answer_type":"latex"}]}`,
		},
		{
			"single option",
			`{"name":"b","subject":"s","format_version":"v1.0.0","problems":[
				{"id":"p1","type":"multiple_choice","knowledge_tags":["极限"],"difficulty":0.5,
				 "question_text":"q","options":["a"],"correct_option":0}]}`,
		},
		{
			"format version without v prefix",
			`{"name":"b","subject":"s","format_version":"1.0.0","problems":[]}`,
		},
		{
			"missing manifest subject",
			`{"name":"b","format_version":"v1.0.0","problems":[]}`,
		},
		{
			"not json",
			`problems: []`,
		},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeBank(t, dir, "bad.json", tt.json)
			if _, err := LoadBank(path); err == nil {
				t.Errorf("LoadBank() accepted invalid bank")
			}
		})
	}
}

func TestLoadBankRejectsFutureMajorVersion(t *testing.T) {
	bank := strings.Replace(validBankJSON, "v1.0.0", "v2.0.0", 1)
	path := writeBank(t, t.TempDir(), "future.json", bank)

	_, err := LoadBank(path)
	if !errors.Is(err, ErrIncompatibleBank) {
		t.Errorf("LoadBank() error = %v, want ErrIncompatibleBank", err)
	}
}

func TestLoadBankAcceptsNewerMinorVersion(t *testing.T) {
	bank := strings.Replace(validBankJSON, "v1.0.0", "v1.7.2", 1)
	path := writeBank(t, t.TempDir(), "minor.json", bank)

	if _, err := LoadBank(path); err != nil {
		t.Errorf("LoadBank() error: %v", err)
	}
}

func TestLoadBankCorrectOptionOutOfRange(t *testing.T) {
	const bank = `{"name":"b","subject":"s","format_version":"v1.0.0","problems":[
		{"id":"p1","type":"multiple_choice","knowledge_tags":["极限"],"difficulty":0.5,
		 "question_text":"q","options":["a","b"],"correct_option":5}]}`
	path := writeBank(t, t.TempDir(), "range.json", bank)

	if _, err := LoadBank(path); err == nil {
		t.Errorf("LoadBank() accepted correct_option past the options")
	}
}

func TestLoadDirMergesBanks(t *testing.T) {
	dir := t.TempDir()
	writeBank(t, dir, "a_limits.json", validBankJSON)
	writeBank(t, dir, "b_matrix.json", `{
		"name":"行列式","subject":"线性代数","format_version":"v1.0.0","problems":[
		{"id":"det-001","type":"fill_in","knowledge_tags":["行列式"],"difficulty":0.4,
		 "question_text":"计算二阶行列式 |1 2; 3 4|","answer":"-2","answer_type":"numeric"}]}`)

	cat, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}
	if cat.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cat.Len())
	}
	subjects := cat.Subjects()
	if len(subjects) != 2 || subjects[0] != "线性代数" || subjects[1] != "高等数学" {
		t.Errorf("Subjects() = %v", subjects)
	}
}

func TestLoadDirRejectsDuplicateIDsAcrossBanks(t *testing.T) {
	dir := t.TempDir()
	writeBank(t, dir, "a.json", validBankJSON)
	writeBank(t, dir, "b.json", validBankJSON)

	_, err := LoadDir(dir)
	if err == nil || !strings.Contains(err.Error(), "duplicate problem id") {
		t.Errorf("LoadDir() error = %v, want duplicate id error", err)
	}
}

func TestLoadDirEmpty(t *testing.T) {
	if _, err := LoadDir(t.TempDir()); err == nil {
		t.Errorf("LoadDir() on empty dir succeeded")
	}
}

func TestCatalogGet(t *testing.T) {
	path := writeBank(t, t.TempDir(), "limits.json", validBankJSON)
	bank, err := LoadBank(path)
	if err != nil {
		t.Fatalf("LoadBank() error: %v", err)
	}
	cat, err := New(bank.Problems)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	p, err := cat.Get("lim-001")
	if err != nil {
		t.Fatalf("Get(lim-001) error: %v", err)
	}
	if p.Answer != "1" || p.AnswerType != AnswerNumeric {
		t.Errorf("Get(lim-001) = %+v", p)
	}

	if _, err := cat.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(nope) error = %v, want ErrNotFound", err)
	}
}

func TestCatalogByTag(t *testing.T) {
	cat, err := New([]Problem{
		{ID: "a", Type: TypeFillIn, KnowledgeTags: []string{"极限"}, Difficulty: 0.2,
			QuestionText: "q", Answer: "1", AnswerType: AnswerNumeric},
		{ID: "b", Type: TypeFillIn, KnowledgeTags: []string{"导数", "极限"}, Difficulty: 0.6,
			QuestionText: "q", Answer: "2x", AnswerType: AnswerFormula},
		{ID: "c", Type: TypeFillIn, KnowledgeTags: []string{"导数"}, Difficulty: 0.4,
			QuestionText: "q", Answer: "x", AnswerType: AnswerFormula},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	limits := cat.ByTag("极限")
	if len(limits) != 2 || limits[0].ID != "a" || limits[1].ID != "b" {
		t.Errorf("ByTag(极限) = %v", limits)
	}
	if got := cat.ByTag("积分"); len(got) != 0 {
		t.Errorf("ByTag(积分) = %v, want empty", got)
	}
	tags := cat.Tags()
	if len(tags) != 2 || tags[0] != "导数" || tags[1] != "极限" {
		t.Errorf("Tags() = %v", tags)
	}
}

func TestCatalogAllReturnsCopy(t *testing.T) {
	cat, err := New([]Problem{
		{ID: "a", Type: TypeFillIn, KnowledgeTags: []string{"极限"}, Difficulty: 0.2,
			QuestionText: "q", Answer: "1", AnswerType: AnswerNumeric},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	all := cat.All()
	all[0].ID = "mutated"

	p, err := cat.Get("a")
	if err != nil || p.ID != "a" {
		t.Errorf("catalog mutated through All(): %v %v", p, err)
	}
}

func TestBankWriteLoadRoundTrip(t *testing.T) {
	bank := Bank{
		Name:          "写回",
		Subject:       "高等数学",
		FormatVersion: "v1.0.0",
		Problems: []Problem{
			{ID: "w1", Type: TypeFillIn, KnowledgeTags: []string{"导数"}, Difficulty: 0.4,
				QuestionText: "求 x^2 的导数", Answer: "2*x", AnswerType: AnswerFormula},
			// correct_option 0 must be written explicitly, the schema
			// requires the field for multiple_choice.
			{ID: "w2", Type: TypeMultipleChoice, KnowledgeTags: []string{"极限"}, Difficulty: 0.5,
				QuestionText: "lim(x→∞) 1/x 等于", Options: []string{"0", "1", "不存在"}, CorrectOption: 0},
		},
	}

	raw, err := json.MarshalIndent(bank, "", "  ")
	if err != nil {
		t.Fatalf("marshal bank: %v", err)
	}
	path := writeBank(t, t.TempDir(), "roundtrip.json", string(raw))

	loaded, err := LoadBank(path)
	if err != nil {
		t.Fatalf("LoadBank() error: %v", err)
	}
	if got := loaded.Problems[1].CorrectOption; got != 0 {
		t.Errorf("CorrectOption = %d, want 0", got)
	}
	if strings.Contains(string(raw), `"correct_option"`) == false {
		t.Errorf("marshal dropped correct_option:\n%s", raw)
	}
	// The fill_in problem must not have gained choice fields.
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("re-parse marshaled bank: %v", err)
	}
	first := doc["problems"].([]any)[0].(map[string]any)
	if _, ok := first["correct_option"]; ok {
		t.Errorf("fill_in problem marshaled with correct_option")
	}
}

func TestProblemValidate(t *testing.T) {
	valid := Problem{
		ID: "p", Type: TypeFillIn, KnowledgeTags: []string{"极限"},
		Difficulty: 0.5, QuestionText: "q", Answer: "1", AnswerType: AnswerNumeric,
	}

	tests := []struct {
		name   string
		mutate func(*Problem)
		ok     bool
	}{
		{"valid fill_in", func(p *Problem) {}, true},
		{"empty id", func(p *Problem) { p.ID = "" }, false},
		{"no tags", func(p *Problem) { p.KnowledgeTags = nil }, false},
		{"blank tag", func(p *Problem) { p.KnowledgeTags = []string{""} }, false},
		{"difficulty below zero", func(p *Problem) { p.Difficulty = -0.1 }, false},
		{"no question", func(p *Problem) { p.QuestionText = "" }, false},
		{"fill_in without answer", func(p *Problem) { p.Answer = "" }, false},
		{"fill_in with options", func(p *Problem) { p.Options = []string{"a", "b"} }, false},
		{"bad type", func(p *Problem) { p.Type = "essay" }, false},
		{"valid multiple_choice", func(p *Problem) {
			p.Type = TypeMultipleChoice
			p.Answer, p.AnswerType = "", ""
			p.Options = []string{"a", "b", "c"}
			p.CorrectOption = 2
		}, true},
		{"choice index out of range", func(p *Problem) {
			p.Type = TypeMultipleChoice
			p.Answer, p.AnswerType = "", ""
			p.Options = []string{"a", "b"}
			p.CorrectOption = 2
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Errorf("Validate() accepted invalid problem")
			}
		})
	}
}
