package author

import (
	"fmt"
	"strings"
	"testing"
)

func TestBuildUserMessage_MinimalContext(t *testing.T) {
	req := Request{
		Subject:    "高等数学",
		Tags:       []string{"极限", "导数"},
		Difficulty: 0.6,
		Count:      5,
	}
	msg := buildUserMessage(req, DefaultConfig())

	if !strings.Contains(msg, "科目：高等数学") {
		t.Error("missing subject")
	}
	if !strings.Contains(msg, "知识点：极限、导数") {
		t.Error("missing tags")
	}
	if !strings.Contains(msg, "目标难度：0.60") {
		t.Error("missing difficulty")
	}
	if !strings.Contains(msg, "出题数量：5") {
		t.Error("missing count")
	}
	if !strings.Contains(msg, "题库中已有的题目：\n无") {
		t.Error("expected 无 for empty bank")
	}
	if strings.Contains(msg, "章节") {
		t.Error("chapter line should be omitted when empty")
	}
}

func TestBuildUserMessage_WithChapter(t *testing.T) {
	req := Request{
		Subject: "线性代数",
		Chapter: "行列式",
		Tags:    []string{"行列式"},
		Count:   3,
	}
	msg := buildUserMessage(req, DefaultConfig())

	if !strings.Contains(msg, "章节：行列式") {
		t.Error("missing chapter")
	}
}

func TestBuildUserMessage_WithExisting(t *testing.T) {
	req := Request{
		Subject:  "高等数学",
		Tags:     []string{"极限"},
		Count:    2,
		Existing: []string{"求 sin(x)/x 的极限", "判断 1/x 在 0 处的连续性"},
	}
	msg := buildUserMessage(req, DefaultConfig())

	if !strings.Contains(msg, "1. 求 sin(x)/x 的极限") {
		t.Error("expected numbered existing question")
	}
	if !strings.Contains(msg, "2. 判断 1/x 在 0 处的连续性") {
		t.Error("expected second existing question")
	}
}

func TestBuildUserMessage_TruncatesExisting(t *testing.T) {
	existing := make([]string, 15)
	for i := range existing {
		existing[i] = fmt.Sprintf("题目编号 %c", rune('A'+i))
	}
	req := Request{
		Subject:  "高等数学",
		Tags:     []string{"极限"},
		Count:    1,
		Existing: existing,
	}
	cfg := DefaultConfig() // MaxExistingSamples = 12
	msg := buildUserMessage(req, cfg)

	// First 3 should be dropped (15 - 12 = 3).
	for _, q := range existing[:3] {
		if strings.Contains(msg, q) {
			t.Errorf("expected old question %q to be truncated", q)
		}
	}
	for _, q := range existing[3:] {
		if !strings.Contains(msg, q) {
			t.Errorf("expected recent question %q to be present", q)
		}
	}
}

func TestBuildExisting_CustomLimit(t *testing.T) {
	existing := []string{"Q1", "Q2", "Q3", "Q4", "Q5"}
	out := buildExisting(existing, 3)

	if strings.Contains(out, "Q1") || strings.Contains(out, "Q2") {
		t.Error("expected oldest questions to be dropped with limit 3")
	}
	for _, q := range []string{"Q3", "Q4", "Q5"} {
		if !strings.Contains(out, q) {
			t.Errorf("expected %q to be present", q)
		}
	}
}
