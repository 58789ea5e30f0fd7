package author

import (
	"fmt"
	"strings"
)

const systemPrompt = `你是一名大学数学教师，负责为练习题库命题。

规则：
- 按给定的科目、章节、知识点和目标难度出题，每道题必须独立完整。
- 题干使用中文，数学表达式使用纯 ASCII 记法：/ 表示分数，* 表示乘法，^ 表示乘方，sqrt() 表示开方，pi 表示圆周率。不要使用 LaTeX 或 Unicode 数学符号。
- 填空题（fill_in）给出标准答案 answer，并在 answer_type 中声明 numeric、formula 或 string。
- formula 类型的答案必须是可代数化简的表达式，例如 2*sin(x)*cos(x)。
- 选择题（multiple_choice）提供恰好 4 个互不相同的选项，answer 填写正确选项的原文，answer_type 填 string。干扰项应来自常见错误，而不是随意编造。
- difficulty 是 0 到 1 之间的小数，0.2 左右为入门题，0.8 以上为难题。
- knowledge_tags 从给定的知识点中选取，至少一个。
- 不要重复题库中已有的题目，也不要在同一批次内重复。`

// buildUserMessage constructs the user message from the Request and
// Config limits.
func buildUserMessage(req Request, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "科目：%s\n", req.Subject)
	if req.Chapter != "" {
		fmt.Fprintf(&b, "章节：%s\n", req.Chapter)
	}
	fmt.Fprintf(&b, "知识点：%s\n", strings.Join(req.Tags, "、"))
	fmt.Fprintf(&b, "目标难度：%.2f\n", req.Difficulty)
	fmt.Fprintf(&b, "出题数量：%d\n", req.Count)

	b.WriteString("\n题库中已有的题目：\n")
	b.WriteString(buildExisting(req.Existing, cfg.MaxExistingSamples))

	return b.String()
}

// buildExisting formats existing bank questions for the prompt,
// respecting the max limit. Returns "无" if the bank has none.
func buildExisting(existing []string, max int) string {
	if len(existing) == 0 {
		return "无"
	}

	// Keep only the most recent N questions.
	if max > 0 && len(existing) > max {
		existing = existing[len(existing)-max:]
	}

	var b strings.Builder
	for i, q := range existing {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
