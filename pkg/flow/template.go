package flow

import (
	"fmt"
	"strings"

	"github.com/hireflow/hireflow/pkg/models"
)

// historyWindow is the number of trailing messages included in the
// chatHistory template variable. A prompt-construction concern only; the
// full history stays on the context.
const historyWindow = 10

// Role labels used in rendered chat history. Part of the prompt contract.
const (
	roleLabelCandidate = "候选人"
	roleLabelHR        = "HR"
)

// TemplateVars flattens the context into the named variables the prompt
// templates expect. The variable set and the scene templates form one
// contract and change only in lockstep. currentQuestionRequirement exists
// for the requirement matcher, which needs the evaluation criteria to
// judge an answer.
func TemplateVars(c *ConversationContext) map[string]string {
	return map[string]string{
		"lastCandidateMessage":       c.LastCandidateMessage,
		"chatHistory":                formatHistory(c.History),
		"jobInfo":                    formatJobInfo(c.Position),
		"jobTitle":                   c.Position.Name,
		"jobDescription":             c.Position.Description,
		"jobRequirement":             c.Position.Requirements,
		"knowledgeBase":              formatKnowledge(c.KnowledgeResults),
		"lastHRMessage":              c.LastAIMessage(),
		"currentQuestion":            c.CurrentQuestionContent,
		"currentQuestionRequirement": c.CurrentQuestionRequirement,
	}
}

// formatHistory renders the last historyWindow messages oldest-first as
// "role: content" lines. System messages are skipped — they are plumbing,
// not conversation.
func formatHistory(history []models.Message) string {
	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	var b strings.Builder
	for _, msg := range history[start:] {
		var label string
		switch msg.Sender {
		case models.SenderCandidate:
			label = roleLabelCandidate
		case models.SenderAI:
			label = roleLabelHR
		default:
			continue
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatJobInfo(p models.PositionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "职位名称:%s", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "\n职位描述:%s", p.Description)
	}
	if p.Requirements != "" {
		fmt.Fprintf(&b, "\n任职要求:%s", p.Requirements)
	}
	return b.String()
}

// formatKnowledge renders search hits as a numbered question/answer list,
// or "" when there are none.
func formatKnowledge(entries []models.KnowledgeEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. 问:%s\n   答:%s\n", i+1, e.Question, e.Answer)
	}
	return strings.TrimRight(b.String(), "\n")
}
