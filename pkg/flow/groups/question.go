package groups

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hireflow/hireflow/pkg/flow"
	"github.com/hireflow/hireflow/pkg/flow/nodes"
	"github.com/hireflow/hireflow/pkg/llm"
	"github.com/hireflow/hireflow/pkg/models"
)

// Stuck-conversation guard parameters. Product-tuned; kept as variables so
// they stay reviewable.
var (
	// stuckLookback is how many trailing AI turns the guard inspects.
	stuckLookback = 5
	// stuckSkipAt is the repeat count at which the question is skipped.
	stuckSkipAt = 3
	// stuckResendAt is the repeat count at which the question is re-sent
	// verbatim instead.
	stuckResendAt = 5
)

// QuestionGroup drives the assessment-question state machine: creating
// tracking rows on first entry, advancing the conversation stage, picking
// the next question, and evaluating answers.
type QuestionGroup struct {
	executor *flow.DynamicExecutor
	repos    flow.Repositories
	timeout  time.Duration
}

// NewQuestionGroup creates the group. timeout bounds the parallel
// assessment wait (<= 0 means the executor default).
func NewQuestionGroup(executor *flow.DynamicExecutor, repos flow.Repositories, timeout time.Duration) *QuestionGroup {
	if executor == nil {
		panic("groups.NewQuestionGroup: executor must not be nil")
	}
	return &QuestionGroup{executor: executor, repos: repos, timeout: timeout}
}

// Name implements Group.
func (g *QuestionGroup) Name() string { return flow.QuestionGroupName }

// ExecuteGroup implements Group.
func (g *QuestionGroup) ExecuteGroup(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, []string, error) {
	switch convCtx.Stage {
	case flow.StageGreeting:
		return g.enterQuestionStage(ctx, convCtx)
	case flow.StageQuestioning:
		return g.evaluateAnswer(ctx, convCtx)
	default:
		return flow.NewNone(g.Name(), "当前阶段无需提问"), nil, nil
	}
}

// enterQuestionStage materializes tracking rows for the job's questions and
// asks the first one, or advances straight to the intention stage when HR
// configured no questions.
func (g *QuestionGroup) enterQuestionStage(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, []string, error) {
	questions, err := g.repos.JobQuestions.ListByJob(ctx, convCtx.JobID, convCtx.TenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("list job questions: %w", err)
	}

	if len(questions) == 0 {
		if err := g.repos.Conversations.UpdateStage(ctx, convCtx.ConversationID, convCtx.TenantID, flow.StageIntention); err != nil {
			return nil, nil, fmt.Errorf("advance stage to intention: %w", err)
		}
		return flow.NewNone(g.Name(), "职位未配置问题"), nil, nil
	}

	if err := g.repos.QuestionTracking.BulkCreate(ctx,
		convCtx.ConversationID, convCtx.JobID, convCtx.ResumeID,
		convCtx.TenantID, convCtx.UserID, questions); err != nil {
		return nil, nil, fmt.Errorf("create question tracking rows: %w", err)
	}
	if err := g.repos.Conversations.UpdateStage(ctx, convCtx.ConversationID, convCtx.TenantID, flow.StageQuestioning); err != nil {
		return nil, nil, fmt.Errorf("advance stage to questioning: %w", err)
	}
	slog.Info("entered question stage",
		"conversation_id", convCtx.ConversationID, "questions", len(questions))

	path := []string{nodes.InformationGatheringName}
	result, err := g.executor.Execute(ctx, nodes.InformationGatheringName, convCtx)
	return result, path, err
}

// evaluateAnswer handles a candidate turn while in the question stage.
func (g *QuestionGroup) evaluateAnswer(ctx context.Context, convCtx *flow.ConversationContext) (*flow.NodeResult, []string, error) {
	var path []string

	row, err := g.currentOngoing(ctx, convCtx)
	if err != nil {
		return nil, nil, err
	}
	if row == nil {
		// First answer of a freshly entered question stage: nothing is
		// ongoing yet, so just ask the first question.
		path = append(path, nodes.InformationGatheringName)
		result, err := g.executor.Execute(ctx, nodes.InformationGatheringName, convCtx)
		if err != nil {
			return nil, path, err
		}
		if err := g.maybeAdvanceToIntention(ctx, convCtx, result); err != nil {
			return nil, path, err
		}
		return result, path, nil
	}

	// Stuck-conversation guard.
	repeats := countQuestionRepeats(convCtx.History, row.Question, stuckLookback)
	switch {
	case repeats >= stuckResendAt:
		slog.Warn("conversation stuck on question, re-sending",
			"conversation_id", convCtx.ConversationID, "tracking_id", row.ID, "repeats", repeats)
		return flow.NewSendMessage(g.Name(), row.Question).
			WithData(nodes.DataKeyTrackingID, row.ID), path, nil
	case repeats >= stuckSkipAt:
		slog.Warn("conversation stuck on question, skipping",
			"conversation_id", convCtx.ConversationID, "tracking_id", row.ID, "repeats", repeats)
		if _, err := g.repos.QuestionTracking.UpdateStatus(ctx, row.ID, convCtx.TenantID, models.TrackingSkipped, nil); err != nil {
			return nil, path, fmt.Errorf("skip stuck question: %w", err)
		}
		return flow.NewNone(g.Name(), "问题多次未得到回答,已跳过"), path, nil
	}

	question, err := g.repos.JobQuestions.GetByID(ctx, row.QuestionID, convCtx.TenantID)
	if err != nil {
		return nil, path, fmt.Errorf("load job question %s: %w", row.QuestionID, err)
	}
	if question == nil {
		return nil, path, fmt.Errorf("job question %s not found", row.QuestionID)
	}

	enriched := convCtx.WithCurrentQuestion(row.ID, row.Question, question.EvaluationCriteria)

	var result *flow.NodeResult
	if question.QuestionType == models.QuestionTypeAssessment && question.IsRequired {
		result, path = g.runAssessment(ctx, enriched, path)
	} else {
		path = append(path, llm.SceneCommunicationWillingness)
		result, err = g.executor.Execute(ctx, llm.SceneCommunicationWillingness, enriched)
		if err != nil {
			return nil, path, err
		}
	}

	if err := g.bookkeep(ctx, convCtx, row, result); err != nil {
		return nil, path, err
	}

	// Follow NEXT_NODE hand-offs. Only the first routed name is executed;
	// any further names are informational.
	for result.Action == flow.ActionNextNode && len(result.NextNodes) > 0 {
		next := result.NextNodes[0]
		path = append(path, next)
		result, err = g.executor.Execute(ctx, next, enriched)
		if err != nil {
			return nil, path, err
		}
	}

	if err := g.maybeAdvanceToIntention(ctx, convCtx, result); err != nil {
		return nil, path, err
	}
	return result, path, nil
}

// maybeAdvanceToIntention records the stage transition once the question
// catalog is exhausted. The gathering node returning NONE means no pending
// rows remain, so the conversation moves on to the intention stage.
func (g *QuestionGroup) maybeAdvanceToIntention(ctx context.Context, convCtx *flow.ConversationContext, result *flow.NodeResult) error {
	if result.NodeName != nodes.InformationGatheringName || result.Action != flow.ActionNone {
		return nil
	}
	if err := g.repos.Conversations.UpdateStage(ctx, convCtx.ConversationID, convCtx.TenantID, flow.StageIntention); err != nil {
		return fmt.Errorf("advance stage to intention: %w", err)
	}
	slog.Info("question catalog exhausted, entering intention stage",
		"conversation_id", convCtx.ConversationID)
	return nil
}

// runAssessment executes the relevance classifier and the requirement
// matcher speculatively in parallel: when relevance comes back "B"
// (relevant) the requirement verdict is already there.
func (g *QuestionGroup) runAssessment(ctx context.Context, convCtx *flow.ConversationContext, path []string) (*flow.NodeResult, []string) {
	names := []string{llm.SceneRelevanceReply, llm.SceneReplyMatchRequirement}
	path = append(path, names...)
	results := g.executor.ExecuteParallel(ctx, names, convCtx, g.timeout)

	relevance := results[llm.SceneRelevanceReply]
	if relevance.DataString(nodes.DataKeyRelevance) == "B" {
		return results[llm.SceneReplyMatchRequirement], path
	}
	return relevance, path
}

// bookkeep applies the tracking-status transitions the chosen result
// implies. Requirement-match NO deliberately leaves the row ongoing — the
// human reviewer decides the outcome.
func (g *QuestionGroup) bookkeep(ctx context.Context, convCtx *flow.ConversationContext, row *models.QuestionTracking, result *flow.NodeResult) error {
	switch result.NodeName {
	case llm.SceneCommunicationWillingness:
		willing, ok := result.Data[nodes.DataKeyWilling].(bool)
		if !ok || !willing {
			return nil
		}
		if _, err := g.repos.QuestionTracking.UpdateStatus(ctx, row.ID, convCtx.TenantID, models.TrackingCompleted, nil); err != nil {
			return fmt.Errorf("complete question tracking %s: %w", row.ID, err)
		}
	case llm.SceneReplyMatchRequirement:
		satisfied, ok := result.Data[nodes.DataKeyIsSatisfied].(bool)
		if !ok || !satisfied {
			return nil
		}
		if _, err := g.repos.QuestionTracking.UpdateStatus(ctx, row.ID, convCtx.TenantID, models.TrackingCompleted, &satisfied); err != nil {
			return fmt.Errorf("complete question tracking %s: %w", row.ID, err)
		}
	}
	return nil
}

// currentOngoing loads the tracking row currently being asked, or nil.
func (g *QuestionGroup) currentOngoing(ctx context.Context, convCtx *flow.ConversationContext) (*models.QuestionTracking, error) {
	rows, err := g.repos.QuestionTracking.ListByConversation(ctx,
		convCtx.ConversationID, convCtx.TenantID, models.TrackingOngoing)
	if err != nil {
		return nil, fmt.Errorf("list ongoing question tracking: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// countQuestionRepeats counts consecutive AI turns, newest first and at
// most lookback turns back, whose text contains the current question.
func countQuestionRepeats(history []models.Message, question string, lookback int) int {
	question = strings.TrimSpace(question)
	if question == "" {
		return 0
	}
	repeats := 0
	seen := 0
	for i := len(history) - 1; i >= 0 && seen < lookback; i-- {
		if history[i].Sender != models.SenderAI {
			continue
		}
		seen++
		if !strings.Contains(history[i].Content, question) {
			break
		}
		repeats++
	}
	return repeats
}
