package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"interviewbuddy/adapters/llm/heuristic"
	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/ports"
)

// QuestionAdapter implements ports.QuestionSource using a generative provider
// for technical and mixed interviews and the curated bank for behavioral ones.
type QuestionAdapter struct {
	llmClient ports.LLMClient
	bank      *heuristic.QuestionBank
	log       *zap.Logger
}

// NewQuestionAdapter creates a question source. A nil client serves every
// setup from the bank.
func NewQuestionAdapter(client ports.LLMClient, bank *heuristic.QuestionBank, log *zap.Logger) *QuestionAdapter {
	return &QuestionAdapter{llmClient: client, bank: bank, log: log.Named("questions")}
}

// Generate implements ports.QuestionSource. It only fails when ctx is done.
func (a *QuestionAdapter) Generate(ctx context.Context, setup interview.SetupDescriptor) (*ports.QuestionGeneration, error) {
	setup = setup.Normalized()

	if setup.InterviewType.IsBehavioral() || a.llmClient == nil {
		return a.bank.Generate(ctx, setup)
	}

	prompt := BuildQuestionPrompt(setup)
	audit := ports.GenerationAudit{
		GeneratorType: "llm",
		Model:         a.llmClient.Model(),
		PromptHash:    core.HashText(prompt),
	}

	response, err := a.llmClient.Generate(ctx, prompt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return a.fallback(setup, audit, err), nil
	}
	audit.ResponseHash = core.HashText(response)

	questions, dropped, err := ParseQuestions(response)
	audit.Dropped = dropped
	if err != nil {
		return a.fallback(setup, audit, err), nil
	}
	if len(dropped) > 0 {
		a.log.Warn("dropped invalid generated questions", zap.Int("dropped", len(dropped)), zap.Int("kept", len(questions)))
	}

	if len(questions) > setup.QuestionCount {
		questions = questions[:setup.QuestionCount]
	}
	questions, audit.ToppedUp = a.bank.TopUp(questions, setup)
	if audit.ToppedUp > 0 {
		a.log.Warn("generated fewer questions than requested, topped up from fallback table",
			zap.Int("requested", setup.QuestionCount), zap.Int("topped_up", audit.ToppedUp))
	}

	return &ports.QuestionGeneration{Questions: questions, Audit: audit}, nil
}

func (a *QuestionAdapter) fallback(setup interview.SetupDescriptor, audit ports.GenerationAudit, cause error) *ports.QuestionGeneration {
	a.log.Warn("question generation failed, using fallback table",
		zap.String("job_role", setup.JobRole),
		zap.Error(cause))
	audit.GeneratorType = "fallback"
	audit.FallbackCause = cause.Error()
	return &ports.QuestionGeneration{
		Questions: a.bank.Fallback(setup),
		Audit:     audit,
	}
}

// ParseQuestions reads the first well-formed JSON array in response and keeps
// the structurally valid entries. It fails when no array is found or no entry
// survives.
func ParseQuestions(response string) ([]interview.Question, []ports.DroppedQuestion, error) {
	if !strings.Contains(response, "[") || !strings.Contains(response, "]") {
		return nil, nil, core.ErrNoJSONArray
	}
	raw, ok := firstJSONArray(response)
	if !ok {
		return nil, nil, fmt.Errorf("%w: malformed JSON", core.ErrNoJSONArray)
	}

	questions := []interview.Question{}
	dropped := []ports.DroppedQuestion{}
	index := 0
	gjson.Parse(raw).ForEach(func(_, item gjson.Result) bool {
		q, reason, msg := questionFromJSON(item)
		if reason != "" {
			dropped = append(dropped, ports.DroppedQuestion{Index: index, Reason: reason, Message: msg})
		} else {
			questions = append(questions, q)
		}
		index++
		return true
	})

	if len(questions) == 0 {
		return nil, dropped, core.ErrNoValidQuestion
	}
	return questions, dropped, nil
}

// firstJSONArray tries each '[' in order and returns the longest valid array
// starting there, so bracketed prose before the payload is skipped.
func firstJSONArray(response string) (string, bool) {
	for start := strings.Index(response, "["); start >= 0; {
		for end := strings.LastIndex(response, "]"); end > start; end = strings.LastIndex(response[:end], "]") {
			candidate := response[start : end+1]
			if gjson.Valid(candidate) && gjson.Parse(candidate).IsArray() {
				return candidate, true
			}
		}
		next := strings.Index(response[start+1:], "[")
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// questionFromJSON validates one array entry. A non-empty reason means the
// entry was rejected.
func questionFromJSON(item gjson.Result) (interview.Question, string, string) {
	if !item.IsObject() {
		return interview.Question{}, "not_an_object", "entry is not a JSON object"
	}
	for _, field := range []string{"text", "type", "category"} {
		if v := item.Get(field); !v.Exists() || strings.TrimSpace(v.String()) == "" {
			return interview.Question{}, "missing_" + field, fmt.Sprintf("question dropped: %s is required", field)
		}
	}

	q := interview.Question{
		Text:       strings.TrimSpace(item.Get("text").String()),
		Type:       interview.QuestionType(strings.ToLower(strings.TrimSpace(item.Get("type").String()))),
		Category:   strings.TrimSpace(item.Get("category").String()),
		Difficulty: strings.TrimSpace(item.Get("difficulty").String()),
	}

	switch q.Type {
	case interview.QuestionShort:
		return q, "", ""
	case interview.QuestionMCQ:
		options := item.Get("options")
		if !options.IsArray() || !item.Get("correct_answer").Exists() {
			return interview.Question{}, "missing_mcq_fields", "question dropped: mcq requires options and correct_answer"
		}
		for _, o := range options.Array() {
			q.Options = append(q.Options, strings.TrimSpace(o.String()))
		}
		if len(q.Options) != 4 {
			return interview.Question{}, "invalid_options", fmt.Sprintf("question dropped: expected 4 options, got %d", len(q.Options))
		}
		letter, ok := answerLetter(item.Get("correct_answer").String())
		if !ok {
			return interview.Question{}, "invalid_correct_answer", fmt.Sprintf("question dropped: correct_answer %q is not A-D", item.Get("correct_answer").String())
		}
		q.CorrectAnswer = letter
		return q, "", ""
	default:
		return interview.Question{}, "invalid_type", fmt.Sprintf("question dropped: unknown type %q", q.Type)
	}
}

// answerLetter accepts "B", "b", "B." or "B. Singleton Pattern".
func answerLetter(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s[0] < 'A' || s[0] > 'D' {
		return "", false
	}
	if len(s) > 1 && s[1] != '.' && s[1] != ')' && s[1] != ' ' {
		return "", false
	}
	return s[:1], true
}
