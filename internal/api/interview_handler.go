package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interviewbuddy/app"
	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/ports"
)

// InterviewHandler serves setup, the question flow and completion.
type InterviewHandler struct {
	interviews *app.InterviewService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviews *app.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

type setupRequest struct {
	JobRole       string `json:"job_role" form:"job_role"`
	Domain        string `json:"domain" form:"domain"`
	InterviewType string `json:"interview_type" form:"interview_type"`
	QuestionCount int    `json:"question_count" form:"question_count"`
	QuestionType  string `json:"question_type" form:"question_type"`
	Difficulty    string `json:"difficulty" form:"difficulty"`
}

func (r setupRequest) descriptor() interview.SetupDescriptor {
	return interview.SetupDescriptor{
		JobRole:       r.JobRole,
		Domain:        r.Domain,
		InterviewType: interview.InterviewType(r.InterviewType),
		QuestionCount: r.QuestionCount,
		QuestionType:  interview.QuestionFormat(r.QuestionType),
		Difficulty:    r.Difficulty,
	}
}

type answerRequest struct {
	Index  *int   `json:"index" form:"index"`
	Answer string `json:"answer" form:"answer"`
}

type jumpRequest struct {
	Index *int `json:"index" form:"index"`
}

// questionPayload is a question as the candidate sees it, without the key.
type questionPayload struct {
	Text       string                 `json:"text"`
	Type       interview.QuestionType `json:"type"`
	Category   string                 `json:"category"`
	Difficulty string                 `json:"difficulty,omitempty"`
	Options    []string               `json:"options,omitempty"`
}

type sessionPayload struct {
	InterviewID core.InterviewID          `json:"interview_id"`
	Setup       interview.SetupDescriptor `json:"setup"`
	Question    *questionPayload          `json:"question,omitempty"`
	Answer      string                    `json:"answer"`
	Answers     interview.Answers         `json:"answers"`
	Current     int                       `json:"current_question"`
	Total       int                       `json:"total_questions"`
	Recovered   bool                      `json:"recovered,omitempty"`
}

func presentSession(v *app.SessionView) sessionPayload {
	out := sessionPayload{
		InterviewID: v.InterviewID,
		Setup:       v.Setup,
		Answer:      v.Answers.For(v.Current),
		Answers:     v.Answers,
		Current:     v.Current,
		Total:       v.Total,
		Recovered:   v.Recovered,
	}
	if v.Current >= 0 && v.Current < len(v.Questions) {
		q := v.Questions[v.Current]
		out.Question = &questionPayload{
			Text:       q.Text,
			Type:       q.Type,
			Category:   q.Category,
			Difficulty: q.Difficulty,
			Options:    q.Options,
		}
	}
	return out
}

// Catalog returns the setup form options.
func (h *InterviewHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, interview.DefaultCatalog())
}

// State reports the lifecycle phase and the pointers behind it.
func (h *InterviewHandler) State(c *gin.Context) {
	state, err := h.interviews.State(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": state.Phase(), "state": state})
}

// SubmitSetup stores the setup for the next generation.
func (h *InterviewHandler) SubmitSetup(c *gin.Context) {
	var req setupRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid setup request")
		return
	}

	state, err := h.interviews.SubmitSetup(c.Request.Context(), currentUser(c), req.descriptor())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": state.Phase(), "setup": state.Setup})
}

// Generate builds a fresh interview from the stored setup.
func (h *InterviewHandler) Generate(c *gin.Context) {
	view, audit, err := h.interviews.GenerateQuestions(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": presentSession(view), "generator": generatorOf(audit)})
}

func generatorOf(audit *ports.GenerationAudit) string {
	if audit == nil {
		return ""
	}
	return audit.GeneratorType
}

// Current returns the question under the cursor.
func (h *InterviewHandler) Current(c *gin.Context) {
	view, err := h.interviews.Current(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": presentSession(view)})
}

// SubmitAnswer records an answer; the index defaults to the current question.
func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid answer request")
		return
	}
	ctx := c.Request.Context()
	user := currentUser(c)

	var index int
	if req.Index != nil {
		index = *req.Index
	} else {
		view, err := h.interviews.Current(ctx, user)
		if err != nil {
			respondError(c, err)
			return
		}
		index = view.Current
	}

	view, err := h.interviews.SubmitAnswer(ctx, user, index, req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": presentSession(view)})
}

// Next advances the cursor; at the last question it signals completion.
func (h *InterviewHandler) Next(c *gin.Context) {
	view, completed, err := h.interviews.Next(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": presentSession(view), "ready_to_complete": completed})
}

// Previous moves the cursor back.
func (h *InterviewHandler) Previous(c *gin.Context) {
	view, err := h.interviews.Previous(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": presentSession(view)})
}

// Jump moves the cursor to a question.
func (h *InterviewHandler) Jump(c *gin.Context) {
	var req jumpRequest
	if err := c.ShouldBind(&req); err != nil || req.Index == nil {
		badRequest(c, "Question index is required")
		return
	}

	view, err := h.interviews.Jump(c.Request.Context(), currentUser(c), *req.Index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": presentSession(view)})
}

// Complete evaluates every answer and returns the saved report.
func (h *InterviewHandler) Complete(c *gin.Context) {
	report, err := h.interviews.Complete(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report, "report_url": "/reports/" + report.ID.String()})
}

// Abandon drops the running interview.
func (h *InterviewHandler) Abandon(c *gin.Context) {
	if err := h.interviews.Abandon(c.Request.Context(), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
