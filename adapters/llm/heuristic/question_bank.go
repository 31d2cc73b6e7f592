// Package heuristic holds the static question bank and the rule-based answer
// scorer used when no generative provider is configured or a call fails.
package heuristic

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"interviewbuddy/domain/interview"
	"interviewbuddy/ports"
)

//go:embed bank.yaml
var bankYAML []byte

type bankFile struct {
	Behavioral []behavioralCategory `yaml:"behavioral"`
	Fallback   fallbackTable        `yaml:"fallback"`
}

type behavioralCategory struct {
	Category  string   `yaml:"category"`
	Questions []string `yaml:"questions"`
}

type fallbackTable struct {
	DefaultRole string         `yaml:"default_role"`
	Roles       []fallbackRole `yaml:"roles"`
}

type fallbackRole struct {
	Role      string               `yaml:"role"`
	Questions []interview.Question `yaml:"questions"`
}

// QuestionBank serves the curated behavioral questions and the per-role
// fallback table. It is safe for concurrent use.
type QuestionBank struct {
	behavioral []interview.Question
	fallback   map[string][]interview.Question
	defaultKey string

	mu  sync.Mutex
	rng ports.Shuffler
}

// NewQuestionBank parses the embedded bank. A nil rng uses a time-seeded source.
func NewQuestionBank(rng ports.Shuffler) (*QuestionBank, error) {
	return parseQuestionBank(bankYAML, rng)
}

func parseQuestionBank(raw []byte, rng ports.Shuffler) (*QuestionBank, error) {
	var file bankFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := &QuestionBank{
		fallback:   make(map[string][]interview.Question, len(file.Fallback.Roles)),
		defaultKey: file.Fallback.DefaultRole,
		rng:        rng,
	}

	title := cases.Title(language.English)
	for _, cat := range file.Behavioral {
		label := title.String(strings.ReplaceAll(cat.Category, "_", " "))
		for _, text := range cat.Questions {
			b.behavioral = append(b.behavioral, interview.Question{
				Text:     text,
				Type:     interview.QuestionShort,
				Category: label,
			})
		}
	}

	for _, role := range file.Fallback.Roles {
		for i, q := range role.Questions {
			if !q.Valid() {
				return nil, fmt.Errorf("fallback question %d for %s is malformed", i, role.Role)
			}
		}
		b.fallback[role.Role] = role.Questions
	}
	if _, ok := b.fallback[b.defaultKey]; !ok {
		return nil, fmt.Errorf("fallback table has no default role %q", b.defaultKey)
	}
	return b, nil
}

// Generate implements ports.QuestionSource from static data only.
func (b *QuestionBank) Generate(ctx context.Context, setup interview.SetupDescriptor) (*ports.QuestionGeneration, error) {
	setup = setup.Normalized()
	if setup.InterviewType.IsBehavioral() {
		return &ports.QuestionGeneration{
			Questions: b.Behavioral(setup),
			Audit:     ports.GenerationAudit{GeneratorType: "bank"},
		}, nil
	}
	return &ports.QuestionGeneration{
		Questions: b.Fallback(setup),
		Audit:     ports.GenerationAudit{GeneratorType: "fallback"},
	}, nil
}

// Behavioral draws up to QuestionCount distinct questions at random. Every
// returned question is short answer and carries the setup difficulty.
func (b *QuestionBank) Behavioral(setup interview.SetupDescriptor) []interview.Question {
	pool := make([]interview.Question, len(b.behavioral))
	copy(pool, b.behavioral)

	b.mu.Lock()
	b.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	b.mu.Unlock()

	n := setup.QuestionCount
	if n > len(pool) {
		n = len(pool)
	}
	if n < 0 {
		n = 0
	}

	out := make([]interview.Question, n)
	for i := range out {
		q := pool[i].AsShort()
		q.Difficulty = setup.Difficulty
		out[i] = q
	}
	return out
}

// Fallback cycles the role's table to exactly QuestionCount questions. Unknown
// roles use the default role table. Behavioral setups are served from the
// curated bank instead.
func (b *QuestionBank) Fallback(setup interview.SetupDescriptor) []interview.Question {
	if setup.InterviewType.IsBehavioral() {
		return b.Behavioral(setup)
	}
	table, ok := b.fallback[setup.JobRole]
	if !ok {
		table = b.fallback[b.defaultKey]
	}
	return cycle(table, setup.QuestionCount)
}

// TopUp appends cycled fallback questions until qs holds QuestionCount entries.
func (b *QuestionBank) TopUp(qs []interview.Question, setup interview.SetupDescriptor) ([]interview.Question, int) {
	missing := setup.QuestionCount - len(qs)
	if missing <= 0 {
		return qs, 0
	}
	extra := b.Fallback(interview.SetupDescriptor{
		JobRole:       setup.JobRole,
		InterviewType: setup.InterviewType,
		QuestionCount: missing,
		Difficulty:    setup.Difficulty,
	})
	return append(qs, extra...), len(extra)
}

func cycle(table []interview.Question, n int) []interview.Question {
	if n <= 0 || len(table) == 0 {
		return []interview.Question{}
	}
	out := make([]interview.Question, n)
	for i := range out {
		q := table[i%len(table)]
		if q.Options != nil {
			q.Options = append([]string(nil), q.Options...)
		}
		out[i] = q
	}
	return out
}
