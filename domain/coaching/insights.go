package coaching

import (
	"fmt"
	"strings"

	"interviewbuddy/domain/interview"
)

const (
	StrengthThreshold   = 8.0
	WeaknessThreshold   = 6.0
	MaxRecommendations  = 4
	strengthPrefix      = "Strong in "
	weaknessPrefix      = "Need improvement in "
	genericStarAdvice   = "Practice behavioral interview techniques using the STAR method (Situation, Task, Action, Result)"
	genericFocusPattern = "Focus on improving your knowledge in %s"
)

// AnalyzePerformance splits categories into strengths (mean >= 8) and
// weaknesses (mean < 6). Categories in between appear in neither list. The
// order argument fixes output order to first appearance in the interview.
func AnalyzePerformance(order []string, scores map[string]float64) (strengths, weaknesses []string) {
	strengths = []string{}
	weaknesses = []string{}
	for _, category := range order {
		score, ok := scores[category]
		if !ok {
			continue
		}
		switch {
		case score >= StrengthThreshold:
			strengths = append(strengths, strengthPrefix+category)
		case score < WeaknessThreshold:
			weaknesses = append(weaknesses, weaknessPrefix+category)
		}
	}
	return strengths, weaknesses
}

type keywordRule struct {
	keywords []string
	advice   string
}

// behavioralKeywords pull a weakness into the behavioral rule table even in a
// technical interview.
var behavioralKeywords = []string{"leadership", "teamwork", "communication", "conflict", "adaptability"}

var behavioralRules = []keywordRule{
	{[]string{"leadership"}, "Practice STAR method examples demonstrating leadership initiatives and team management"},
	{[]string{"teamwork"}, "Prepare examples of successful collaboration and team conflict resolution"},
	{[]string{"communication"}, "Practice explaining complex ideas clearly and concisely using the STAR framework"},
	{[]string{"conflict"}, "Develop examples showing diplomatic problem-solving and stakeholder management"},
	{[]string{"adaptability"}, "Prepare stories showing flexibility, learning agility, and change management"},
	{[]string{"problem solving"}, "Practice structuring problem-solving examples with clear situation, actions, and results"},
	{[]string{"initiative"}, "Develop examples of proactive problem identification and innovative solutions"},
}

var technicalRules = []keywordRule{
	{[]string{"algorithms"}, "Practice coding problems on platforms like LeetCode or HackerRank"},
	{[]string{"system design"}, "Study system design patterns and practice designing scalable systems"},
	{[]string{"machine learning"}, "Review ML fundamentals and practice with datasets on Kaggle"},
	{[]string{"javascript"}, "Practice JavaScript concepts and modern ES6+ features"},
	{[]string{"python"}, "Strengthen Python programming skills with real-world projects"},
	{[]string{"database", "sql"}, "Practice SQL queries and database design concepts"},
	{[]string{"api"}, "Learn about REST API design and implementation best practices"},
}

func matchRule(rules []keywordRule, text string) (string, bool) {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.advice, true
			}
		}
	}
	return "", false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Recommendations derives up to four tips from the weakness list. Behavioral
// rules take precedence for behavioral interviews or when the weakness names a
// behavioral competency; technical rules apply otherwise. With no weaknesses two
// reinforcement lines are emitted. Role-derived tips are appended last.
func Recommendations(weaknesses []string, setup interview.SetupDescriptor) []string {
	behavioral := setup.InterviewType.IsBehavioral()
	recs := []string{}

	for _, weakness := range weaknesses {
		lower := strings.ToLower(weakness)
		if behavioral || containsAny(lower, behavioralKeywords) {
			if advice, ok := matchRule(behavioralRules, lower); ok {
				recs = append(recs, advice)
			} else {
				recs = append(recs, genericStarAdvice)
			}
			continue
		}
		if advice, ok := matchRule(technicalRules, lower); ok {
			recs = append(recs, advice)
			continue
		}
		recs = append(recs, fmt.Sprintf(genericFocusPattern, lastWord(weakness)))
	}

	if len(recs) == 0 {
		if behavioral {
			recs = append(recs,
				"Continue practicing behavioral examples using the STAR method!",
				"Develop more diverse examples covering different competency areas")
		} else {
			recs = append(recs,
				"Continue practicing to maintain your strong performance!",
				"Try challenging yourself with harder difficulty levels")
		}
	}

	role := strings.ToLower(setup.JobRole)
	if strings.Contains(role, "engineer") {
		if behavioral {
			recs = append(recs, "Practice explaining technical decisions in business context")
		} else {
			recs = append(recs, "Practice explaining technical concepts in simple terms")
		}
	}
	if strings.Contains(role, "manager") {
		recs = append(recs, "Focus on leadership and project management scenarios")
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

func lastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "core concepts"
	}
	return fields[len(fields)-1]
}
