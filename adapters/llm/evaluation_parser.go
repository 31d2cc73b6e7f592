package llm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"interviewbuddy/domain/interview"
)

const (
	labelClarityScore         = "CLARITY_SCORE"
	labelClarityFeedback      = "CLARITY_FEEDBACK"
	labelCorrectnessScore     = "CORRECTNESS_SCORE"
	labelCorrectnessFeedback  = "CORRECTNESS_FEEDBACK"
	labelCompletenessScore    = "COMPLETENESS_SCORE"
	labelCompletenessFeedback = "COMPLETENESS_FEEDBACK"
	labelOverallScore         = "OVERALL_SCORE"
	labelOverallFeedback      = "OVERALL_FEEDBACK"
	labelResources            = "SUGGESTED_RESOURCES"

	maxRawFeedback     = 500
	minResourceLength  = 10
	maxParsedResources = 4
)

var (
	labelPattern = regexp.MustCompile(`\b(CLARITY_SCORE|CLARITY_FEEDBACK|CORRECTNESS_SCORE|CORRECTNESS_FEEDBACK|COMPLETENESS_SCORE|COMPLETENESS_FEEDBACK|OVERALL_SCORE|OVERALL_FEEDBACK|SUGGESTED_RESOURCES):`)
	leadingInt   = regexp.MustCompile(`^\s*\[?\s*(\d+)`)
	enumMarker   = regexp.MustCompile(`\d+\.\s*`)
)

// Evaluation is the structured content of a labeled evaluation response.
type Evaluation struct {
	Score     int
	Feedback  string
	Analysis  interview.DetailedAnalysis
	Resources []string
}

// ParseEvaluation extracts the labeled sections. Every label must be present
// and every score must start with an integer; scores are clamped to [0,10].
func ParseEvaluation(response string) (*Evaluation, error) {
	sections := splitSections(response)

	scores := map[string]int{}
	for _, label := range []string{labelClarityScore, labelCorrectnessScore, labelCompletenessScore, labelOverallScore} {
		raw, ok := sections[label]
		if !ok {
			return nil, fmt.Errorf("missing %s", label)
		}
		m := leadingInt.FindStringSubmatch(raw)
		if m == nil {
			return nil, fmt.Errorf("%s is not a number: %q", label, raw)
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		scores[label] = clampScore(n)
	}

	for _, label := range []string{labelClarityFeedback, labelCorrectnessFeedback, labelCompletenessFeedback, labelOverallFeedback, labelResources} {
		if _, ok := sections[label]; !ok {
			return nil, fmt.Errorf("missing %s", label)
		}
	}

	return &Evaluation{
		Score:    scores[labelOverallScore],
		Feedback: sections[labelOverallFeedback],
		Analysis: interview.DetailedAnalysis{
			Clarity:      interview.DimensionScore{Score: scores[labelClarityScore], Feedback: sections[labelClarityFeedback]},
			Correctness:  interview.DimensionScore{Score: scores[labelCorrectnessScore], Feedback: sections[labelCorrectnessFeedback]},
			Completeness: interview.DimensionScore{Score: scores[labelCompletenessScore], Feedback: sections[labelCompletenessFeedback]},
		},
		Resources: ParseResources(sections[labelResources]),
	}, nil
}

// splitSections maps each label to the trimmed text up to the next label. The
// first occurrence of a label wins.
func splitSections(response string) map[string]string {
	out := map[string]string{}
	matches := labelPattern.FindAllStringSubmatchIndex(response, -1)
	for i, m := range matches {
		label := response[m[2]:m[3]]
		end := len(response)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if _, seen := out[label]; seen {
			continue
		}
		out[label] = strings.TrimSpace(response[m[1]:end])
	}
	return out
}

// ParseResources strips enumeration markers, splits on commas and keeps
// entries longer than ten characters, at most four.
func ParseResources(text string) []string {
	text = enumMarker.ReplaceAllString(text, "")
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) <= minResourceLength {
			continue
		}
		out = append(out, part)
		if len(out) == maxParsedResources {
			break
		}
	}
	return out
}

// DegradedEvaluation is used when a response arrived but could not be parsed.
func DegradedEvaluation(response string) *Evaluation {
	feedback := response
	if utf8.RuneCountInString(response) > maxRawFeedback {
		feedback = string([]rune(response)[:maxRawFeedback]) + "..."
	}
	return &Evaluation{
		Score:    5,
		Feedback: feedback,
		Analysis: interview.DetailedAnalysis{
			Clarity:      interview.DimensionScore{Score: 5, Feedback: "Moderate clarity in explanation."},
			Correctness:  interview.DimensionScore{Score: 5, Feedback: "Generally accurate content."},
			Completeness: interview.DimensionScore{Score: 5, Feedback: "Adequately comprehensive answer."},
		},
		Resources: []string{"Study materials for improvement"},
	}
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > interview.ShortAnswerMaxScore {
		return interview.ShortAnswerMaxScore
	}
	return n
}
