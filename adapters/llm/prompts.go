package llm

import (
	"fmt"
	"strings"

	"interviewbuddy/domain/interview"
)

// BuildQuestionPrompt asks for a JSON array of questions matching the setup.
func BuildQuestionPrompt(setup interview.SetupDescriptor) string {
	return fmt.Sprintf(`Generate %d %s level %s interview questions
for a %s position focusing on %s.

Requirements:
- Question type: %s
- Difficulty: %s
- Professional and relevant to the role
- Include practical scenarios where applicable

Format your response as a JSON array where each question has:
- "text": The question text
- "type": "mcq" or "short"
- "options": Array of 4 options (for MCQ only, format as "A. option", "B. option", etc.)
- "correct_answer": The correct answer (for MCQ: "A", "B", "C", or "D")
- "category": The skill category this question tests
- "difficulty": The difficulty level

For MCQ questions, ensure options are realistic and the correct answer is not obvious.
For short answer questions, provide questions that test practical knowledge and problem-solving.

Example MCQ:
{
  "text": "Which design pattern is most suitable for creating a single instance of a class?",
  "type": "mcq",
  "options": ["A. Factory Pattern", "B. Singleton Pattern", "C. Observer Pattern", "D. Strategy Pattern"],
  "correct_answer": "B",
  "category": "Design Patterns",
  "difficulty": "Medium"
}

Example Short Answer:
{
  "text": "Explain the difference between REST and GraphQL APIs, including their advantages and use cases.",
  "type": "short",
  "category": "API Design",
  "difficulty": "Medium"
}

Generate the questions now:`,
		setup.QuestionCount,
		strings.ToLower(setup.Difficulty),
		strings.ToLower(string(setup.InterviewType)),
		setup.JobRole,
		setup.Domain,
		setup.QuestionType,
		setup.Difficulty,
	)
}

// BuildEvaluationPrompt asks for a labeled, line-oriented assessment of one
// short answer. Behavioral interviews are graded against the STAR structure.
func BuildEvaluationPrompt(q interview.Question, answer string, setup interview.SetupDescriptor) string {
	if setup.InterviewType.IsBehavioral() {
		return fmt.Sprintf(`Evaluate this behavioral interview answer for a %s position:

Question: %s
Answer: %s
Category: %s

Provide detailed analysis in these areas:

1. CLARITY (0-10): How clearly is the answer communicated?
   - Is the language clear and professional?
   - Is the structure logical and easy to follow?
   - Are the examples specific and well-explained?

2. CORRECTNESS (0-10): How accurate and relevant is the content?
   - Does the answer address the question asked?
   - Are the examples relevant to the behavioral competency?
   - Does it demonstrate the required skills/behavior?

3. COMPLETENESS (0-10): How comprehensive is the answer?
   - Does it follow the STAR method (Situation, Task, Action, Result)?
   - Are all aspects of the question addressed?
   - Does it show learning and self-reflection?

4. OVERALL SCORE (0-10): Overall quality of the answer

5. SUGGESTED RESOURCES: Learning materials to improve in this area

%s`, setup.JobRole, q.Text, answer, q.CategoryOrDefault(), evaluationFormat(
			"Detailed feedback on communication clarity",
			"Detailed feedback on relevance and accuracy",
			"Detailed feedback on comprehensiveness and STAR structure",
			"Comprehensive feedback summary",
		))
	}

	return fmt.Sprintf(`Evaluate this technical interview answer for a %s position:

Question: %s
Answer: %s
Category: %s
Domain: %s

Provide detailed analysis in these areas:

1. CLARITY (0-10): How clearly is the technical concept explained?
   - Is the explanation easy to understand?
   - Are technical terms used appropriately?
   - Is the structure logical?

2. CORRECTNESS (0-10): How technically accurate is the answer?
   - Are the technical facts correct?
   - Are the concepts properly understood?
   - Are there any technical errors?

3. COMPLETENESS (0-10): How comprehensive is the answer?
   - Are all aspects of the question addressed?
   - Are examples or use cases provided?
   - Is sufficient technical depth shown?

4. OVERALL SCORE (0-10): Overall quality of the technical answer

5. SUGGESTED RESOURCES: Learning materials to improve in this technical area

%s`, setup.JobRole, q.Text, answer, q.CategoryOrDefault(), setup.Domain, evaluationFormat(
		"Detailed feedback on explanation clarity",
		"Detailed feedback on technical accuracy",
		"Detailed feedback on comprehensiveness",
		"Comprehensive technical feedback summary",
	))
}

func evaluationFormat(clarity, correctness, completeness, overall string) string {
	return fmt.Sprintf(`Format your response EXACTLY as:
%s: [0-10]
%s: [%s]

%s: [0-10]
%s: [%s]

%s: [0-10]
%s: [%s]

%s: [0-10]
%s: [%s]

%s: [Comma-separated list of 3-4 specific learning resources]`,
		labelClarityScore, labelClarityFeedback, clarity,
		labelCorrectnessScore, labelCorrectnessFeedback, correctness,
		labelCompletenessScore, labelCompletenessFeedback, completeness,
		labelOverallScore, labelOverallFeedback, overall,
		labelResources,
	)
}
