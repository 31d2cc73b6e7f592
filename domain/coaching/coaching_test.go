package coaching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"interviewbuddy/domain/interview"
)

var (
	technicalSetup  = interview.SetupDescriptor{JobRole: "Data Analyst", Domain: "Backend", InterviewType: interview.InterviewTechnical}
	behavioralSetup = interview.SetupDescriptor{JobRole: "Data Analyst", Domain: "Backend", InterviewType: interview.InterviewBehavioral}
)

func TestResourcesForTechnicalCategory(t *testing.T) {
	got := ResourcesFor("Algorithms", technicalSetup)

	assert.Len(t, got, 4)
	assert.Equal(t, "Platform: LeetCode for coding practice", got[0])
}

func TestResourcesForMultiWordCategory(t *testing.T) {
	got := ResourcesFor("System Design", technicalSetup)
	assert.Contains(t, got[0], "Designing Data-Intensive Applications")

	got = ResourcesFor("Conflict Resolution", behavioralSetup)
	assert.Contains(t, got[0], "Getting to Yes")
}

func TestResourcesFallBackToDomain(t *testing.T) {
	setup := technicalSetup
	setup.Domain = "Python"

	got := ResourcesFor("Memory Management", setup)

	assert.Equal(t, "Documentation: Official Python documentation and tutorials", got[0])
}

func TestResourcesTemplatedFallback(t *testing.T) {
	got := ResourcesFor("Memory Management", technicalSetup)

	assert.Equal(t, []string{
		"Documentation: Official backend documentation",
		"Course: Memory Management fundamentals on online learning platforms",
		"Practice: Memory Management coding challenges and exercises",
		"Community: Join backend developer communities and forums",
	}, got)
}

func TestResourcesBehavioralDefault(t *testing.T) {
	got := ResourcesFor("Ethics Integrity", behavioralSetup)

	assert.Len(t, got, 4)
	assert.Contains(t, got[0], "Emotional Intelligence 2.0")
}

func TestResourcesAreCopies(t *testing.T) {
	got := ResourcesFor("Algorithms", technicalSetup)
	got[0] = "mutated"

	assert.NotEqual(t, "mutated", ResourcesFor("Algorithms", technicalSetup)[0])
}

func TestAnalyzePerformanceThresholds(t *testing.T) {
	order := []string{"Algorithms", "Databases", "APIs", "Testing"}
	scores := map[string]float64{"Algorithms": 8, "Databases": 7.9, "APIs": 6, "Testing": 5.9}

	strengths, weaknesses := AnalyzePerformance(order, scores)

	assert.Equal(t, []string{"Strong in Algorithms"}, strengths)
	assert.Equal(t, []string{"Need improvement in Testing"}, weaknesses)
}

func TestRecommendationsTechnicalRules(t *testing.T) {
	recs := Recommendations([]string{
		"Need improvement in Algorithms",
		"Need improvement in SQL Basics",
		"Need improvement in Memory Management",
	}, technicalSetup)

	assert.Equal(t, []string{
		"Practice coding problems on platforms like LeetCode or HackerRank",
		"Practice SQL queries and database design concepts",
		"Focus on improving your knowledge in Management",
	}, recs)
}

func TestRecommendationsBehavioralKeywordWinsInTechnicalInterview(t *testing.T) {
	recs := Recommendations([]string{"Need improvement in Communication"}, technicalSetup)

	assert.Equal(t, "Practice explaining complex ideas clearly and concisely using the STAR framework", recs[0])
}

func TestRecommendationsBehavioralGeneric(t *testing.T) {
	recs := Recommendations([]string{"Need improvement in Ethics Integrity"}, behavioralSetup)

	assert.Equal(t, genericStarAdvice, recs[0])
}

func TestRecommendationsNoWeaknesses(t *testing.T) {
	recs := Recommendations(nil, technicalSetup)
	assert.Equal(t, []string{
		"Continue practicing to maintain your strong performance!",
		"Try challenging yourself with harder difficulty levels",
	}, recs)

	recs = Recommendations(nil, behavioralSetup)
	assert.Equal(t, "Continue practicing behavioral examples using the STAR method!", recs[0])
}

func TestRecommendationsRoleTipsAndCap(t *testing.T) {
	setup := technicalSetup
	setup.JobRole = "Software Engineer"

	recs := Recommendations(nil, setup)
	assert.Equal(t, "Practice explaining technical concepts in simple terms", recs[2])

	many := []string{
		"Need improvement in Algorithms",
		"Need improvement in Python",
		"Need improvement in JavaScript",
		"Need improvement in APIs",
	}
	recs = Recommendations(many, setup)
	assert.Len(t, recs, MaxRecommendations)
	assert.NotContains(t, recs, "Practice explaining technical concepts in simple terms")

	setup.JobRole = "Product Manager"
	recs = Recommendations(nil, setup)
	assert.Equal(t, "Focus on leadership and project management scenarios", recs[len(recs)-1])
}
