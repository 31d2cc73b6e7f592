// Package coaching holds the static study-resource tables and the rules that
// turn category scores into strengths, weaknesses and recommendations.
package coaching

import (
	"fmt"
	"strings"

	"interviewbuddy/domain/interview"
)

// MaxResourcesPerQuestion caps the resource list attached to one result.
const MaxResourcesPerQuestion = 4

var behavioralResources = map[string][]string{
	"leadership": {
		"Book: 'The Leadership Challenge' by Kouzes and Posner",
		"Course: Leadership Fundamentals on LinkedIn Learning",
		"Article: Harvard Business Review's Leadership section",
		"Podcast: 'Leadership in Action' by McKinsey",
	},
	"teamwork": {
		"Book: 'Team of Teams' by General Stanley McChrystal",
		"Course: Teamwork Skills on Coursera",
		"Article: 'The Five Dysfunctions of a Team' summary",
		"Workshop: Virtual team collaboration best practices",
	},
	"communication": {
		"Book: 'Crucial Conversations' by Kerry Patterson",
		"Course: Business Communication on edX",
		"Practice: Toastmasters International public speaking",
		"Guide: STAR method interview technique training",
	},
	"conflict_resolution": {
		"Book: 'Getting to Yes' by Roger Fisher",
		"Course: Conflict Resolution Skills on Udemy",
		"Article: Harvard Negotiation Project resources",
		"Practice: Mediation and negotiation simulations",
	},
	"problem_solving": {
		"Book: 'Thinking, Fast and Slow' by Daniel Kahneman",
		"Course: Critical Thinking and Problem Solving on Coursera",
		"Method: Design thinking methodology training",
		"Practice: Case study analysis and frameworks",
	},
}

var behavioralDefault = []string{
	"Book: 'Emotional Intelligence 2.0' by Travis Bradberry",
	"Course: Professional Skills Development on LinkedIn Learning",
	"Practice: STAR method behavioral interview preparation",
	"Resource: Indeed Career Guide for behavioral interviews",
}

var technicalResources = map[string][]string{
	"algorithms": {
		"Platform: LeetCode for coding practice",
		"Book: 'Cracking the Coding Interview' by Gayle McDowell",
		"Course: Algorithms Specialization on Coursera",
		"Resource: GeeksforGeeks algorithm tutorials",
	},
	"data_structures": {
		"Course: Data Structures and Algorithms on edX",
		"Book: 'Introduction to Algorithms' by CLRS",
		"Practice: HackerRank data structures challenges",
		"Visualization: VisuAlgo.net for interactive learning",
	},
	"system_design": {
		"Book: 'Designing Data-Intensive Applications' by Martin Kleppmann",
		"Course: System Design Interview prep on Educative",
		"Resource: High Scalability blog and case studies",
		"Practice: System design interview questions on Pramp",
	},
	"python": {
		"Documentation: Official Python documentation and tutorials",
		"Book: 'Effective Python' by Brett Slatkin",
		"Course: Python for Everybody Specialization on Coursera",
		"Practice: Real Python tutorials and exercises",
	},
	"javascript": {
		"Resource: MDN Web Docs JavaScript Guide",
		"Book: 'You Don't Know JS' series by Kyle Simpson",
		"Course: Modern JavaScript from Beginner to Advanced",
		"Practice: JavaScript30 challenge by Wes Bos",
	},
	"machine_learning": {
		"Course: Machine Learning by Andrew Ng on Coursera",
		"Book: 'Hands-On Machine Learning' by Aurélien Géron",
		"Platform: Kaggle Learn micro-courses",
		"Practice: Scikit-learn tutorials and examples",
	},
}

// normalizeKey lower-cases and replaces spaces with underscores.
func normalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// ResourcesFor returns up to four study resources for a category. Behavioral
// interviews use the competency table; otherwise the technical table is tried
// by category, then by domain, then a templated list naming the domain.
func ResourcesFor(category string, setup interview.SetupDescriptor) []string {
	key := normalizeKey(category)

	var resources []string
	if setup.InterviewType.IsBehavioral() {
		resources = behavioralResources[key]
		if resources == nil {
			resources = behavioralDefault
		}
	} else if r, ok := technicalResources[key]; ok {
		resources = r
	} else if r, ok := technicalResources[normalizeKey(setup.Domain)]; ok {
		resources = r
	} else {
		domain := strings.ToLower(setup.Domain)
		resources = []string{
			fmt.Sprintf("Documentation: Official %s documentation", domain),
			fmt.Sprintf("Course: %s fundamentals on online learning platforms", category),
			fmt.Sprintf("Practice: %s coding challenges and exercises", category),
			fmt.Sprintf("Community: Join %s developer communities and forums", domain),
		}
	}

	if len(resources) > MaxResourcesPerQuestion {
		resources = resources[:MaxResourcesPerQuestion]
	}
	out := make([]string, len(resources))
	copy(out, resources)
	return out
}
