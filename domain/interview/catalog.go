package interview

// Interview limits and scoring constants.
const (
	MinQuestions     = 5
	MaxQuestions     = 20
	DefaultQuestions = 10

	MCQMaxScore         = 10
	ShortAnswerMaxScore = 10
	PassPercentage      = 70

	DefaultDifficulty = "Medium"
	DefaultCategory   = "General"
)

// JobRoles lists the roles offered on the setup form.
var JobRoles = []string{
	"Software Engineer",
	"Frontend Developer",
	"Backend Developer",
	"Full Stack Developer",
	"Data Scientist",
	"Data Analyst",
	"Product Manager",
	"UI/UX Designer",
	"DevOps Engineer",
	"System Administrator",
	"QA Engineer",
	"Business Analyst",
}

// DomainAreas maps each top-level domain to its sub-areas. Either a key or a
// sub-area is accepted as the setup domain.
var DomainAreas = map[string][]string{
	"Frontend":      {"React", "Angular", "Vue.js", "JavaScript", "CSS", "HTML"},
	"Backend":       {"Python", "Java", "Node.js", "C#", ".NET", "PHP"},
	"Database":      {"SQL", "MongoDB", "PostgreSQL", "Redis", "Elasticsearch"},
	"Cloud":         {"AWS", "Azure", "GCP", "Docker", "Kubernetes"},
	"Mobile":        {"React Native", "Flutter", "iOS", "Android"},
	"AI/ML":         {"Machine Learning", "Deep Learning", "NLP", "Computer Vision"},
	"System Design": {"Scalability", "Microservices", "Architecture", "Load Balancing"},
}

// DomainOrder keeps the setup form stable; map iteration is not.
var DomainOrder = []string{"Frontend", "Backend", "Database", "Cloud", "Mobile", "AI/ML", "System Design"}

var InterviewTypes = []InterviewType{InterviewTechnical, InterviewBehavioral, InterviewMixed}

var QuestionFormats = []QuestionFormat{FormatMCQ, FormatShortAnswer, FormatAIChoice}

var Difficulties = []string{"Easy", "Medium", "Hard"}

// Catalog is the setup form payload.
type Catalog struct {
	JobRoles        []string            `json:"job_roles"`
	Domains         []string            `json:"domains"`
	DomainAreas     map[string][]string `json:"domain_areas"`
	InterviewTypes  []InterviewType     `json:"interview_types"`
	QuestionFormats []QuestionFormat    `json:"question_types"`
	Difficulties    []string            `json:"difficulties"`
	MinQuestions    int                 `json:"min_questions"`
	MaxQuestions    int                 `json:"max_questions"`
	DefaultCount    int                 `json:"default_questions"`
}

// DefaultCatalog returns the built-in setup options.
func DefaultCatalog() Catalog {
	return Catalog{
		JobRoles:        JobRoles,
		Domains:         DomainOrder,
		DomainAreas:     DomainAreas,
		InterviewTypes:  InterviewTypes,
		QuestionFormats: QuestionFormats,
		Difficulties:    Difficulties,
		MinQuestions:    MinQuestions,
		MaxQuestions:    MaxQuestions,
		DefaultCount:    DefaultQuestions,
	}
}

func knownJobRole(role string) bool {
	for _, r := range JobRoles {
		if r == role {
			return true
		}
	}
	return false
}

func knownDomain(domain string) bool {
	if _, ok := DomainAreas[domain]; ok {
		return true
	}
	for _, areas := range DomainAreas {
		for _, a := range areas {
			if a == domain {
				return true
			}
		}
	}
	return false
}
