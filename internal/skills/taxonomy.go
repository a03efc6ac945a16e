// Package skills extracts skills from résumé text and scores skill sets
// against a fixed taxonomy of skill categories.
package skills

import "regexp"

// Category is a named group of reference skills
type Category struct {
	Name   string
	Skills []string
}

// taxonomy is initialized once and never mutated; concurrent reads are safe.
var taxonomy = []Category{
	{Name: "Programming Languages", Skills: []string{"Python", "Java", "JavaScript", "TypeScript", "C++", "Go", "Rust", "Swift", "Kotlin"}},
	{Name: "Frontend", Skills: []string{"React", "Vue", "Angular", "HTML", "CSS", "Tailwind CSS", "Next.js", "Redux"}},
	{Name: "Backend", Skills: []string{"Node.js", "Django", "Flask", "FastAPI", "Spring Boot", "Express.js", "REST API", "GraphQL"}},
	{Name: "Databases", Skills: []string{"PostgreSQL", "MongoDB", "MySQL", "Redis", "Elasticsearch", "SQL", "NoSQL"}},
	{Name: "Cloud & DevOps", Skills: []string{"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform", "CI/CD", "Jenkins", "Git"}},
	{Name: "Data Science", Skills: []string{"Machine Learning", "Deep Learning", "Data Science", "AI", "NLP", "TensorFlow", "PyTorch", "Pandas"}},
	{Name: "Tools & Others", Skills: []string{"Git", "Linux", "Agile", "Scrum", "Microservices", "System Design"}},
}

// Categories returns a copy of the taxonomy in declaration order.
func Categories() []Category {
	out := make([]Category, len(taxonomy))
	for i, c := range taxonomy {
		out[i] = Category{Name: c.Name, Skills: append([]string(nil), c.Skills...)}
	}
	return out
}

// skillKeywords are matched as lowercase substrings of recognized entities.
var skillKeywords = []string{
	"python", "java", "javascript", "react", "node", "aws", "docker",
	"kubernetes", "sql", "mongodb", "postgresql", "git", "linux",
	"agile", "scrum", "machine learning", "ai", "data science",
	"typescript", "angular", "vue", "django", "flask", "fastapi",
	"html", "css", "tailwind", "bootstrap", "redux", "graphql",
	"rest api", "microservices", "ci/cd", "jenkins", "terraform",
	"azure", "gcp", "redis", "elasticsearch", "kafka", "spark",
}

// skillPatterns is the fixed pattern library, one group per skill domain.
// Matching is case-insensitive; matches keep the casing found in the text.
var skillPatterns = []*regexp.Regexp{
	// languages
	regexp.MustCompile(`(?i)\b(?:Python|Java|JavaScript|TypeScript|Golang|Rust|Kotlin|Swift|Scala|Ruby|PHP)\b|\bC\+\+|\bC#`),
	// frontend
	regexp.MustCompile(`(?i)\b(?:React|Angular|Vue(?:\.js)?|Next\.js|Redux|HTML5?|CSS3?|Tailwind(?: CSS)?|Bootstrap)\b`),
	// backend
	regexp.MustCompile(`(?i)\b(?:Node\.js|Django|Flask|FastAPI|Spring Boot|Express\.js|GraphQL|REST API|Microservices)\b`),
	// databases
	regexp.MustCompile(`(?i)\b(?:SQL|MySQL|PostgreSQL|MongoDB|Redis|Elasticsearch|NoSQL|Kafka)\b`),
	// cloud and devops
	regexp.MustCompile(`(?i)\b(?:AWS|Azure|GCP|Docker|Kubernetes|Terraform|Jenkins|CI/CD)\b`),
	// data science
	regexp.MustCompile(`(?i)\b(?:Machine Learning|Deep Learning|Data Science|AI|NLP|Computer Vision|TensorFlow|PyTorch|Pandas|Spark)\b`),
	// tooling
	regexp.MustCompile(`(?i)\b(?:Git|Linux|Agile|Scrum|Jira|System Design)\b`),
}
