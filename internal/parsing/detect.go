package parsing

import (
	"regexp"
	"strconv"

	"github.com/jonathan/resume-ats/internal/types"
)

// DefaultYearsRequired is assumed when a posting states no experience requirement
const DefaultYearsRequired = 3

type seniorityRule struct {
	level    types.SeniorityLevel
	keywords []string
}

// checked in order; the first level with a keyword in the text wins
var seniorityRules = []seniorityRule{
	{types.SeniorityEntry, []string{"entry level", "junior", "intern", "trainee", "fresh graduate", "0-1 year", "0-2 years"}},
	{types.SeniorityJunior, []string{"associate", "1-2 years", "1-3 years", "entry", "early career"}},
	{types.SeniorityMid, []string{"mid-level", "mid level", "intermediate", "2-4 years", "2-5 years", "3-5 years"}},
	{types.SenioritySenior, []string{"senior", "sr.", "lead", "staff", "4-6 years", "5+ years", "5-7 years", "experienced"}},
	{types.SeniorityStaff, []string{"principal", "architect", "7+ years", "8+ years"}},
	{types.SeniorityPrincipal, []string{"distinguished", "fellow", "10+ years", "8-10 years"}},
	{types.SeniorityDirector, []string{"director", "head of", "vp", "chief", "executive", "manager"}},
}

var seniorityPatterns = compileSeniorityPatterns()

func compileSeniorityPatterns() [][]*regexp.Regexp {
	out := make([][]*regexp.Regexp, len(seniorityRules))
	for i, rule := range seniorityRules {
		for _, kw := range rule.keywords {
			out[i] = append(out[i], regexp.MustCompile(`(?i)(^|[^a-z0-9])`+regexp.QuoteMeta(kw)+`($|[^a-z0-9])`))
		}
	}
	return out
}

// DetectSeniority finds the seniority a posting targets from keywords,
// defaulting to mid. Keywords match on word boundaries so "internal" is
// not read as "intern".
func DetectSeniority(text string) types.SeniorityLevel {
	for i, patterns := range seniorityPatterns {
		for _, re := range patterns {
			if re.MatchString(text) {
				return seniorityRules[i].level
			}
		}
	}
	return types.SeniorityMid
}

var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s+of\s+experience`),
	regexp.MustCompile(`(?i)(\d+)\+?\s*-\s*\d+\+?\s*years?`),
	regexp.MustCompile(`(?i)minimum\s+of\s+(\d+)\s*years?`),
	regexp.MustCompile(`(?i)at\s+least\s+(\d+)\s*years?`),
}

// ExtractYears returns the years of experience a posting asks for
func ExtractYears(text string) int {
	for _, re := range yearsPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}
	return DefaultYearsRequired
}

var skillPattern = regexp.MustCompile(`(?i)\b(Python|Java|JavaScript|TypeScript|React|Angular|Vue|Node\.js|Go|Rust|C\+\+|C#|SQL|PostgreSQL|MongoDB|Redis|AWS|Azure|GCP|Docker|Kubernetes|Terraform|Jenkins|Git|Linux|Spring|Django|Flask|Express|GraphQL|REST|gRPC|Kafka|RabbitMQ|Elasticsearch|Prometheus|Grafana|TensorFlow|PyTorch|Machine Learning|AI|Data Science|iOS|Android|Swift|Kotlin|Flutter|React Native|CI/CD|Microservices|Serverless|Lambda|K8s)\b`)

// ExtractSkills lists well-known technical skills named in text, normalized
// and in order of first appearance
func ExtractSkills(text string) []string {
	return NormalizeSkills(skillPattern.FindAllString(text, -1))
}
