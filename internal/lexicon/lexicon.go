// Package lexicon holds the shared word lists and patterns used by the scorer,
// the bullet metrics extractor, the consolidation engine and the skills cleanup.
// Every table lives here once; bump Version whenever a table changes so score
// records produced under different tables can be told apart.
package lexicon

import "regexp"

// Version identifies the revision of the tables below
const Version = "2025.10.1"

// StrongActionVerbs are the verbs a STAR-formatted bullet is expected to start with.
var StrongActionVerbs = []string{
	"architected", "designed", "developed", "engineered", "led",
	"created", "built", "implemented", "managed", "spearheaded",
	"optimized", "improved", "increased", "decreased", "reduced",
	"delivered", "launched", "established", "transformed", "revolutionized",
	"orchestrated", "coordinated", "facilitated", "streamlined",
	"automated", "modernized", "scaled", "enhanced", "refactored",
}

// StrengthVerbs earn the strong-verb bonus in the bullet strength score.
// This is a deliberately narrower list than StrongActionVerbs.
var StrengthVerbs = []string{
	"architected", "engineered", "spearheaded", "optimized", "reduced",
	"increased", "led", "designed", "implemented",
}

// metricPatternSources is the ordered list of quantification patterns.
var metricPatternSources = []string{
	`\d+%`,
	`\$\d+[\d,]*`,
	`\d+\s*(K|k|M|m)`,
	`\d{1,3}(,\d{3})+`,
	`\d+\s*(users?|customers?|requests?|transactions?|API calls)`,
	`\d+\s*(million|billion|thousand)`,
	`~\d+%|\+\d+%|\d+\sx`,
}

// MetricPatterns are the compiled, case-insensitive quantification patterns in order.
var MetricPatterns = compileMetricPatterns()

func compileMetricPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(metricPatternSources))
	for i, src := range metricPatternSources {
		patterns[i] = regexp.MustCompile(`(?i)` + src)
	}
	return patterns
}

// WeakIndicators are passive or soft phrases that flag a bullet as weak.
var WeakIndicators = []string{
	"responsible for", "duties include", "helped with",
	"worked on", "assisted with", "participated in",
	"learned about", "gained experience", "soft skill",
	"team player", "good communication", "hard worker",
}

// KeywordAliases maps a lowercased required skill to abbreviations that count as a match.
var KeywordAliases = map[string][]string{
	"kubernetes":                  {"k8s", "kube"},
	"javascript":                  {"js"},
	"typescript":                  {"ts"},
	"postgresql":                  {"postgres", "psql"},
	"mongodb":                     {"mongo"},
	"node.js":                     {"nodejs", "node"},
	"react":                       {"reactjs", "react.js"},
	"amazon web services":         {"aws"},
	"aws":                         {"amazon web services"},
	"google cloud platform":       {"gcp", "google cloud"},
	"gcp":                         {"google cloud platform", "google cloud"},
	"microsoft azure":             {"azure"},
	"continuous integration":      {"ci/cd", "ci"},
	"ci/cd":                       {"continuous integration", "continuous delivery"},
	"machine learning":            {"ml"},
	"artificial intelligence":     {"ai"},
	"natural language processing": {"nlp"},
	"infrastructure as code":      {"iac", "terraform"},
}

// FillerSkills are generic terms dropped from the skills section unless the job asks for them.
var FillerSkills = map[string]bool{
	"agile methodologies": true, "agile": true, "scrum": true, "kanban": true,
	"solid": true, "design patterns": true, "system design patterns": true,
	"git": true, "github": true, "gitlab": true, "version control": true,
	"j2ee": true, "ioc": true, "aop": true, "mvc": true,
	"spring (mvc, ioc, aop, security)": true, "spring mvc": true, "spring aop": true, "spring ioc": true,
	"web-services": true, "web-services (json, soap)": true, "json, soap": true, "soap": true, "xml": true,
	"eclipse": true, "intellij": true, "myeclipse": true, "eclipse/myeclipse ide": true,
	"rdbms": true, "rdbms (oracle, postgres)": true, "sql": true,
	"maven/ant/gradle": true, "ant": true,
	"security": true, "security fundamentals": true, "security best practices": true,
	"html": true, "css": true, "html5": true, "css3": true,
	"oop": true, "oops": true, "oop concepts": true, "object-oriented": true,
	"data structures": true, "algorithms": true, "dsa": true,
	"team player": true, "communication": true,
}

// SkillRedundancies maps a canonical skill to variants that are redundant when it is present.
var SkillRedundancies = map[string][]string{
	"spring boot": {"spring", "spring framework", "spring mvc"},
	"react":       {"reactjs", "react.js"},
	"node.js":     {"nodejs", "node"},
	"typescript":  {"ts"},
	"javascript":  {"js"},
	"kubernetes":  {"k8s"},
	"postgresql":  {"postgres"},
	"mongodb":     {"mongo"},
	"aws":         {"amazon web services"},
	"gcp":         {"google cloud platform", "google cloud"},
	"azure":       {"microsoft azure"},
}

// SkillCapitalization maps lowercased skills to their conventional spelling.
var SkillCapitalization = map[string]string{
	"java": "Java", "javascript": "JavaScript", "typescript": "TypeScript",
	"python": "Python", "nodejs": "NodeJS", "node.js": "Node.js",
	"reactjs": "ReactJS", "react": "React", "angular": "Angular",
	"vue": "Vue", "vuejs": "VueJS", "nextjs": "Next.js",
	"spring boot": "Spring Boot", "spring": "Spring", "hibernate": "Hibernate",
	"aws": "AWS", "gcp": "GCP", "azure": "Azure",
	"docker": "Docker", "kubernetes": "Kubernetes", "k8s": "K8s",
	"mongodb": "MongoDB", "mysql": "MySQL", "postgresql": "PostgreSQL",
	"redis": "Redis", "kafka": "Kafka", "rabbitmq": "RabbitMQ",
	"graphql": "GraphQL", "rest": "REST", "grpc": "gRPC",
	"ci/cd": "CI/CD", "ci cd": "CI/CD", "jenkins": "Jenkins",
	"terraform": "Terraform", "ansible": "Ansible",
	"jira": "Jira", "confluence": "Confluence", "gitlab": "GitLab",
	"github": "GitHub", "bitbucket": "Bitbucket",
	"intellij": "IntelliJ", "vscode": "VSCode",
	"junit": "JUnit", "pytest": "PyTest", "selenium": "Selenium",
	"elasticsearch": "Elasticsearch", "kibana": "Kibana", "grafana": "Grafana",
	"prometheus": "Prometheus", "splunk": "Splunk", "datadog": "Datadog",
	"apache spark": "Apache Spark", "apache kafka": "Apache Kafka",
	"apache flink": "Apache Flink", "hadoop": "Hadoop", "hive": "Hive",
	"airflow": "Airflow", "mlflow": "MLflow",
	"nosql": "NoSQL", "sql": "SQL", "plsql": "PL/SQL",
	"oauth": "OAuth", "jwt": "JWT", "saml": "SAML",
	"solid": "SOLID", "oop": "OOP", "ddd": "DDD", "tdd": "TDD",
	"api": "API", "sdk": "SDK", "cli": "CLI",
	"json": "JSON", "xml": "XML", "yaml": "YAML",
	"html": "HTML", "css": "CSS", "sass": "SASS", "less": "LESS",
	"go": "Go", "golang": "Golang", "rust": "Rust", "kotlin": "Kotlin",
	"scala": "Scala", "c++": "C++", "c#": "C#",
	"fortify": "Fortify", "sonarqube": "SonarQube",
	"maven": "Maven", "gradle": "Gradle", "npm": "npm",
	"postman": "Postman", "swagger": "Swagger", "openapi": "OpenAPI",
}

// LanguageSkills are keywords that belong in the languages/frameworks container.
var LanguageSkills = map[string]bool{
	"python": true, "java": true, "javascript": true, "typescript": true,
	"go": true, "golang": true, "rust": true, "c++": true, "c#": true,
	"kotlin": true, "scala": true, "ruby": true, "php": true, "swift": true,
}

// FrameworkHints route a keyword to languages/frameworks when it contains one of them.
var FrameworkHints = []string{
	"python", "java", "javascript", "typescript", "react", "node",
	"spring", "django", "flask", "angular", "vue", "aws", "cloud",
}

// VariationStyles are extra instructions used when regeneration stalls on the same score.
var VariationStyles = []string{
	"Use completely different action verbs than before (try: orchestrated, spearheaded, pioneered, revolutionized, transformed, accelerated).",
	"Focus on different metrics than previous attempts (try: cost savings $, time reduction %, user growth #, revenue impact $).",
	"Emphasize a different aspect: leadership and mentoring in some bullets, technical depth in others.",
	"Use higher impact numbers than before (aim for 50%+, $1M+, 10x improvements).",
	"Reframe achievements from a business impact perspective rather than technical tasks.",
}
