package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ats/internal/types"
)

func TestClean(t *testing.T) {
	input := &types.Skills{
		LanguagesFrameworks: []string{"python", "Python", "Spring", "spring boot", "JS", "Go/Golang"},
		Tools: []string{
			"docker", "Git", "Agile", "Kubernetes", "k8s",
			"Any one of AWS/GCP", "fastAPI", "terraform cloud", "javascript",
		},
	}

	got := Clean(input, nil)

	assert.Equal(t, []string{"Python", "Spring Boot", "Go, Golang"}, got.LanguagesFrameworks)
	assert.Equal(t, []string{"Docker", "Kubernetes", "fastAPI", "Terraform Cloud", "JavaScript"}, got.Tools)
	assert.Len(t, input.Tools, 9, "input must not change")
}

func TestClean_PreservesJobKeywords(t *testing.T) {
	input := &types.Skills{
		LanguagesFrameworks: []string{"Kubernetes", "k8s"},
		Tools:               []string{"Git", "SQL", "Scrum"},
	}

	got := Clean(input, []string{"GIT", "k8s", " sql "})

	assert.Equal(t, []string{"Kubernetes", "K8s"}, got.LanguagesFrameworks)
	assert.Equal(t, []string{"Git", "SQL"}, got.Tools)
}

func TestClean_DedupesAcrossContainers(t *testing.T) {
	got := Clean(&types.Skills{
		LanguagesFrameworks: []string{"Docker"},
		Tools:               []string{"docker", "  ", "Redis"},
	}, nil)

	assert.Equal(t, []string{"Docker"}, got.LanguagesFrameworks)
	assert.Equal(t, []string{"Redis"}, got.Tools)
}

func TestClean_Nil(t *testing.T) {
	assert.Nil(t, Clean(nil, []string{"go"}))
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgresql", "PostgreSQL"},
		{"ci cd", "CI/CD"},
		{"machine learning", "Machine Learning"},
		{"k8s cluster", "K8S Cluster"},
		{"gRPC", "gRPC"},
		{"FastAPI", "FastAPI"},
		{"html/css", "Html, Css"},
		{"  grpc ", "gRPC"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.in))
		})
	}
}

func TestMergeKeywords(t *testing.T) {
	input := &types.Skills{
		LanguagesFrameworks: []string{"Python"},
		Tools:               []string{"Docker"},
	}

	got, added := MergeKeywords(input, []string{"python", "TypeScript", "AWS Lambda", "Terraform", "Agile", "", "terraform", "Go"})

	assert.Equal(t, []string{"TypeScript", "AWS Lambda", "Terraform", "Go"}, added)
	assert.Equal(t, []string{"Python", "TypeScript", "AWS Lambda", "Go"}, got.LanguagesFrameworks)
	assert.Equal(t, []string{"Docker", "Terraform"}, got.Tools)
	assert.Equal(t, []string{"Python"}, input.LanguagesFrameworks, "input must not change")
}

func TestMergeKeywords_NilSkills(t *testing.T) {
	got, added := MergeKeywords(nil, []string{"Kafka"})
	require.NotNil(t, got)
	assert.Equal(t, []string{"Kafka"}, got.Tools)
	assert.Equal(t, []string{"Kafka"}, added)
}

func TestIsLanguage(t *testing.T) {
	assert.True(t, IsLanguage("Rust"))
	assert.True(t, IsLanguage("React Native"))
	assert.True(t, IsLanguage("Google Cloud"))
	assert.False(t, IsLanguage("Kafka"))
	assert.False(t, IsLanguage("Google BigQuery"))
}
