package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Python", "python"},
		{"  AWS ", "aws"},
		{"Node.js", "nodejs"},
		{"k8s", "kubernetes"},
		{"Go", "golang"},
		{"Postgres", "postgresql"},
		{"Elixir", "elixir"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestTechnologies_Catalog(t *testing.T) {
	assert.Len(t, Technologies, 23)
	for _, extra := range []string{"typescript", "golang", "mysql", "redis"} {
		assert.Contains(t, Technologies, extra)
	}
}

func TestMatches(t *testing.T) {
	required := []string{"python", "aws", "kubernetes"}

	assert.True(t, Matches("Python", required))
	assert.True(t, Matches("K8S", required))
	assert.False(t, Matches("java", required))
	assert.False(t, Matches("", required))
	assert.False(t, Matches("python", nil))
}

func TestFindTechnologies(t *testing.T) {
	text := "We need a Python developer with AWS, Docker and Node.js. Kubernetes (k8s) a plus."

	found := FindTechnologies(text)

	assert.Equal(t, []string{"python", "nodejs", "aws", "docker", "kubernetes"}, found)
}

func TestFindTechnologies_WordBoundaries(t *testing.T) {
	assert.Equal(t, []string{"javascript"}, FindTechnologies("Strong JavaScript skills"))
	assert.Empty(t, FindTechnologies("We mysqlize gitlabs"))
	assert.Empty(t, FindTechnologies(""))
}

func TestFindIndustryKeywords(t *testing.T) {
	text := "Agile team practicing CI/CD with a microservices architecture and REST APIs"

	found := FindIndustryKeywords(text)

	assert.Equal(t, []string{"agile", "ci/cd", "microservices", "rest"}, found)
}

func TestMentions(t *testing.T) {
	assert.True(t, Mentions("Built on PostgreSQL", "postgres"))
	assert.True(t, Mentions("deployed to aws lambda", "AWS"))
	assert.False(t, Mentions("awesome product", "aws"))
}
