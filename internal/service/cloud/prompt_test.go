package cloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt("Software Engineering", "Backend Developer", "Technical", "Advanced")
	assert.Contains(t, prompt, "Backend Developer")
	assert.Contains(t, prompt, "Software Engineering")
	assert.Contains(t, prompt, "Interview type: Technical")
	assert.Contains(t, prompt, "Difficulty: Advanced")
	assert.Contains(t, prompt, `"text_response"`)
	assert.Contains(t, prompt, `"voice_response"`)
	assert.Contains(t, prompt, "[END_INTERVIEW_INAPPROPRIATE_BEHAVIOR]")
}
