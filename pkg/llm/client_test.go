package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain JSON unchanged", `{"sentiment":"positive"}`, `{"sentiment":"positive"}`},
		{"strips json fenced block", "```json\n{\"score\":70}\n```", `{"score":70}`},
		{"strips plain fenced block", "```\n{\"score\":70}\n```", `{"score":70}`},
		{"drops surrounding prose", "النتيجة: {\"score\":10} شكراً", `{"score":10}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSON(tt.input))
		})
	}
}

func TestNew_ProviderSelection(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, "disabled", c.Model())

	c, err = New(Config{Provider: "openai"})
	require.NoError(t, err)
	assert.IsType(t, Disabled{}, c)

	c, err = New(Config{Provider: "openai", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, c.Model())

	c, err = New(Config{Provider: "Anthropic", APIKey: "k", Model: "claude-x"})
	require.NoError(t, err)
	assert.Equal(t, "claude-x", c.Model())

	_, err = New(Config{Provider: "mystery", APIKey: "k"})
	assert.Error(t, err)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Complete(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrDisabled)
}
