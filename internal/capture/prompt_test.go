package capture

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePromptExtractsInlineOptions(t *testing.T) {
	req := NormalizePrompt([]string{
		"build", "checkout", "workflow",
		"--step", "open homepage",
		"--step", "submit order",
		"--model", "gpt-4.1",
	}, Options{})

	assert.Equal(t, "build checkout workflow", req.Prompt)
	assert.Equal(t, "gpt-4.1", req.Model)
	assert.Equal(t, []string{"open homepage", "submit order"}, req.Steps)
	assert.Empty(t, req.Session)
}

func TestNormalizePromptOptionSteps(t *testing.T) {
	req := NormalizePrompt([]string{"build", "checkout", "workflow"}, Options{
		Steps: []string{"capture login", "extract invoice"},
	})

	assert.Equal(t, "build checkout workflow", req.Prompt)
	assert.Equal(t, []string{"capture login", "extract invoice"}, req.Steps)
}

func TestNormalizePromptOptionStepsComeFirst(t *testing.T) {
	req := NormalizePrompt([]string{"search", "--step", "type query"}, Options{Steps: []string{"open site"}})
	assert.Equal(t, []string{"open site", "type query"}, req.Steps)
}

func TestNormalizePromptInlineOverridesOptions(t *testing.T) {
	req := NormalizePrompt([]string{"-s", "work", "find", "flights", "-m", "fast"}, Options{Model: "slow", Session: "other"})

	assert.Equal(t, "find flights", req.Prompt)
	assert.Equal(t, "work", req.Session)
	assert.Equal(t, "fast", req.Model)
	assert.Nil(t, req.Steps)
}

func TestNormalizePromptFlagWithoutValue(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"trailing model", []string{"find", "flights", "--model"}, "find flights --model"},
		{"empty value", []string{"find", "--session", ""}, "find --session"},
		{"only spaces", []string{"  ", ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NormalizePrompt(tt.parts, Options{})
			assert.Equal(t, tt.want, req.Prompt)
			assert.Empty(t, req.Model)
			assert.Empty(t, req.Session)
		})
	}
}

func TestNormalizePromptIsIdempotent(t *testing.T) {
	inputs := []struct {
		parts []string
		opts  Options
	}{
		{[]string{"build", "checkout", "workflow", "--step", "open homepage", "--step", "submit order", "--model", "gpt-4.1"}, Options{}},
		{[]string{"-s", "work", "export", "invoices"}, Options{Steps: []string{"login"}}},
		{[]string{"scrape", "prices", "--model"}, Options{Model: "fast"}},
		{[]string{"  padded  ", "prompt "}, Options{}},
	}

	for _, in := range inputs {
		first := NormalizePrompt(in.parts, in.opts)
		again := Options{Model: first.Model, Session: first.Session, Steps: first.Steps}

		asOne := NormalizePrompt([]string{first.Prompt}, again)
		assert.Equal(t, first, asOne)

		asWords := NormalizePrompt(strings.Fields(first.Prompt), again)
		assert.Equal(t, first.Model, asWords.Model)
		assert.Equal(t, first.Session, asWords.Session)
		assert.Equal(t, first.Steps, asWords.Steps)
	}
}

func TestUserError(t *testing.T) {
	err := &UserError{Message: "No requests recorded", Hint: "Navigate to a page first."}
	assert.EqualError(t, err, "No requests recorded")
	assert.Equal(t, "Navigate to a page first.", err.Remediation())
}
