package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"ChatGPT":              "chatgpt",
		"Notion AI":            "notion-ai",
		"  GPT-4 Turbo  ":      "gpt-4-turbo",
		"Stable Diffusion XL!": "stable-diffusion-xl",
		"a__b..c":              "a-b-c",
		"---":                  "tool",
		"":                     "tool",
		"日本語ツール":               "tool",
		"50% Off Deals":        "50-off-deals",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}
