package coach

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func splitWords(s string) []string {
	return strings.Fields(s)
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "a b c", TruncateWords("a  b\nc d e", 3))
	assert.Equal(t, "a b", TruncateWords(" a b ", 10))
	assert.Equal(t, "", TruncateWords("   ", 3))
}

func TestImageURLEncodesLikeURIComponent(t *testing.T) {
	got := ImageURL("https://img/prompt/", "red (hot) muscles: 100% + more*'")
	assert.Equal(t, "https://img/prompt/red%20(hot)%20muscles%3A%20100%25%20%2B%20more*'", got)
}

func TestAskPromptCustomGroups(t *testing.T) {
	prompt := AskPrompt(Profile{}, map[string]float64{"Back": 10}, []string{"Back", "Legs"}, 30, "q")
	assert.Contains(t, prompt, "Till today I lifted 10 on Back and 0 on Legs.")
	assert.Contains(t, prompt, "Answer this in under 30 words: \"q\"")

	prompt = AskPrompt(Profile{}, nil, nil, 30, "q")
	assert.Contains(t, prompt, "Till today I lifted nothing.")
}
