package coach

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Profile is the body context added to every prompt. Nil means unknown.
type Profile struct {
	Height *float64
	Weight *float64
}

func formatMeasure(value *float64) string {
	if value == nil {
		return "unknown"
	}
	return formatNumber(*value)
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// AskPrompt builds the question prompt. Groups missing from volumes read 0.
func AskPrompt(profile Profile, volumes map[string]float64, groups []string, wordBudget int, question string) string {
	lifted := "nothing"
	if len(groups) > 0 {
		parts := make([]string, 0, len(groups))
		for _, group := range groups {
			parts = append(parts, formatNumber(volumes[group])+" on "+group)
		}
		lifted = joinList(parts)
	}

	return fmt.Sprintf(
		"Hey, my height is %s and my weight is %s.\nTill today I lifted %s.\nAnswer this in under %d words: \"%s\"",
		formatMeasure(profile.Height),
		formatMeasure(profile.Weight),
		lifted,
		wordBudget,
		question,
	)
}

// HeatmapPrompt asks the model to describe a heat map image of the trained
// muscle groups.
func HeatmapPrompt(profile Profile, groups []string) string {
	emphasis := "the most trained muscle groups"
	if len(groups) > 0 {
		lower := make([]string, 0, len(groups))
		for _, group := range groups {
			lower = append(lower, strings.ToLower(group))
		}
		emphasis = joinList(lower)
	}

	return fmt.Sprintf(
		"Generate a vivid and descriptive image prompt for a fitness heat map showing which muscles have been worked the most based on a user's weekly volume. Emphasize %s as high intensity. User height: %s, weight: %s.",
		emphasis,
		formatMeasure(profile.Height),
		formatMeasure(profile.Weight),
	)
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// ImageURL appends the description to the image service base, encoded the
// way browsers encode a URI component.
func ImageURL(base, description string) string {
	return base + uriComponentUnescaper.Replace(url.QueryEscape(description))
}

// TruncateWords keeps at most budget whitespace separated words.
func TruncateWords(text string, budget int) string {
	words := strings.Fields(text)
	if budget > 0 && len(words) > budget {
		words = words[:budget]
	}
	return strings.Join(words, " ")
}
