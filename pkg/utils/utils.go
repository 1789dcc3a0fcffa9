package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrBlank      = errors.New("value is blank")
	ErrNotNumeric = errors.New("value is not numeric")
)

// ParseFloat coerces user typed text into a finite float64.
func ParseFloat(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, ErrBlank
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, ErrNotNumeric
	}

	return parsed, nil
}

// ParseInt coerces user typed text into a whole number.
func ParseInt(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, ErrBlank
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, ErrNotNumeric
	}

	return parsed, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
