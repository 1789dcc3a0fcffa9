package coach

import (
	"context"
	"strings"
	"time"
)

// Reveal emits text one word per tick, the first after one interval. It stops
// when ctx is cancelled or emit fails. A non-positive interval emits every word
// at once.
func Reveal(ctx context.Context, text string, interval time.Duration, emit func(word string) error) error {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	if interval <= 0 {
		for _, word := range words {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := emit(word); err != nil {
				return err
			}
		}
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, word := range words {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(word); err != nil {
			return err
		}
	}

	return nil
}
