package models

import "time"

// ChatExchange is a single question and answer with the AI coach.
type ChatExchange struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Prompt    string    `json:"user_prompt_text"`
	Response  string    `json:"generated_response"`
	CreatedAt time.Time `json:"created_at"`
}
