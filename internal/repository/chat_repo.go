package repository

import (
	"context"

	"github.com/tritonlifts/api/internal/models"
)

type ChatRepository struct {
	db DBTX
}

func NewChatRepository(db DBTX) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(
	ctx context.Context,
	userID int64,
	prompt string,
	response string,
) (*models.ChatExchange, error) {
	query := `
		INSERT INTO "Chat_History" (user_id, user_prompt_text, generated_response)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, user_prompt_text, generated_response, created_at
	`

	var exchange models.ChatExchange
	err := r.db.QueryRow(ctx, query, userID, prompt, response).Scan(
		&exchange.ID,
		&exchange.UserID,
		&exchange.Prompt,
		&exchange.Response,
		&exchange.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &exchange, nil
}

func (r *ChatRepository) ListByUser(
	ctx context.Context,
	userID int64,
	limit int,
	offset int,
) ([]models.ChatExchange, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM "Chat_History"
		WHERE user_id = $1
	`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, user_prompt_text, generated_response, created_at
		FROM "Chat_History"
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	exchanges := make([]models.ChatExchange, 0)
	for rows.Next() {
		var exchange models.ChatExchange
		if err := rows.Scan(
			&exchange.ID,
			&exchange.UserID,
			&exchange.Prompt,
			&exchange.Response,
			&exchange.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		exchanges = append(exchanges, exchange)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return exchanges, total, nil
}
