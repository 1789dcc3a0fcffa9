package repository

import (
	"context"

	"github.com/tritonlifts/api/internal/models"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, height, weight
		FROM "User_Details"
		WHERE lower(email) = lower($1)
		ORDER BY id
		LIMIT 1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.Height, &user.Weight)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, email, height, weight
		FROM "User_Details"
		WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.Email, &user.Height, &user.Weight)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
