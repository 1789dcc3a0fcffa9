package services

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrMissingInput  = errors.New("missing input")
	ErrInvalidNumber = errors.New("invalid number")
	ErrNotFound      = errors.New("not found")
	ErrUserNotFound  = errors.New("user not found")
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
