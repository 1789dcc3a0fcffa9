package models

// User is a row of User_Details. Users are created outside this service and
// never mutated by it.
type User struct {
	ID     int64    `json:"id"`
	Email  string   `json:"email"`
	Height *float64 `json:"height"`
	Weight *float64 `json:"weight"`
}
