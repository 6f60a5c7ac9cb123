package models

// UserInput is used both for self-registration and for admin-created
// accounts. Password is sent once and never kept in any cache.
type UserInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Role     Role   `validate:"required,oneof=user admin"`
}
