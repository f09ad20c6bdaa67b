package dto

// bcrypt only hashes the first 72 bytes of a password.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateBookingRequest carries the date as YYYY-MM-DD or RFC 3339 and the
// time as 24-hour H:mm / HH:mm.
type CreateBookingRequest struct {
	Date           string `json:"date" validate:"required"`
	Time           string `json:"time" validate:"required,hhmm"`
	NumberOfPeople int    `json:"number_of_people" validate:"gte=1"`
}
