package models

import "time"

// BirthdayLayout is the calendar-date layout used for birthdays on the wire.
const BirthdayLayout = "2006-01-02"

// User represents a stored user, including the password hash.
type User struct {
	ID             string
	Username       string
	PasswordHash   string
	Email          string
	Birthday       *time.Time
	FavoriteMovies []string
}

// UserUpdate carries every field PUT /users/:username replaces.
type UserUpdate struct {
	Username     string
	PasswordHash string
	Email        string
	Birthday     *time.Time
}

// RegisterRequest is the body of POST /users and PUT /users/:username.
type RegisterRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
	Email    string `json:"Email"`
	Birthday string `json:"Birthday"`
}

// LoginRequest holds credentials for POST /login, from a JSON body or the query string.
type LoginRequest struct {
	Username string `json:"Username" form:"Username"`
	Password string `json:"Password" form:"Password"`
}

// UserResponse is the only representation of a user written to clients.
type UserResponse struct {
	ID             string   `json:"_id"`
	Username       string   `json:"Username"`
	Email          string   `json:"Email"`
	Birthday       *string  `json:"Birthday,omitempty"`
	FavoriteMovies []string `json:"FavoriteMovies"`
}

// UpdateUserResponse is the updated user. Token is set when the username
// changed, since earlier tokens name the old user.
type UpdateUserResponse struct {
	UserResponse
	Token string `json:"token,omitempty"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// ToResponse shapes u for output, dropping the password hash.
func (u *User) ToResponse() UserResponse {
	resp := UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FavoriteMovies: u.FavoriteMovies,
	}
	if resp.FavoriteMovies == nil {
		resp.FavoriteMovies = []string{}
	}
	if u.Birthday != nil {
		b := u.Birthday.Format(BirthdayLayout)
		resp.Birthday = &b
	}
	return resp
}

// ParseBirthday accepts a calendar date or an RFC 3339 timestamp. An empty
// string yields nil.
func ParseBirthday(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(BirthdayLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, err
		}
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &t, nil
}
