package auth

import (
	"errors"

	"classtrack/internal/store"
)

var (
	// ErrInvalidRole is returned for roles outside admin|teacher|student.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidCredentials covers both unknown user and wrong password;
	// callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Identity is the resolved caller attached to a request after login.
type Identity struct {
	UserID string
	Role   string
	Name   string
}

// Authenticate matches (userID, password) against the role's user list.
func Authenticate(doc *store.Document, userID, password, role string) (store.User, error) {
	var users []store.User
	switch role {
	case "admin":
		users = doc.Users.Admin
	case "teacher":
		users = doc.Users.Teachers
	case "student":
		users = doc.Users.Students
	default:
		return store.User{}, ErrInvalidRole
	}
	for _, u := range users {
		if u.UserID == userID && u.Password == password {
			return u, nil
		}
	}
	return store.User{}, ErrInvalidCredentials
}
