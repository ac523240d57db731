package board

import "fmt"

type (
	DuplicateUser struct {
		Field string
	}

	UserNotFound struct {
		Email string
		ID    int64
	}
)

func (d DuplicateUser) Error() string {
	switch d.Field {
	case "email":
		return "email already registered"
	case "username":
		return "username already taken"
	}
	return fmt.Sprintf("user with the same %v already exists", d.Field)
}

func (u UserNotFound) Error() string {
	if u.Email != "" {
		return fmt.Sprintf("user with email %v not found", u.Email)
	}
	return fmt.Sprintf("user %v not found", u.ID)
}
