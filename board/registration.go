package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Registration holds what a new user must provide, both the web form and
// the users cli command check it before hashing the password.
type Registration struct {
	Username string `validate:"required,max=64"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required"`
}

var validate = validator.New()

// Validate returns validator.ValidationErrors describing the first
// problems found in r
func (r Registration) Validate() error {
	return validate.Struct(r)
}

// DescribeValidation turns the first validation failure of err into a
// message fit for end users
func DescribeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid form"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%v is required", field)
	case "email":
		return fmt.Sprintf("%v is not a valid email address", field)
	case "max":
		return fmt.Sprintf("%v is too long", field)
	}
	return fmt.Sprintf("%v is not valid", field)
}
