package validator

import (
	"regexp"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// emailRegex is deliberately loose: one @, no whitespace, a dot in the
// domain. Real verification happens via the emailed token.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidateRegister(username, email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 2 || len(username) > 30 {
		errs.Add("username", "Username must be 2-30 characters")
	}

	validateEmail(email, errs)

	if len(password) < 6 {
		errs.Add("password", "Password must be at least 6 characters")
	}

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, errs)

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateBot(name string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(name) == "" {
		errs.Add("name", "Name is required")
	}

	return errs
}

func validateEmail(email string, errs ValidationErrors) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		errs.Add("email", "Email is required")
	} else if !emailRegex.MatchString(email) {
		errs.Add("email", "Please enter a real email address.")
	}
}
