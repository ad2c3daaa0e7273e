package utils

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phoneRegex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)
)

const passwordSpecials = "@$!%*?&"

var registerOnce sync.Once

// RegisterValidators installs the custom validation tags on gin's binding engine.
// Field errors report the label tag when present, otherwise the json name.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin binding engine is not go-playground/validator")
			return
		}
		err = registerOn(v)
	})
	return err
}

func registerOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	tags := map[string]validator.Func{
		"phone_e164":      func(fl validator.FieldLevel) bool { return IsValidPhone(fl.Field().String()) },
		"account_email":   func(fl validator.FieldLevel) bool { return IsValidEmail(fl.Field().String()) },
		"strong_password": func(fl validator.FieldLevel) bool { return IsStrongPassword(fl.Field().String()) },
		"creeltype": func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "O" || s == "U"
		},
		"whole": func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return f == math.Trunc(f)
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// IsValidPhone checks for an E.164 number with country code
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// IsValidEmail checks the account email format
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsStrongPassword requires at least 6 characters from letters, digits and @$!%*?&,
// with at least one of each class.
func IsStrongPassword(s string) bool {
	if len(s) < 6 {
		return false
	}
	var letter, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return letter && digit && special
}

// ValidationMessage turns a binding error into the message shown to the user
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", strings.ReplaceAll(field, "_", " "))
	case "phone_e164":
		return "Invalid phone number format. Please include country code."
	case "account_email", "email":
		return "Invalid email format!"
	case "strong_password":
		return "Password must be at least 6 characters long, contain a number and a special character."
	case "creeltype":
		return "Invalid Creel Type. Allowed values are 'O' and 'U'."
	case "gt":
		return fmt.Sprintf("%s must be a positive number.", field)
	case "whole":
		return fmt.Sprintf("%s must be a whole number.", field)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s.", strings.ReplaceAll(field, "_", " "), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be between the allowed limits.", strings.ReplaceAll(field, "_", " "))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", strings.ReplaceAll(field, "_", " "), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", strings.ReplaceAll(field, "_", " "))
	}
}
