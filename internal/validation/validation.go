// Package validation checks request payloads before any entity is built from them.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"devtinder/internal/models"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password accepted by the strongpassword tag.
const MinPasswordLength = 8

// Result is the outcome of validating a payload. Errors maps JSON field names to messages.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

func ok() Result { return Result{Valid: true} }

func (r *Result) add(field, msg string) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	if _, exists := r.Errors[field]; !exists {
		r.Errors[field] = msg
	}
	r.Valid = false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return models.IsValidGender(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	return v
}

// IsStrongPassword requires at least MinPasswordLength characters including an upper case
// letter, a lower case letter, a digit and a symbol.
func IsStrongPassword(pw string) bool {
	if len([]rune(pw)) < MinPasswordLength {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// Struct validates s with its validate tags.
func Struct(s interface{}) Result {
	res := ok()
	err := validate.Struct(s)
	if err == nil {
		return res
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.add("body", err.Error())
		return res
	}
	for _, e := range verrs {
		field := fieldName(e)
		res.add(field, message(e, field))
	}
	return res
}

// fieldName drops the struct prefix and any dive index, e.g. "SignUpRequest.skills[2]" -> "skills".
func fieldName(e validator.FieldError) string {
	name := e.Namespace()
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	return name
}

func message(e validator.FieldError, field string) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email format"
	case "gender":
		return fmt.Sprintf("Gender must be one of %s", strings.Join(models.Genders, ", "))
	case "strongpassword":
		return fmt.Sprintf("Password must be at least %d characters and include upper case, lower case, a number and a symbol", MinPasswordLength)
	case "eqfield":
		return "Passwords do not match"
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	}
	return fmt.Sprintf("Field '%s' failed on the '%s' tag", field, e.Tag())
}

// SignUp validates a signup payload.
func SignUp(req *models.SignUpRequest) Result {
	res := Struct(req)
	if strings.TrimSpace(req.FirstName) == "" {
		res.add("firstName", "firstName is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		res.add("lastName", "lastName is required")
	}
	return res
}

// Login validates a login payload.
func Login(req *models.LoginRequest) Result {
	return Struct(req)
}

// EditProfileFields checks that every key of an edit payload is editable.
// Credentials and email can never be changed through a profile edit.
func EditProfileFields(keys []string) Result {
	res := ok()
	allowed := make(map[string]bool, len(models.EditableProfileFields))
	for _, f := range models.EditableProfileFields {
		allowed[f] = true
	}
	for _, k := range keys {
		if !allowed[k] {
			res.add(k, fmt.Sprintf("%s cannot be edited", k))
		}
	}
	return res
}

// EditProfile validates the fields present in an edit payload.
func EditProfile(req *models.EditProfileRequest) Result {
	res := Struct(req)
	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "" {
		res.add("firstName", "First name is required")
	}
	if req.LastName != nil && strings.TrimSpace(*req.LastName) == "" {
		res.add("lastName", "Last name is required")
	}
	if req.Age != nil && (*req.Age < models.MinAge || *req.Age > models.MaxAge) {
		res.add("age", fmt.Sprintf("Age must be between %d-%d", models.MinAge, models.MaxAge))
	}
	if req.Gender != nil && !models.IsValidGender(*req.Gender) {
		res.add("gender", "Valid gender is required")
	}
	return res
}

// UpdatePassword validates a password change payload.
func UpdatePassword(req *models.UpdatePasswordRequest) Result {
	return Struct(req)
}
