package validation_test

import (
	"strings"
	"testing"

	"devtinder/internal/models"
	"devtinder/internal/validation"

	"github.com/stretchr/testify/assert"
)

func validSignUp() models.SignUpRequest {
	return models.SignUpRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		EmailID:   "ada@example.com",
		Password:  "Str0ng!Pass",
		Age:       28,
		Gender:    "Female",
		Skills:    []string{"go", "sql"},
	}
}

func TestSignUp(t *testing.T) {
	req := validSignUp()
	assert.True(t, validation.SignUp(&req).Valid)

	req = validSignUp()
	req.EmailID = "not-an-email"
	res := validation.SignUp(&req)
	assert.False(t, res.Valid)
	assert.Equal(t, "Invalid email format", res.Errors["emailId"])

	req = validSignUp()
	req.Password = "password"
	res = validation.SignUp(&req)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "password")

	req = validSignUp()
	req.Age = 61
	res = validation.SignUp(&req)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "age")

	req = validSignUp()
	req.Gender = "robot"
	res = validation.SignUp(&req)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "gender")

	req = validSignUp()
	req.Skills = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}
	res = validation.SignUp(&req)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "skills")

	req = validSignUp()
	req.Skills = []string{"go", "", "sql"}
	res = validation.SignUp(&req)
	assert.False(t, res.Valid)
	assert.Equal(t, "skills is required", res.Errors["skills"])

	req = validSignUp()
	req.Skills = []string{"go", strings.Repeat("x", 31)}
	res = validation.SignUp(&req)
	assert.False(t, res.Valid)
	assert.Equal(t, "skills must be at most 30", res.Errors["skills"])

	req = validSignUp()
	req.FirstName = "   "
	res = validation.SignUp(&req)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "firstName")
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, validation.IsStrongPassword("Abcdef1!"))
	assert.False(t, validation.IsStrongPassword("Abc1!"))
	assert.False(t, validation.IsStrongPassword("abcdefg1!"))
	assert.False(t, validation.IsStrongPassword("ABCDEFG1!"))
	assert.False(t, validation.IsStrongPassword("Abcdefgh!"))
	assert.False(t, validation.IsStrongPassword("Abcdefgh1"))
}

func TestEditProfileFields(t *testing.T) {
	assert.True(t, validation.EditProfileFields([]string{"firstName", "bio", "skills"}).Valid)

	res := validation.EditProfileFields([]string{"bio", "emailId", "password"})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "emailId")
	assert.Contains(t, res.Errors, "password")
}

func TestEditProfile(t *testing.T) {
	bio := "Gopher"
	assert.True(t, validation.EditProfile(&models.EditProfileRequest{Bio: &bio}).Valid)

	empty := " "
	res := validation.EditProfile(&models.EditProfileRequest{FirstName: &empty})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "firstName")

	zero := 0
	res = validation.EditProfile(&models.EditProfileRequest{Age: &zero})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "age")

	gender := "unknown"
	res = validation.EditProfile(&models.EditProfileRequest{Gender: &gender})
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "gender")
}

func TestUpdatePassword(t *testing.T) {
	assert.True(t, validation.UpdatePassword(&models.UpdatePasswordRequest{
		NewPassword: "N3w!Passw0rd", ConfirmPassword: "N3w!Passw0rd",
	}).Valid)

	res := validation.UpdatePassword(&models.UpdatePasswordRequest{
		NewPassword: "N3w!Passw0rd", ConfirmPassword: "Other!Passw0rd",
	})
	assert.False(t, res.Valid)
	assert.Equal(t, "Passwords do not match", res.Errors["confirmPassword"])
}
