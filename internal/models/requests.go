package models

// SignUpRequest is the body of POST /signUp.
type SignUpRequest struct {
	FirstName string   `json:"firstName" validate:"required,max=50"`
	LastName  string   `json:"lastName" validate:"required,max=50"`
	EmailID   string   `json:"emailId" validate:"required,email"`
	Password  string   `json:"password" validate:"required,strongpassword"`
	Age       int      `json:"age" validate:"required,min=18,max=60"`
	Gender    string   `json:"gender" validate:"required,gender"`
	PhotoURL  string   `json:"photo" validate:"omitempty,url"`
	Bio       string   `json:"bio" validate:"omitempty,max=500"`
	Skills    []string `json:"skills" validate:"omitempty,max=10,dive,required,max=30"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	LoggedEmail string `json:"loggedEmail" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

// EditProfileRequest is the body of PATCH /profile/edit. Nil fields are left unchanged.
type EditProfileRequest struct {
	FirstName *string   `json:"firstName" validate:"omitempty,min=1,max=50"`
	LastName  *string   `json:"lastName" validate:"omitempty,min=1,max=50"`
	Age       *int      `json:"age" validate:"omitempty,min=18,max=60"`
	Gender    *string   `json:"gender" validate:"omitempty,gender"`
	PhotoURL  *string   `json:"photo" validate:"omitempty,url"`
	Bio       *string   `json:"bio" validate:"omitempty,max=500"`
	Skills    *[]string `json:"skills" validate:"omitempty,max=10,dive,required,max=30"`
}

// EditableProfileFields are the only keys PATCH /profile/edit accepts.
var EditableProfileFields = []string{"firstName", "lastName", "age", "gender", "photo", "bio", "skills"}

// UpdatePasswordRequest is the body of PATCH /profile/update-password.
type UpdatePasswordRequest struct {
	NewPassword     string `json:"newPassword" validate:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}
