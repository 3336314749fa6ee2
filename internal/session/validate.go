package session

import (
	"regexp"

	"github.com/hongminglow/clevo-client/internal/clienterr"
	"github.com/hongminglow/clevo-client/internal/models/dto"
	"github.com/hongminglow/clevo-client/internal/validation"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var registrationMessages = validation.Messages{
	"Username":    "Username is required",
	"Email":       "Email is required",
	"Password":    "Password is required",
	"Role":        "Role must be CITIZEN, RECYCLER or AUTHORITY",
	"FirstName":   "First name is required",
	"LastName":    "Last name is required",
	"Address":     "Address is required",
	"PhoneNumber": "Phone number is required",
	"WardID":      "Ward is required for citizens",
}

// ValidateRegistration checks req before it is sent and returns the trimmed
// payload. The password is never trimmed.
func ValidateRegistration(req dto.RegisterRequest) (dto.RegisterRequest, error) {
	req = validation.TrimStrings(req, "Password")
	if err := validation.Struct(req, registrationMessages); err != nil {
		return req, err
	}
	if !emailPattern.MatchString(req.Email) {
		return req, clienterr.NewValidation("email", "Please enter a valid email address")
	}
	return req, nil
}
