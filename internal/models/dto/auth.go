package dto

import (
	"encoding/json"

	"github.com/hongminglow/clevo-client/internal/models"
)

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for POST /auth/register.
// WardID is required for citizens and must be omitted for other roles.
type RegisterRequest struct {
	Username    string      `json:"username" validate:"required"`
	Email       string      `json:"email" validate:"required"`
	Password    string      `json:"password" validate:"required"`
	Role        models.Role `json:"role" validate:"oneof=CITIZEN RECYCLER AUTHORITY"`
	FirstName   string      `json:"firstName" validate:"required"`
	LastName    string      `json:"lastName" validate:"required"`
	Address     string      `json:"address" validate:"required"`
	PhoneNumber string      `json:"phoneNumber" validate:"required"`
	WardID      string      `json:"wardId,omitempty" validate:"required_if=Role CITIZEN"`
}

// Payload returns the request as sent over the wire: WardID is dropped for
// non-citizen roles.
func (r RegisterRequest) Payload() RegisterRequest {
	if r.Role != models.Citizen {
		r.WardID = ""
	}
	return r
}

// AuthResponse is the body returned by the auth endpoints. Token and User are
// optional; any field the client does not know about is kept in Extra.
type AuthResponse struct {
	Token   *string                    `json:"-"`
	User    *models.User               `json:"-"`
	Message string                     `json:"-"`
	Extra   map[string]json.RawMessage `json:"-"`
}

// HasSession reports whether the response carries a non-empty token.
func (r AuthResponse) HasSession() bool {
	return r.Token != nil && *r.Token != ""
}

// UnmarshalJSON decodes the known fields and stashes the rest in Extra.
func (r *AuthResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := AuthResponse{}
	if v, ok := raw["token"]; ok {
		var token *string
		if err := json.Unmarshal(v, &token); err != nil {
			return err
		}
		out.Token = token
		delete(raw, "token")
	}
	if v, ok := raw["user"]; ok {
		var user *models.User
		if err := json.Unmarshal(v, &user); err != nil {
			return err
		}
		out.User = user
		delete(raw, "user")
	}
	if v, ok := raw["message"]; ok {
		// non-string messages stay in Extra
		if err := json.Unmarshal(v, &out.Message); err == nil {
			delete(raw, "message")
		}
	}
	if len(raw) > 0 {
		out.Extra = raw
	}
	*r = out
	return nil
}

// MarshalJSON flattens the known fields and Extra back into one object.
func (r AuthResponse) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+3)
	for k, v := range r.Extra {
		out[k] = v
	}
	if r.Token != nil {
		out["token"] = *r.Token
	}
	if r.User != nil {
		out["user"] = r.User
	}
	if r.Message != "" {
		out["message"] = r.Message
	}
	return json.Marshal(out)
}
