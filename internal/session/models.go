package session

import "github.com/mehmetcc/moviedesk/internal/token"

// Screen is the top-level view mounted for the current session.
type Screen string

const (
	LoginScreen    Screen = "login"
	RegisterScreen Screen = "register"
	ConsumerScreen Screen = "consumer"
	AdminScreen    Screen = "admin"
)

func (s Screen) Authenticated() bool {
	return s == ConsumerScreen || s == AdminScreen
}

// Summary is a read-only snapshot of the session.
type Summary struct {
	Screen        Screen     `json:"screen"`
	Authenticated bool       `json:"authenticated"`
	Role          token.Role `json:"role,omitempty"`
	Notice        string     `json:"notice,omitempty"`
}

const registeredNotice = "Account created successfully. You can login now."
