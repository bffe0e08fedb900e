package auth

type loginRequest struct {
	UserName string `json:"userName" validate:"required,min=4"`
	Password string `json:"password" validate:"required,min=4"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// RegisterForm is the account a user asks for. BirthDate is YYYY-MM-DD.
type RegisterForm struct {
	UserName  string `json:"userName"            validate:"required"`
	Password  string `json:"password"            validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender    int    `json:"gender"              validate:"gte=0"`
	Address   string `json:"address"`
}
