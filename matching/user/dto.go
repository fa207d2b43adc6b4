package user

import "github.com/Abraxas-365/resumatch/pkg/kernel"

type SignupRequest struct {
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Email     string       `json:"email"`
	PhoneNum  kernel.Phone `json:"phoneNum"`
	Password  string       `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Profile struct {
	FirstName kernel.FirstName `json:"firstName"`
	LastName  kernel.LastName  `json:"lastName"`
	Email     kernel.Email     `json:"email"`
}

type AuthResponse struct {
	Message string  `json:"message"`
	Token   string  `json:"token"`
	User    Profile `json:"user"`
}

type MeResponse struct {
	User Profile `json:"user"`
}
