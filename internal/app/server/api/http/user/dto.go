package user

import "clubmembers/internal/domain/user"

type registerInput struct {
	Body user.BaseRequest
}

type registerOutput struct {
	Body RegisterResponse
}

type RegisterResponse struct {
	UID    string `json:"uid" doc:"Owner identity of the new user"`
	Status string `json:"status"`
}

type loginInput struct {
	Body user.BaseRequest
}

type loginOutput struct {
	Body LoginResponse
}

type LoginResponse struct {
	Token  string `json:"token"`
	UID    string `json:"uid"`
	Status string `json:"status"`
}

type logoutInput struct {
	Authorization string `header:"Authorization"`
}
