package user

import "time"

// User администратор клуба. UID используется как владелец записей участников.
type User struct {
	UID       string
	Email     string
	Password  string // хэш
	CreatedAt time.Time
}

type BaseRequest struct {
	Email    string `json:"email" format:"email" doc:"Email администратора"`
	Password string `json:"password" minLength:"8" maxLength:"72"`
}
