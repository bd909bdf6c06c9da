package entity

import (
	"net/http"

	"TicketBot/internal/lib/validate"
)

// Operator is an authenticated caller of the operator API.
type Operator struct {
	Username string `json:"username" bson:"username" validate:"required"`
	Token    string `json:"-" bson:"token"`
}

type KeyRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
}

func (k *KeyRequest) Bind(_ *http.Request) error {
	return validate.Struct(k)
}
