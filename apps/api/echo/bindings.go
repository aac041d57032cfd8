package echoapi

import "github.com/go-playground/validator/v10"

type ShareResponse struct {
	Query string `json:"query"`
}

type ImportRequest struct {
	Query string `json:"query" validate:"required"`
}

func (r ImportRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}
