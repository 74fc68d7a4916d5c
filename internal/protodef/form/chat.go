package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxUserMessageLength = 4000

	ErrSessionIDMsg = "sessionId is required"
	ErrMessageMsg   = "userMessage is required"
	ErrMessageLen   = "userMessage too long"
)

type ChatForm struct {
	SessionID   string `json:"sessionId" form:"sessionId"`
	UserMessage string `json:"userMessage" form:"userMessage"`
}

func (f *ChatForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.SessionID, validation.Required.Error(ErrSessionIDMsg)),
		validation.Field(&f.UserMessage, validation.Required.Error(ErrMessageMsg), validation.Length(1, MaxUserMessageLength).Error(ErrMessageLen)),
	)
}
