package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxSpeechTextLength = 5000

	DefaultVoiceStyle = "male"

	ErrTextMsg       = "text is required"
	ErrTextLenMsg    = "text too long"
	ErrVoiceStyleMsg = "voiceStyle must be male or female"
)

var VoiceStyles = []interface{}{"male", "female"}

type SpeechForm struct {
	Text       string `json:"text" form:"text"`
	VoiceStyle string `json:"voiceStyle" form:"voiceStyle"`
}

func (f *SpeechForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Text, validation.Required.Error(ErrTextMsg), validation.Length(1, MaxSpeechTextLength).Error(ErrTextLenMsg)),
		validation.Field(&f.VoiceStyle, validation.In(VoiceStyles...).Error(ErrVoiceStyleMsg)),
	)
}

func (f *SpeechForm) FillDefault() {
	if f.VoiceStyle == "" {
		f.VoiceStyle = DefaultVoiceStyle
	}
}
