package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	InterviewTypes = []interface{}{"Technical", "Behavioral", "Mixed"}
	Difficulties   = []interface{}{"Beginner", "Intermediate", "Advanced"}
)

const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 60

	DefaultInterviewType = "Mixed"
	DefaultDifficulty    = "Intermediate"

	ErrDomainMsg     = "domain is required"
	ErrRoleMsg       = "role is required"
	ErrTypeMsg       = "interviewType must be Technical, Behavioral or Mixed"
	ErrDifficultyMsg = "difficulty must be Beginner, Intermediate or Advanced"
	ErrDurationMsg   = "durationMinutes must be between 5 and 60"
)

type StartSessionForm struct {
	Domain          string `json:"domain" form:"domain"`
	Role            string `json:"role" form:"role"`
	InterviewType   string `json:"interviewType" form:"interviewType"`
	Difficulty      string `json:"difficulty" form:"difficulty"`
	DurationMinutes int    `json:"durationMinutes" form:"durationMinutes"`
}

func (f *StartSessionForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Domain, validation.Required.Error(ErrDomainMsg), validation.Length(1, 100)),
		validation.Field(&f.Role, validation.Required.Error(ErrRoleMsg), validation.Length(1, 100)),
		validation.Field(&f.InterviewType, validation.In(InterviewTypes...).Error(ErrTypeMsg)),
		validation.Field(&f.Difficulty, validation.In(Difficulties...).Error(ErrDifficultyMsg)),
		validation.Field(&f.DurationMinutes, validation.Min(MinDurationMinutes).Error(ErrDurationMsg), validation.Max(MaxDurationMinutes).Error(ErrDurationMsg)),
	)
}

// FillDefault applies the optional field defaults before validation.
func (f *StartSessionForm) FillDefault(defaultDuration int) {
	if f.InterviewType == "" {
		f.InterviewType = DefaultInterviewType
	}
	if f.Difficulty == "" {
		f.Difficulty = DefaultDifficulty
	}
	if f.DurationMinutes == 0 {
		if defaultDuration > 0 {
			f.DurationMinutes = defaultDuration
		} else {
			f.DurationMinutes = 15
		}
	}
}
