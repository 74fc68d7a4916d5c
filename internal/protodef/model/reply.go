package model

import "encoding/json"

// AssistantReply is the structured reply the interviewer model must return.
// The system prompt pins this exact JSON shape; parsing is tolerant because
// models wrap JSON in markdown fences or leak prose around it.
type AssistantReply struct {
	// TextResponse full reply shown in the conversation panel.
	TextResponse string `json:"text_response"`
	// VoiceResponse shorter variant sent to TTS, falls back to TextResponse.
	VoiceResponse string `json:"voice_response"`
	// End true once the interviewer wraps up the session.
	End bool `json:"end"`
}

// Marshal renders the reply the way it is stored in the transcript.
func (r AssistantReply) Marshal() string {
	b, _ := json.Marshal(r)
	return string(b)
}
