package moderation

import (
	"strings"
)

// Flags is the screening verdict for one user message.
type Flags struct {
	Inappropriate bool
	Spam          bool
	TooShort      bool
	// NeedsRedirection the interviewer should steer the conversation back
	// instead of answering in kind.
	NeedsRedirection bool
}

var (
	defaultProfanity = []string{
		"fuck", "shit", "bitch", "ass", "damn", "hell",
		"stupid ai", "dumb ai", "idiot",
	}
	defaultSpam = []string{
		"spam", "buy now", "click here", "win prize",
	}
	defaultHarassment = []string{
		"hate you", "kill", "threat", "attack",
	}
)

// Detector screens candidate messages for profanity, spam and harassment.
type Detector struct {
	profanity  []string
	spam       []string
	harassment []string
}

func NewDetector() *Detector {
	return &Detector{
		profanity:  defaultProfanity,
		spam:       defaultSpam,
		harassment: defaultHarassment,
	}
}

// Screen checks one message. Bracketed control messages ([...]) are part of
// the chat protocol and are never screened.
func (d *Detector) Screen(text string) Flags {
	if strings.HasPrefix(text, "[") {
		return Flags{}
	}
	lower := strings.ToLower(text)

	inappropriate := containsAny(lower, d.profanity) || containsAny(lower, d.harassment)
	spam := containsAny(lower, d.spam)

	return Flags{
		Inappropriate:    inappropriate,
		Spam:             spam,
		TooShort:         len(strings.TrimSpace(text)) <= 2,
		NeedsRedirection: inappropriate || spam,
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
