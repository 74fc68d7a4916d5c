package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScreenClean(t *testing.T) {
	d := NewDetector()
	flags := d.Screen("I have five years of experience with distributed systems.")
	assert.False(t, flags.Inappropriate)
	assert.False(t, flags.Spam)
	assert.False(t, flags.TooShort)
	assert.False(t, flags.NeedsRedirection)
}

func TestScreenProfanity(t *testing.T) {
	d := NewDetector()
	flags := d.Screen("this interview is Shit")
	assert.True(t, flags.Inappropriate)
	assert.True(t, flags.NeedsRedirection)
	assert.False(t, flags.Spam)
}

func TestScreenHarassment(t *testing.T) {
	d := NewDetector()
	flags := d.Screen("I hate you")
	assert.True(t, flags.Inappropriate)
	assert.True(t, flags.NeedsRedirection)
}

func TestScreenSpam(t *testing.T) {
	d := NewDetector()
	flags := d.Screen("click here to win prize")
	assert.True(t, flags.Spam)
	assert.True(t, flags.NeedsRedirection)
	assert.False(t, flags.Inappropriate)
}

func TestScreenTooShort(t *testing.T) {
	d := NewDetector()
	flags := d.Screen("ok")
	assert.True(t, flags.TooShort)
	assert.False(t, flags.NeedsRedirection)

	flags = d.Screen("  a ")
	assert.True(t, flags.TooShort)
}

func TestScreenSkipsControlMessages(t *testing.T) {
	d := NewDetector()
	flags := d.Screen("[END_INTERVIEW_INAPPROPRIATE_BEHAVIOR]")
	assert.Equal(t, Flags{}, flags)
}
