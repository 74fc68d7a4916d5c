package cloud

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solutions/interview-coach/internal/common/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTTSServer(t *testing.T, handler http.HandlerFunc) *TTSService {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewTTSService(utils.TTSConfig{
		BaseURL: server.URL,
		APIKeys: []string{"tts-key"},
		ModelID: "eleven_turbo_v2",
		Voices: map[string]string{
			"male":   "voice-m",
			"female": "voice-f",
		},
		Stability:       0.35,
		SimilarityBoost: 0.7,
	}, nil)
}

func TestSynthesize(t *testing.T) {
	svc := newTTSServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text-to-speech/voice-f", r.URL.Path)
		assert.Equal(t, "tts-key", r.Header.Get("xi-api-key"))
		var req synthesisRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hello candidate", req.Text)
		assert.Equal(t, "eleven_turbo_v2", req.ModelID)
		assert.Equal(t, 0.35, req.VoiceSettings["stability"])
		w.Write([]byte("mpeg-bytes"))
	})
	audio, err := svc.Synthesize(nil, "Hello candidate", "female")
	require.NoError(t, err)
	assert.Equal(t, []byte("mpeg-bytes"), audio)
}

func TestSynthesizeUnknownVoice(t *testing.T) {
	svc := newTTSServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach upstream")
	})
	_, err := svc.Synthesize(nil, "hi", "robot")
	assert.Equal(t, ErrNoSuchVoice, err)
}

func TestSynthesizeUpstreamError(t *testing.T) {
	svc := newTTSServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := svc.Synthesize(nil, "hi there", "male")
	assert.Equal(t, ErrTTSSynthFailed, err)
}

func TestSynthesizeNoKey(t *testing.T) {
	svc := NewTTSService(utils.TTSConfig{
		BaseURL: "http://localhost:0",
		Voices:  map[string]string{"male": "voice-m"},
	}, nil)
	_, err := svc.Synthesize(nil, "hi", "male")
	assert.Equal(t, ErrNoTTSKey, err)
}
