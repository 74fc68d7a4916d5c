package cloud

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/qiniu/x/xlog"
	"github.com/solutions/interview-coach/internal/common/utils"
)

var (
	ErrNoTTSKey       = fmt.Errorf("no TTS API key configured")
	ErrNoSuchVoice    = fmt.Errorf("no such voice style")
	ErrTTSSynthFailed = fmt.Errorf("voice synthesis failed")
)

// TTSService calls an ElevenLabs-compatible text-to-speech API and returns
// the synthesized audio verbatim.
type TTSService struct {
	conf       utils.TTSConfig
	ring       *KeyRing
	httpClient *http.Client
	xl         *xlog.Logger
}

func NewTTSService(conf utils.TTSConfig, xl *xlog.Logger) *TTSService {
	if xl == nil {
		xl = xlog.New("tts-service")
	}
	timeout := time.Duration(conf.TimeoutSecond) * time.Second
	if conf.TimeoutSecond == 0 {
		timeout = 30 * time.Second
	}
	return &TTSService{
		conf:       conf,
		ring:       NewKeyRing(conf.APIKeys),
		httpClient: &http.Client{Timeout: timeout},
		xl:         xl,
	}
}

// KeyCount usable API keys, reported by the health endpoint.
func (s *TTSService) KeyCount() int {
	return s.ring.Size()
}

type synthesisRequest struct {
	Text          string                 `json:"text"`
	ModelID       string                 `json:"model_id"`
	VoiceSettings map[string]interface{} `json:"voice_settings"`
}

// Synthesize converts text into mpeg audio using the configured voice style.
func (s *TTSService) Synthesize(xl *xlog.Logger, text string, voiceStyle string) ([]byte, error) {
	if xl == nil {
		xl = s.xl
	}
	voiceID, ok := s.conf.Voices[voiceStyle]
	if !ok {
		return nil, ErrNoSuchVoice
	}
	apiKey := s.ring.Next()
	if apiKey == "" {
		return nil, ErrNoTTSKey
	}
	payload := synthesisRequest{
		Text:    text,
		ModelID: s.conf.ModelID,
		VoiceSettings: map[string]interface{}{
			"stability":        s.conf.Stability,
			"similarity_boost": s.conf.SimilarityBoost,
		},
	}
	body, err := json.Marshal(&payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, s.conf.BaseURL+"/text-to-speech/"+voiceID, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	res, err := s.httpClient.Do(req)
	if err != nil {
		xl.Errorf("tts request failed, error %v", err)
		return nil, err
	}
	defer res.Body.Close()
	audio, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		xl.Errorf("tts upstream returned %d", res.StatusCode)
		return nil, ErrTTSSynthFailed
	}
	return audio, nil
}
