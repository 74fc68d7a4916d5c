package cloud

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/qiniu/x/xlog"
	"github.com/solutions/interview-coach/internal/common/utils"
	"github.com/solutions/interview-coach/internal/protodef/model"
	"github.com/tidwall/gjson"
)

var (
	ErrNoLLMKey       = fmt.Errorf("no LLM API key configured")
	ErrLLMMaxRetries  = fmt.Errorf("LLM max retries reached")
	ErrEmptyLLMAnswer = fmt.Errorf("LLM returned no choices")
)

// retryPause between retryable upstream failures.
const retryPause = 2 * time.Second

// LLMService calls an OpenRouter-compatible chat completion API.
type LLMService struct {
	conf       utils.LLMConfig
	ring       *KeyRing
	httpClient *http.Client
	// pause overridable in tests.
	pause time.Duration
	xl    *xlog.Logger
}

func NewLLMService(conf utils.LLMConfig, xl *xlog.Logger) *LLMService {
	if xl == nil {
		xl = xlog.New("llm-service")
	}
	timeout := time.Duration(conf.TimeoutSecond) * time.Second
	if conf.TimeoutSecond == 0 {
		timeout = 30 * time.Second
	}
	return &LLMService{
		conf:       conf,
		ring:       NewKeyRing(conf.APIKeys),
		httpClient: &http.Client{Timeout: timeout},
		pause:      retryPause,
		xl:         xl,
	}
}

// KeyCount usable API keys, reported by the health endpoint.
func (s *LLMService) KeyCount() int {
	return s.ring.Size()
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string              `json:"model"`
	Messages    []completionMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

// Complete sends the conversation to the model and parses the structured
// interviewer reply. Retries with key rotation on 429/5xx.
func (s *LLMService) Complete(xl *xlog.Logger, systemPrompt string, messages []model.MessageDo) (*model.AssistantReply, error) {
	if xl == nil {
		xl = s.xl
	}
	payload := completionRequest{
		Model:       s.conf.Model,
		Messages:    make([]completionMessage, 0, len(messages)+1),
		Temperature: s.conf.Temperature,
		MaxTokens:   s.conf.MaxTokens,
	}
	payload.Messages = append(payload.Messages, completionMessage{Role: "system", Content: systemPrompt})
	for _, m := range messages {
		payload.Messages = append(payload.Messages, completionMessage{Role: m.Role, Content: m.Content})
	}
	body, err := json.Marshal(&payload)
	if err != nil {
		return nil, err
	}

	maxRetries := s.conf.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	var lastErr error = ErrLLMMaxRetries
	for attempt := 0; attempt < maxRetries; attempt++ {
		apiKey := s.ring.Next()
		if apiKey == "" {
			return nil, ErrNoLLMKey
		}
		reply, retryable, err := s.complete1(xl, apiKey, body)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		xl.Infof("LLM attempt %d failed, error %v", attempt+1, err)
		if attempt < maxRetries-1 {
			time.Sleep(s.pause)
		}
	}
	return nil, lastErr
}

func (s *LLMService) complete1(xl *xlog.Logger, apiKey string, body []byte) (reply *model.AssistantReply, retryable bool, err error) {
	req, err := http.NewRequest(http.MethodPost, s.conf.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	if s.conf.Referer != "" {
		req.Header.Set("HTTP-Referer", s.conf.Referer)
	}
	if s.conf.AppTitle != "" {
		req.Header.Set("X-Title", s.conf.AppTitle)
	}
	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer res.Body.Close()
	resBody, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, true, err
	}
	switch {
	case res.StatusCode == http.StatusOK:
	case res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500:
		return nil, true, fmt.Errorf("LLM error %d", res.StatusCode)
	default:
		return nil, false, fmt.Errorf("LLM error %d", res.StatusCode)
	}
	content := gjson.GetBytes(resBody, "choices.0.message.content").String()
	if content == "" {
		return nil, false, ErrEmptyLLMAnswer
	}
	return ParseAssistantReply(content), false, nil
}

// ParseAssistantReply recovers the structured reply from raw model output.
// Models fence JSON in markdown or leak prose around it; anything that still
// fails to parse is treated as a plain text reply.
func ParseAssistantReply(content string) *model.AssistantReply {
	candidate := stripMarkdownFences(content)
	if !gjson.Valid(candidate) {
		// fall back to the first {...} block
		start := strings.Index(candidate, "{")
		end := strings.LastIndex(candidate, "}")
		if start >= 0 && end > start {
			candidate = candidate[start : end+1]
		}
	}
	reply := &model.AssistantReply{}
	if gjson.Valid(candidate) && gjson.Get(candidate, "text_response").Exists() {
		parsed := gjson.Parse(candidate)
		reply.TextResponse = parsed.Get("text_response").String()
		reply.VoiceResponse = parsed.Get("voice_response").String()
		reply.End = parsed.Get("end").Bool()
	} else {
		reply.TextResponse = strings.TrimSpace(content)
	}
	if reply.VoiceResponse == "" {
		reply.VoiceResponse = reply.TextResponse
	}
	return reply
}

func stripMarkdownFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if idx := strings.Index(trimmed, "```json"); idx >= 0 {
		trimmed = trimmed[idx+len("```json"):]
		if end := strings.Index(trimmed, "```"); end >= 0 {
			trimmed = trimmed[:end]
		}
	} else if idx := strings.Index(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[idx+len("```"):]
		if end := strings.Index(trimmed, "```"); end >= 0 {
			trimmed = trimmed[:end]
		}
	}
	return strings.TrimSpace(trimmed)
}
