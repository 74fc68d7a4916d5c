package handler

import (
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
	"github.com/solutions/interview-coach/internal/common/utils"
	form "github.com/solutions/interview-coach/internal/protodef/form"
	model "github.com/solutions/interview-coach/internal/protodef/model"
	"github.com/solutions/interview-coach/internal/service/cloud"
	"github.com/solutions/interview-coach/internal/service/db"
)

const serviceVersion = "1.0.0"

// AuthInterface lets the health endpoint report auth readiness.
type AuthInterface interface {
	Configured() bool
}

type StatusApiHandler struct {
	Session SessionInterface
	LLM     LLMInterface
	TTS     TTSInterface
	Auth    AuthInterface
	Voices  map[string]string
	Policy  utils.SessionConfig
}

func NewStatusApiHandler(conf utils.Config) *StatusApiHandler {
	h := new(StatusApiHandler)
	var err error
	h.Session, err = db.NewSessionService(*conf.Mongo, nil)
	if err != nil {
		panic(err)
	}
	var llmConf utils.LLMConfig
	if conf.LLM != nil {
		llmConf = *conf.LLM
	}
	h.LLM = cloud.NewLLMService(llmConf, nil)
	var ttsConf utils.TTSConfig
	if conf.TTS != nil {
		ttsConf = *conf.TTS
	}
	h.TTS = cloud.NewTTSService(ttsConf, nil)
	var authConf utils.AuthConfig
	if conf.Auth != nil {
		authConf = *conf.Auth
	}
	h.Auth = cloud.NewAuthService(authConf, conf.JwtKey, nil)
	h.Voices = ttsConf.Voices
	if conf.Session != nil {
		h.Policy = *conf.Session
	}
	return h
}

// Root is a plain liveness banner with the route map.
func (h *StatusApiHandler) Root(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	resp := model.RootResponse{
		Status:  "ok",
		Service: "interview-coach",
		Version: serviceVersion,
		Endpoints: map[string]string{
			"appConfig":     "GET /v1/appConfig",
			"health":        "GET /health",
			"startSession":  "POST /v1/startSession",
			"chat":          "POST /v1/chat",
			"tts":           "POST /v1/tts",
			"userSessions":  "GET /v1/userSessions",
			"session":       "GET /v1/session/:sessionId",
			"endSession":    "POST /v1/endSession/:sessionId",
			"exportSession": "POST /v1/exportSession/:sessionId",
		},
	}
	model.NewSuccessResponse(resp).WithRequestID(xl.ReqId).Send(c)
}

// Health reports upstream readiness so deploys can be probed.
func (h *StatusApiHandler) Health(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	active, err := h.Session.CountActiveSessions(xl)
	if err != nil {
		xl.Errorf("failed to count active sessions, error %v", err)
		active = -1
	}
	resp := model.HealthResponse{
		Status:         "healthy",
		AuthConfigured: h.Auth.Configured(),
		STT:            "browser",
		TTSKeys:        h.TTS.KeyCount(),
		LLMKeys:        h.LLM.KeyCount(),
		ActiveSessions: active,
	}
	model.NewSuccessResponse(resp).WithRequestID(xl.ReqId).Send(c)
}

// AppConfig tells the frontend what it can offer before login.
func (h *StatusApiHandler) AppConfig(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	voices := make([]model.VoiceOptionResponse, 0, len(h.Voices))
	styles := make([]string, 0, len(h.Voices))
	for style := range h.Voices {
		styles = append(styles, style)
	}
	sort.Strings(styles)
	for _, style := range styles {
		voices = append(voices, model.VoiceOptionResponse{Style: style, VoiceID: h.Voices[style]})
	}
	defaultDuration := h.Policy.DefaultDurationMinute
	if defaultDuration <= 0 {
		defaultDuration = 15
	}
	resp := model.AppConfigResponse{
		Voices:          voices,
		InterviewTypes:  asStrings(form.InterviewTypes),
		Difficulties:    asStrings(form.Difficulties),
		MinDurationMin:  form.MinDurationMinutes,
		MaxDurationMin:  form.MaxDurationMinutes,
		DefaultDuration: defaultDuration,
	}
	model.NewSuccessResponse(resp).WithRequestID(xl.ReqId).Send(c)
}

// asStrings the validation lists are []interface{} for ozzo's In rule.
func asStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
