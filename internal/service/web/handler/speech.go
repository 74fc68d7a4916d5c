package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
	"github.com/solutions/interview-coach/internal/common/utils"
	form "github.com/solutions/interview-coach/internal/protodef/form"
	model "github.com/solutions/interview-coach/internal/protodef/model"
	"github.com/solutions/interview-coach/internal/service/cloud"
)

// TTSInterface voice synthesis operations.
type TTSInterface interface {
	Synthesize(xl *xlog.Logger, text string, voiceStyle string) ([]byte, error)
	KeyCount() int
}

type SpeechApiHandler struct {
	TTS TTSInterface
}

func NewSpeechApiHandler(conf utils.Config) *SpeechApiHandler {
	h := new(SpeechApiHandler)
	var ttsConf utils.TTSConfig
	if conf.TTS != nil {
		ttsConf = *conf.TTS
	}
	h.TTS = cloud.NewTTSService(ttsConf, nil)
	return h
}

// Synthesize turns reply text into speech. The one endpoint that answers
// with raw bytes instead of the JSON envelope, so the frontend can feed
// the body straight into an Audio element.
func (h *SpeechApiHandler) Synthesize(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId

	args := &form.SpeechForm{}
	if err := c.Bind(args); err != nil {
		xl.Infof("invalid args in body, error %v", err)
		responseErr := model.NewResponseErrorBadRequest()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	args.FillDefault()
	if err := args.Validate(); err != nil {
		xl.Infof("form validation error: %v", err)
		responseErr := model.NewResponseErrorValidation(err)
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}

	audio, err := h.TTS.Synthesize(xl, args.Text, args.VoiceStyle)
	if err != nil {
		if err == cloud.ErrNoSuchVoice {
			responseErr := model.NewResponseErrorValidation(err)
			model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
			return
		}
		xl.Errorf("voice synthesis failed, error %v", err)
		responseErr := model.NewResponseErrorExternalService()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	c.Header(model.RequestIDHeader, requestID)
	c.Data(http.StatusOK, "audio/mpeg", audio)
}
