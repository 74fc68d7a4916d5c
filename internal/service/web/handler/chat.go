package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
	"github.com/solutions/interview-coach/internal/common/utils"
	form "github.com/solutions/interview-coach/internal/protodef/form"
	model "github.com/solutions/interview-coach/internal/protodef/model"
	"github.com/solutions/interview-coach/internal/service/cloud"
	"github.com/solutions/interview-coach/internal/service/db"
	"github.com/solutions/interview-coach/internal/service/moderation"
	"gopkg.in/mgo.v2"
)

// Small talk fills the opening exchanges before real questions count.
const smallTalkExchanges = 3

const terminationNotice = "This interview has been terminated due to repeated inappropriate behavior."

type ChatApiHandler struct {
	Session    SessionInterface
	LLM        LLMInterface
	Moderation *moderation.Detector
	Policy     utils.SessionConfig
}

func NewChatApiHandler(conf utils.Config) *ChatApiHandler {
	h := new(ChatApiHandler)
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
	h.Moderation = moderation.NewDetector()
	if conf.Session != nil {
		h.Policy = *conf.Session
	}
	return h
}

// Chat takes one user turn, screens it, and returns the interviewer's reply.
func (h *ChatApiHandler) Chat(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)

	args := &form.ChatForm{}
	if err := c.Bind(args); err != nil {
		xl.Infof("invalid args in body, error %v", err)
		responseErr := model.NewResponseErrorBadRequest()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	if err := args.Validate(); err != nil {
		xl.Infof("form validation error: %v", err)
		responseErr := model.NewResponseErrorValidation(err)
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}

	session, err := h.Session.GetSessionByID(xl, args.SessionID)
	if err != nil {
		if err == mgo.ErrNotFound {
			responseErr := model.NewResponseErrorNoSuchSession()
			model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
			return
		}
		responseErr := model.NewResponseErrorInternal()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	if session.UserID != userID {
		xl.Infof("session %s belongs to %s, not the caller", session.ID, session.UserID)
		responseErr := model.NewResponseErrorNotSessionOwner()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	if session.Ended() {
		responseErr := model.NewResponseErrorSessionEnded()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}

	flags := h.Moderation.Screen(args.UserMessage)
	if flags.NeedsRedirection {
		// spam strikes count the same as profanity
		session.InappropriateCount++
		session.RedirectCount++
	}

	maxInappropriate := h.Policy.MaxInappropriate
	if maxInappropriate <= 0 {
		maxInappropriate = 3
	}
	terminate := flags.NeedsRedirection && session.InappropriateCount >= maxInappropriate

	session.ExchangeCount++
	if session.ExchangeCount > smallTalkExchanges {
		session.QuestionCount++
	}

	// The model sees the session counters through a hidden context wrapper,
	// or the termination control message once the strike limit is hit so it
	// can close with feedback. Only the original message lands in the stored
	// transcript.
	var outbound string
	if terminate {
		xl.Infof("session %s hit the strike limit, inappropriate count %d", session.ID, session.InappropriateCount)
		outbound = model.EndInterviewSentinel
	} else {
		outbound = buildHiddenContext(session, flags, args.UserMessage, time.Now())
	}
	history := make([]model.MessageDo, len(session.Messages), len(session.Messages)+1)
	copy(history, session.Messages)
	history = append(history, model.MessageDo{Role: model.MessageRoleUser, Content: outbound})

	reply, err := h.LLM.Complete(xl, session.SystemPrompt, history)
	if err != nil {
		xl.Errorf("chat completion failed for session %s, error %v", session.ID, err)
		if !terminate {
			// keep the counter updates even though the turn produced no reply
			if _, uerr := h.Session.UpdateSession(xl, session); uerr != nil {
				xl.Errorf("failed to save counters of session %s, error %v", session.ID, uerr)
			}
			responseErr := model.NewResponseErrorExternalService()
			model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
			return
		}
		// the interview ends even when the closing words can't be fetched
		reply = &model.AssistantReply{
			TextResponse:  terminationNotice,
			VoiceResponse: terminationNotice,
			End:           true,
		}
	}
	if strings.Contains(reply.TextResponse, model.EndInterviewSentinel) {
		reply.TextResponse = strings.TrimSpace(strings.ReplaceAll(reply.TextResponse, model.EndInterviewSentinel, ""))
		if reply.TextResponse == "" {
			reply.TextResponse = terminationNotice
		}
		reply.VoiceResponse = reply.TextResponse
		reply.End = true
	}
	if terminate {
		reply.End = true
	}

	session.Messages = append(session.Messages,
		model.MessageDo{Role: model.MessageRoleUser, Content: args.UserMessage},
		model.MessageDo{Role: model.MessageRoleAssistant, Content: reply.Marshal()},
	)
	if reply.End {
		_, err = h.Session.EndSession(xl, session)
	} else {
		_, err = h.Session.UpdateSession(xl, session)
	}
	if err != nil {
		responseErr := model.NewResponseErrorInternal()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	model.NewSuccessResponse(*reply).WithRequestID(requestID).Send(c)
}

// buildHiddenContext wraps the user's message with interview progress the
// interviewer persona needs but the transcript must not show.
func buildHiddenContext(session *model.SessionDo, flags moderation.Flags, userMessage string, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("[CONTEXT - HIDDEN]\n")
	fmt.Fprintf(&sb, "Exchanges so far: %d\n", session.ExchangeCount)
	fmt.Fprintf(&sb, "Questions asked: %d\n", session.QuestionCount)
	fmt.Fprintf(&sb, "Inappropriate messages: %d\n", session.InappropriateCount)
	fmt.Fprintf(&sb, "Redirections: %d\n", session.RedirectCount)
	fmt.Fprintf(&sb, "Time left: %.1f minutes\n", session.RemainingMinutes(now))
	if flags.Inappropriate {
		sb.WriteString("The last message was inappropriate. Warn the candidate firmly.\n")
	}
	if flags.NeedsRedirection {
		sb.WriteString("The candidate is drifting off topic. Redirect to the interview.\n")
	}
	if flags.TooShort {
		sb.WriteString("The answer was very short. Ask the candidate to elaborate.\n")
	}
	sb.WriteString("[END]\n")
	sb.WriteString("User message: ")
	sb.WriteString(userMessage)
	return sb.String()
}
