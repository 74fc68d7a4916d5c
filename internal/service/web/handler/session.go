package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
	"github.com/solutions/interview-coach/internal/common/utils"
	form "github.com/solutions/interview-coach/internal/protodef/form"
	model "github.com/solutions/interview-coach/internal/protodef/model"
	"github.com/solutions/interview-coach/internal/service/cloud"
	"github.com/solutions/interview-coach/internal/service/db"
	"gopkg.in/mgo.v2"
)

// SessionInterface persistence operations the session/chat handlers need.
type SessionInterface interface {
	CreateSession(xl *xlog.Logger, session *model.SessionDo) (*model.SessionDo, error)
	GetSessionByID(xl *xlog.Logger, sessionID string) (*model.SessionDo, error)
	UpdateSession(xl *xlog.Logger, session *model.SessionDo) (*model.SessionDo, error)
	EndSession(xl *xlog.Logger, session *model.SessionDo) (*model.SessionDo, error)
	ListSessionsByPage(xl *xlog.Logger, userID string, pageNum int, pageSize int) ([]model.SessionDo, int, error)
	CountActiveSessions(xl *xlog.Logger) (int, error)
}

// LLMInterface chat completion operations.
type LLMInterface interface {
	Complete(xl *xlog.Logger, systemPrompt string, messages []model.MessageDo) (*model.AssistantReply, error)
	KeyCount() int
}

// StorageInterface transcript export operations.
type StorageInterface interface {
	Configured() bool
	ExportTranscript(xl *xlog.Logger, session *model.SessionDo) (string, error)
}

type SessionApiHandler struct {
	Session SessionInterface
	LLM     LLMInterface
	Storage StorageInterface
	Policy  utils.SessionConfig
}

func NewSessionApiHandler(conf utils.Config) *SessionApiHandler {
	h := new(SessionApiHandler)
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
	var storageConf utils.QiniuStorageConfig
	if conf.Storage != nil {
		storageConf = *conf.Storage
	}
	h.Storage = cloud.NewStorageService(storageConf, conf.QiniuKeyPair, nil)
	if conf.Session != nil {
		h.Policy = *conf.Session
	}
	return h
}

// StartSession creates a session and asks the model for the opening question.
func (h *SessionApiHandler) StartSession(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	userEmail := c.GetString(model.UserEmailContextKey)

	args := &form.StartSessionForm{}
	if err := c.Bind(args); err != nil {
		xl.Infof("invalid args in body, error %v", err)
		responseErr := model.NewResponseErrorBadRequest()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	args.FillDefault(h.Policy.DefaultDurationMinute)
	if err := args.Validate(); err != nil {
		xl.Infof("form validation error: %v", err)
		responseErr := model.NewResponseErrorValidation(err)
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}

	systemPrompt := cloud.BuildSystemPrompt(args.Domain, args.Role, args.InterviewType, args.Difficulty)
	kickoff := model.MessageDo{Role: model.MessageRoleUser, Content: cloud.KickoffMessage}
	reply, err := h.LLM.Complete(xl, systemPrompt, []model.MessageDo{kickoff})
	if err != nil {
		xl.Errorf("failed to get opening question, error %v", err)
		responseErr := model.NewResponseErrorExternalService()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}

	session := &model.SessionDo{
		ID:              utils.GenerateID(),
		UserID:          userID,
		UserEmail:       userEmail,
		Domain:          args.Domain,
		Role:            args.Role,
		InterviewType:   args.InterviewType,
		Difficulty:      args.Difficulty,
		DurationMinutes: args.DurationMinutes,
		SystemPrompt:    systemPrompt,
		Messages: []model.MessageDo{
			kickoff,
			{Role: model.MessageRoleAssistant, Content: reply.Marshal()},
		},
	}
	if _, err := h.Session.CreateSession(xl, session); err != nil {
		responseErr := model.NewResponseErrorInternal()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	resp := model.StartSessionResponse{
		SessionID:     session.ID,
		FirstQuestion: *reply,
	}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// ListUserSessions lists the caller's sessions, newest first.
func (h *SessionApiHandler) ListUserSessions(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId
	userID := c.GetString(model.UserIDContextKey)
	pageNum := c.GetInt(model.PageNumContextKey)
	pageSize := c.GetInt(model.PageSizeContextKey)

	sessions, total, err := h.Session.ListSessionsByPage(xl, userID, pageNum, pageSize)
	if err != nil {
		responseErr := model.NewResponseErrorInternal()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	list := make([]interface{}, 0, len(sessions))
	for i := range sessions {
		list = append(list, summaryOf(&sessions[i]))
	}
	resp := model.SessionListResponse{
		Pagination: model.Pagination{
			Total:          total,
			Cnt:            len(list),
			CurrentPageNum: pageNum,
			NextPageNum:    pageNum + 1,
			PageSize:       pageSize,
			EndPage:        pageNum*pageSize >= total,
			List:           list,
		},
	}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// GetSession returns one session with its transcript.
func (h *SessionApiHandler) GetSession(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId

	session, ok := h.ownedSession(c, xl, requestID)
	if !ok {
		return
	}
	detail := model.SessionDetailResponse{
		SessionSummaryResponse: summaryOf(session),
		DurationMinutes:        session.DurationMinutes,
		QuestionCount:          session.QuestionCount,
		InappropriateCount:     session.InappropriateCount,
		TranscriptURL:          session.TranscriptURL,
		Messages:               make([]model.MessageResponse, 0, len(session.Messages)),
	}
	for _, m := range session.Messages {
		detail.Messages = append(detail.Messages, model.MessageResponse{Role: m.Role, Content: m.Content})
	}
	model.NewSuccessResponse(detail).WithRequestID(requestID).Send(c)
}

// EndSession explicitly finishes an interview.
func (h *SessionApiHandler) EndSession(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId

	session, ok := h.ownedSession(c, xl, requestID)
	if !ok {
		return
	}
	if session.Ended() {
		responseErr := model.NewResponseErrorSessionEnded()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	session, err := h.Session.EndSession(xl, session)
	if err != nil {
		responseErr := model.NewResponseErrorInternal()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	resp := model.EndSessionResponse{
		SessionID: session.ID,
		EndedAt:   session.EndTime.Unix(),
	}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// ExportSession archives the transcript to object storage.
func (h *SessionApiHandler) ExportSession(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId

	session, ok := h.ownedSession(c, xl, requestID)
	if !ok {
		return
	}
	if !h.Storage.Configured() {
		responseErr := model.NewResponseErrorStorageNotConfig()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	transcriptURL, err := h.Storage.ExportTranscript(xl, session)
	if err != nil {
		xl.Errorf("failed to export transcript of session %s, error %v", session.ID, err)
		responseErr := model.NewResponseErrorExternalService()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	session.TranscriptURL = transcriptURL
	if _, err := h.Session.UpdateSession(xl, session); err != nil {
		responseErr := model.NewResponseErrorInternal()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return
	}
	resp := model.ExportSessionResponse{
		SessionID:     session.ID,
		TranscriptURL: transcriptURL,
	}
	model.NewSuccessResponse(resp).WithRequestID(requestID).Send(c)
}

// ownedSession loads the :sessionId session and enforces ownership. On
// failure the error envelope has already been sent.
func (h *SessionApiHandler) ownedSession(c *gin.Context, xl *xlog.Logger, requestID string) (*model.SessionDo, bool) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		responseErr := model.NewResponseErrorBadRequest()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return nil, false
	}
	session, err := h.Session.GetSessionByID(xl, sessionID)
	if err != nil {
		if err == mgo.ErrNotFound {
			responseErr := model.NewResponseErrorNoSuchSession()
			model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
			return nil, false
		}
		responseErr := model.NewResponseErrorInternal()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return nil, false
	}
	if session.UserID != c.GetString(model.UserIDContextKey) {
		xl.Infof("session %s belongs to %s, not the caller", session.ID, session.UserID)
		responseErr := model.NewResponseErrorNotSessionOwner()
		model.NewFailResponse(*responseErr).WithRequestID(requestID).Send(c)
		return nil, false
	}
	return session, true
}

func summaryOf(session *model.SessionDo) model.SessionSummaryResponse {
	return model.SessionSummaryResponse{
		SessionID:     session.ID,
		Domain:        session.Domain,
		Role:          session.Role,
		InterviewType: session.InterviewType,
		Difficulty:    session.Difficulty,
		CreatedAt:     session.CreateTime.Unix(),
		ExchangeCount: session.ExchangeCount,
		Ended:         session.Ended(),
	}
}
