package model

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

/*
	http_model.go: API argument and response definitions. ***Args is the
	argument of the *** operation, ***Response its response body.
*/

const (
	// RequestIDHeader request ID header.
	RequestIDHeader = "X-Reqid"
	// XLogKey key of the per-request xlog logger in the gin context.
	XLogKey = "xlog-logger"

	// UserIDContextKey user ID stored in the request context.
	UserIDContextKey = "userID"
	// UserContextKey account object stored in the request context.
	UserContextKey = "user"
	// UserEmailContextKey verified email stored in the request context.
	UserEmailContextKey = "userEmail"

	// TokenSourceContextKey how the request identity was established.
	TokenSourceContextKey = "tokenSource"
	TokenSourceFixed      TokenSource = "fixed"
	TokenSourceDevJwt     TokenSource = "devJwt"
	TokenSourceIDToken    TokenSource = "idToken"

	// PageNumContextKey pagination values stored in the request context.
	PageNumContextKey  = "pageNum"
	PageSizeContextKey = "pageSize"

	// RequestStartKey request start timestamp stored in the gin context.
	RequestStartKey = "request-start-timestamp-nano"

	ResponseStatusCodeSuccess    ResponseStatusCode    = 0
	ResponseStatusMessageSuccess ResponseStatusMessage = "success"
)

type TokenSource string

type ResponseStatusCode int
type ResponseStatusMessage string

type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"requestId"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    int(ResponseStatusCodeSuccess),
		Message: string(ResponseStatusMessageSuccess),
		Data:    data,
	}
}

func NewFailResponse(err ResponseError) *Response {
	return &Response{
		Code:    err.Code,
		Message: err.Message,
	}
}

func (r *Response) WithRequestID(requestID string) *Response {
	r.RequestID = requestID
	return r
}

func (r *Response) WithErrorMessage(message string) *Response {
	r.Message = message
	return r
}

func (r *Response) Send(c *gin.Context) {
	c.JSON(http.StatusOK, r)
}

type Pagination struct {
	Total          int           `json:"total"`
	Cnt            int           `json:"cnt"`
	CurrentPageNum int           `json:"currentPageNum"`
	NextPageNum    int           `json:"nextPageNum"`
	PageSize       int           `json:"pageSize"`
	EndPage        bool          `json:"endPage"`
	List           []interface{} `json:"list"`
}

// UserInfoResponse account information attached to session payloads.
type UserInfoResponse struct {
	ID       string `json:"accountId"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// StartSessionResponse result of creating an interview session.
type StartSessionResponse struct {
	SessionID     string         `json:"sessionId"`
	FirstQuestion AssistantReply `json:"firstQuestion"`
}

// SessionSummaryResponse one row of the user session list.
type SessionSummaryResponse struct {
	SessionID     string `json:"sessionId"`
	Domain        string `json:"domain"`
	Role          string `json:"role"`
	InterviewType string `json:"interviewType"`
	Difficulty    string `json:"difficulty"`
	CreatedAt     int64  `json:"createdAt"`
	ExchangeCount int    `json:"exchangeCount"`
	Ended         bool   `json:"ended"`
}

// SessionListResponse paginated user session list.
type SessionListResponse struct {
	Pagination
}

// SessionDetailResponse full session view including the transcript.
type SessionDetailResponse struct {
	SessionSummaryResponse
	DurationMinutes    int               `json:"durationMinutes"`
	QuestionCount      int               `json:"questionCount"`
	InappropriateCount int               `json:"inappropriateCount"`
	TranscriptURL      string            `json:"transcriptUrl,omitempty"`
	Messages           []MessageResponse `json:"messages"`
}

type MessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// EndSessionResponse result of explicitly ending a session.
type EndSessionResponse struct {
	SessionID string `json:"sessionId"`
	EndedAt   int64  `json:"endedAt"`
}

// ExportSessionResponse result of exporting a transcript to object storage.
type ExportSessionResponse struct {
	SessionID     string `json:"sessionId"`
	TranscriptURL string `json:"transcriptUrl"`
}

// VoiceOptionResponse one selectable voice style.
type VoiceOptionResponse struct {
	Style   string `json:"style"`
	VoiceID string `json:"voiceId"`
}

// AppConfigResponse frontend bootstrap data.
type AppConfigResponse struct {
	Voices          []VoiceOptionResponse `json:"voices"`
	InterviewTypes  []string              `json:"interviewTypes"`
	Difficulties    []string              `json:"difficulties"`
	MinDurationMin  int                   `json:"minDurationMinutes"`
	MaxDurationMin  int                   `json:"maxDurationMinutes"`
	DefaultDuration int                   `json:"defaultDurationMinutes"`
}

// HealthResponse reported by GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	AuthConfigured bool   `json:"authConfigured"`
	STT            string `json:"stt"`
	TTSKeys        int    `json:"ttsKeys"`
	LLMKeys        int    `json:"llmKeys"`
	ActiveSessions int    `json:"activeSessions"`
}

// RootResponse service banner reported by GET /.
type RootResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// IdentityClaims verified identity extracted from a bearer token.
type IdentityClaims struct {
	UserID string
	Email  string
	Source TokenSource
}
