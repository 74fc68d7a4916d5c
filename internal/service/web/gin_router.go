package web

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
	"github.com/solutions/interview-coach/internal/common/utils"
	model "github.com/solutions/interview-coach/internal/protodef/model"
	"github.com/solutions/interview-coach/internal/service/web/handler"
	"github.com/solutions/interview-coach/internal/service/web/middleware"
)

// NewRouter wires the gin router. Public status endpoints sit outside the
// auth group; everything touching a session requires a bearer token.
func NewRouter(config *utils.Config) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(config))

	statusApiHandler := handler.NewStatusApiHandler(*config)
	sessionApiHandler := handler.NewSessionApiHandler(*config)
	chatApiHandler := handler.NewChatApiHandler(*config)
	speechApiHandler := handler.NewSpeechApiHandler(*config)

	middleware.InitMiddleware(*config)

	router.GET("/", addRequestID, statusApiHandler.Root)
	router.GET("/health", addRequestID, statusApiHandler.Health)

	v1 := router.Group("/v1", addRequestID, middleware.FetchPageInfo)
	{
		v1.GET("appConfig", statusApiHandler.AppConfig)
		v1.GET("appConfig/", statusApiHandler.AppConfig)
	}
	auth := v1.Group("", middleware.Authenticate)
	{
		auth.POST("startSession", sessionApiHandler.StartSession)
		auth.POST("startSession/", sessionApiHandler.StartSession)

		auth.POST("chat", chatApiHandler.Chat)
		auth.POST("chat/", chatApiHandler.Chat)

		auth.POST("tts", speechApiHandler.Synthesize)
		auth.POST("tts/", speechApiHandler.Synthesize)

		auth.GET("userSessions", sessionApiHandler.ListUserSessions)
		auth.GET("userSessions/", sessionApiHandler.ListUserSessions)

		auth.GET("session/:sessionId", sessionApiHandler.GetSession)
		auth.POST("endSession/:sessionId", sessionApiHandler.EndSession)
		auth.POST("exportSession/:sessionId", sessionApiHandler.ExportSession)
	}

	router.NoRoute(addRequestID, returnNotFound)
	router.RedirectTrailingSlash = false

	return router, nil
}

func addRequestID(c *gin.Context) {
	requestID := ""
	if requestID = c.Request.Header.Get(model.RequestIDHeader); requestID == "" {
		requestID = utils.NewReqID()
		c.Request.Header.Set(model.RequestIDHeader, requestID)
	}
	xl := xlog.New(requestID)
	xl.Debugf("request: %s %s", c.Request.Method, c.Request.URL.Path)
	c.Set(model.XLogKey, xl)
	c.Set(model.RequestStartKey, time.Now())
}

func returnNotFound(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	xl.Debugf("%s %s: not found", c.Request.Method, c.Request.URL.Path)
	responseErr := model.NewResponseErrorNotFound()
	resp := model.NewFailResponse(*responseErr)
	c.JSON(http.StatusOK, resp)
}

func corsMiddleware(config *utils.Config) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(config.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = config.CORSAllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", model.RequestIDHeader)
	return cors.New(corsConfig)
}
