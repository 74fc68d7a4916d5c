package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"
	"github.com/solutions/interview-coach/internal/common/utils"
	model "github.com/solutions/interview-coach/internal/protodef/model"
	"github.com/solutions/interview-coach/internal/service/cloud"
	"github.com/solutions/interview-coach/internal/service/db"
)

var (
	authService    *cloud.AuthService
	accountService *db.AccountService
)

func InitMiddleware(conf utils.Config) {
	var authConf utils.AuthConfig
	if conf.Auth != nil {
		authConf = *conf.Auth
	}
	authService = cloud.NewAuthService(authConf, conf.JwtKey, nil)
	var err error
	accountService, err = db.NewAccountService(*conf.Mongo, nil)
	if err != nil {
		panic(err)
	}
}

// Authenticate verifies the caller's bearer token and stores the resolved
// identity in the gin context.
func Authenticate(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	requestID := xl.ReqId

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		xl.Debugf("%s %s: request unauthorized, wrong auth header format", c.Request.Method, c.Request.URL.Path)
		responseErr := model.NewResponseErrorNotLoggedIn()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		c.Abort()
		return
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := authService.VerifyIDToken(xl, token)
	if err != nil {
		xl.Debugf("%s %s: request unauthorized, error %v", c.Request.Method, c.Request.URL.Path, err)
		responseErr := model.NewResponseErrorBadToken()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		c.Abort()
		return
	}
	account, err := accountService.SyncAccount(xl, claims)
	if err != nil {
		xl.Errorf("failed to sync account %s, error %v", claims.UserID, err)
		responseErr := model.NewResponseErrorInternal()
		resp := model.NewFailResponse(*responseErr).WithRequestID(requestID)
		c.JSON(http.StatusOK, resp)
		c.Abort()
		return
	}
	c.Set(model.UserContextKey, *account)
	c.Set(model.UserIDContextKey, claims.UserID)
	c.Set(model.UserEmailContextKey, claims.Email)
	c.Set(model.TokenSourceContextKey, claims.Source)
}
