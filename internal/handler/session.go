package handler

import (
	"net/http"
	"time"

	"github.com/Dandandan2024/PropertyCalculator/internal/middleware"
	"github.com/Dandandan2024/PropertyCalculator/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHandler 发放匿名 owner 会话。没有账号和密码，token 只标识数据归属。
type SessionHandler struct {
	JWTSecret string
	Issuer    string
	TTL       time.Duration
}

func NewSessionHandler(secret, issuer string, expireHours int) *SessionHandler {
	return &SessionHandler{
		JWTSecret: secret,
		Issuer:    issuer,
		TTL:       time.Duration(expireHours) * time.Hour,
	}
}

// CreateSession mints a fresh owner id and its token.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	owner := uuid.New().String()
	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, owner, h.TTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create session")
		return
	}

	c.SetCookie(middleware.TokenCookie, token, int(h.TTL.Seconds()), "/", "", false, true)
	util.Success(c, util.Response{
		"token": token,
		"owner": owner,
	})
}

// GetMe 返回当前 owner（需要经过 OwnerMiddleware）
func GetMe(c *gin.Context) {
	owner, ok := middleware.CurrentOwner(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "no session")
		return
	}
	util.Success(c, util.Response{
		"owner":     owner,
		"anonymous": owner == middleware.AnonymousOwner,
	})
}

func currentOwner(c *gin.Context) (string, bool) {
	owner, ok := middleware.CurrentOwner(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "no session")
	}
	return owner, ok
}
