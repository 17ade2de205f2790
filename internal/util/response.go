package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the data object of a success envelope.
type Response map[string]interface{}

// 业务错误码
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodeConfirm      = 42801 // destructive action sent without confirm=true
	CodeServerErr    = 50001
	CodeUnavailable  = 50301
)

// Success writes {"code": 0, "data": data}.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes {"code": code, "message": msg}.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// Abort is Error for middleware: later handlers do not run.
func Abort(c *gin.Context, httpStatus int, code int, msg string) {
	Error(c, httpStatus, code, msg)
	c.Abort()
}
