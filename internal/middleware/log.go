package middleware

import (
	"bytes"
	"io"
	"log"
	"net/http"

	"github.com/Dandandan2024/PropertyCalculator/internal/models"
	"github.com/Dandandan2024/PropertyCalculator/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// maxAuditBody caps how much of a request body goes into an audit row.
const maxAuditBody = 2000

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// AuditMiddleware 记录写操作。path 和 action 用 cipher 加密后入库。
func AuditMiddleware(db *gorm.DB, cipher *util.Cipher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil || !mutating(c.Request.Method) {
			c.Next()
			return
		}

		// 读取请求体
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		owner, ok := CurrentOwner(c)
		if !ok {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < maxAuditBody {
			action += " " + string(bodyBytes)
		}

		encPath, err := cipher.EncryptString(path)
		if err != nil {
			log.Printf("audit: encrypt path: %v", err)
			return
		}
		encAction, err := cipher.EncryptString(action)
		if err != nil {
			log.Printf("audit: encrypt action: %v", err)
			return
		}

		row := models.AuditLog{
			Owner:     owner,
			Method:    c.Request.Method,
			PathEnc:   encPath,
			ActionEnc: encAction,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if err := db.Create(&row).Error; err != nil {
			log.Printf("audit: save row: %v", err)
		}
	}
}
