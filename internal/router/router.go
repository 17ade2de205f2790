package router

import (
	"github.com/Dandandan2024/PropertyCalculator/internal/config"
	"github.com/Dandandan2024/PropertyCalculator/internal/division"
	"github.com/Dandandan2024/PropertyCalculator/internal/handler"
	"github.com/Dandandan2024/PropertyCalculator/internal/middleware"
	"github.com/Dandandan2024/PropertyCalculator/internal/notes"
	"github.com/Dandandan2024/PropertyCalculator/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the services the routes are wired to. DB may be nil, in which
// case audit logging, backups and the log endpoints are left out.
type Deps struct {
	DB       *gorm.DB
	Cipher   *util.Cipher
	Notes    *notes.Registry
	Division *division.Registry
}

// SetupRouter configures the Gin engine and the JSON API.
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	// 会话接口（不需要 token）
	sessionHandler := handler.NewSessionHandler(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireHours)
	api.POST("/session", sessionHandler.CreateSession)

	owned := api.Group("")
	owned.Use(
		middleware.OwnerMiddleware(cfg.JWT.Secret),
		middleware.AuditMiddleware(deps.DB, deps.Cipher),
	)

	owned.GET("/me", handler.GetMe)

	noteHandler := handler.NewNoteHandler(deps.Notes)
	owned.GET("/notes", noteHandler.ListNotes)
	owned.POST("/notes", noteHandler.CreateNote)
	owned.PUT("/notes/:id", noteHandler.UpdateNote)
	owned.DELETE("/notes/:id", noteHandler.DeleteNote)
	owned.GET("/notes/:id/preview", noteHandler.PreviewNote)

	divisionHandler := handler.NewDivisionHandler(deps.Division, cfg.Export.FileName)
	owned.GET("/division", divisionHandler.GetSheet)
	owned.POST("/division/commands", divisionHandler.RunCommand)
	owned.GET("/division/export/csv", divisionHandler.ExportCSV)
	owned.GET("/division/export/xlsx", divisionHandler.ExportXLSX)
	owned.POST("/division/:category/items", divisionHandler.AddItem)
	owned.PATCH("/division/:category/items/:id", divisionHandler.UpdateItem)
	owned.DELETE("/division/:category/items/:id", divisionHandler.RemoveItem)

	if deps.DB == nil {
		return r
	}

	backupHandler := handler.NewBackupHandler(deps.DB, deps.Cipher, cfg.Backup.Dir, deps.Notes)
	owned.POST("/backups", backupHandler.CreateBackup)
	owned.GET("/backups", backupHandler.ListBackups)
	owned.GET("/backups/:id/download", backupHandler.DownloadBackup)
	owned.POST("/backups/:id/restore", backupHandler.RestoreBackup)
	owned.DELETE("/backups/:id", backupHandler.DeleteBackup)

	logHandler := handler.NewLogHandler(deps.DB, deps.Cipher)
	owned.GET("/logs", logHandler.ListLogs)
	owned.GET("/history", logHandler.ListNoteHistory)

	return r
}
