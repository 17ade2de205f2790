package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Dandandan2024/PropertyCalculator/internal/models"
	"github.com/Dandandan2024/PropertyCalculator/internal/notes"
	"github.com/Dandandan2024/PropertyCalculator/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BackupHandler 负责备份相关接口
type BackupHandler struct {
	DB        *gorm.DB
	Cipher    *util.Cipher
	BackupDir string
	Notes     *notes.Registry
}

// NewBackupHandler 构造函数
func NewBackupHandler(db *gorm.DB, cipher *util.Cipher, backupDir string, reg *notes.Registry) *BackupHandler {
	return &BackupHandler{
		DB:        db,
		Cipher:    cipher,
		BackupDir: backupDir,
		Notes:     reg,
	}
}

// backupData 是写入备份文件的内容结构
type backupData struct {
	Owner   string        `json:"user_id"`
	Created time.Time     `json:"created"`
	Notes   []models.Note `json:"notes"`
}

func backupResp(b *models.Backup) gin.H {
	return gin.H{
		"id":         b.ID,
		"file_name":  b.FileName,
		"size":       b.Size,
		"notes":      b.Notes,
		"created_at": b.CreatedAt,
	}
}

// findBackup loads one of the owner's backups and writes the error response
// itself when there is none.
func (h *BackupHandler) findBackup(c *gin.Context, owner string) (*models.Backup, bool) {
	var backup models.Backup
	err := h.DB.Where("id = ? AND user_id = ?", c.Param("id"), owner).First(&backup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query backups")
		}
		return nil, false
	}
	return &backup, true
}

// CreateBackup 生成当前 owner 全部笔记的加密备份文件
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		return
	}

	list, err := h.Notes.For(owner).List(c.Request.Context())
	if err != nil {
		writeNoteError(c, err)
		return
	}

	data := backupData{
		Owner:   owner,
		Created: time.Now().UTC(),
		Notes:   list,
	}
	raw, err := json.MarshalIndent(&data, "", "  ")
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to encode backup")
		return
	}

	enc, err := h.Cipher.Encrypt(raw)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to encrypt backup")
		return
	}

	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create backup dir")
		return
	}

	id := uuid.New().String()
	fileName := fmt.Sprintf("notes-%s.bin", id)
	filePath := filepath.Join(h.BackupDir, fileName)

	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write backup file")
		return
	}

	backup := models.Backup{
		ID:       id,
		Owner:    owner,
		FileName: fileName,
		FilePath: filePath,
		Size:     int64(len(enc)),
		Notes:    len(list),
	}
	if err := h.DB.Create(&backup).Error; err != nil {
		_ = os.Remove(filePath)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save backup record")
		return
	}

	util.Success(c, util.Response{"backup": backupResp(&backup)})
}

// ListBackups 列出当前 owner 已有的备份
func (h *BackupHandler) ListBackups(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		return
	}

	var list []models.Backup
	if err := h.DB.
		Where("user_id = ?", owner).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query backups")
		return
	}

	items := make([]gin.H, 0, len(list))
	for i := range list {
		items = append(items, backupResp(&list[i]))
	}
	util.Success(c, util.Response{"items": items})
}

// DownloadBackup 下载指定备份文件（仍是密文）
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		return
	}
	backup, ok := h.findBackup(c, owner)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", backup.FileName))
	c.File(backup.FilePath)
}

// DeleteBackup 删除备份记录及对应文件
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		return
	}
	backup, ok := h.findBackup(c, owner)
	if !ok {
		return
	}

	// 先删文件，再删记录
	_ = os.Remove(backup.FilePath)
	if err := h.DB.Delete(backup).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete backup record")
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

// RestoreBackup 从备份中恢复笔记。已存在的 id 跳过，不会覆盖当前内容。
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		return
	}
	backup, ok := h.findBackup(c, owner)
	if !ok {
		return
	}

	encData, err := os.ReadFile(backup.FilePath)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to read backup file")
		return
	}
	raw, err := h.Cipher.Decrypt(encData)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to decrypt backup file")
		return
	}

	var data backupData
	if err := json.Unmarshal(raw, &data); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to parse backup data")
		return
	}
	if data.Owner != "" && data.Owner != owner {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "backup belongs to another owner")
		return
	}

	restored, err := h.Notes.For(owner).Import(c.Request.Context(), data.Notes)
	if err != nil {
		writeNoteError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message":  "restored",
		"restored": restored,
		"skipped":  len(data.Notes) - restored,
	})
}
