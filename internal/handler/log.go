package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dandandan2024/PropertyCalculator/internal/models"
	"github.com/Dandandan2024/PropertyCalculator/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler 负责审计日志查询接口
type LogHandler struct {
	DB     *gorm.DB
	Cipher *util.Cipher
}

func NewLogHandler(db *gorm.DB, cipher *util.Cipher) *LogHandler {
	return &LogHandler{DB: db, Cipher: cipher}
}

type logResp struct {
	ID        uint      `json:"id"`
	Action    string    `json:"action"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

func pageParams(c *gin.Context, defSize int) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defSize)))
	if size <= 0 || size > 100 {
		size = defSize
	}
	return page, size
}

func paginate[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// decrypted loads the owner's audit rows in the window, newest first, with
// path and action in clear text.
func (h *LogHandler) decrypted(owner string, start, end *time.Time) ([]logResp, error) {
	base := h.DB.Model(&models.AuditLog{}).Where("user_id = ?", owner)
	if start != nil {
		base = base.Where("created_at >= ?", *start)
	}
	if end != nil {
		base = base.Where("created_at < ?", *end)
	}

	var rows []models.AuditLog
	if err := base.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]logResp, 0, len(rows))
	for i := range rows {
		l := &rows[i]
		out = append(out, logResp{
			ID:        l.ID,
			Action:    h.Cipher.DecryptString(l.ActionEnc),
			Path:      h.Cipher.DecryptString(l.PathEnc),
			Method:    l.Method,
			Status:    l.Status,
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}
	return out, nil
}

// ListLogs 列出当前 owner 的操作日志（分页 + 时间 + 关键字）。
// 字段是密文，关键字只能在解密后过滤。
func (h *LogHandler) ListLogs(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		return
	}
	page, size := pageParams(c, 20)

	// 时间筛选：start / end（格式 YYYY-MM-DD）
	var start, end *time.Time
	if s := c.Query("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid start date")
			return
		}
		start = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid end date")
			return
		}
		t = t.Add(24 * time.Hour)
		end = &t
	}

	all, err := h.decrypted(owner, start, end)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query logs")
		return
	}

	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		kept := all[:0]
		for _, l := range all {
			if strings.Contains(strings.ToLower(l.Path), q) || strings.Contains(strings.ToLower(l.Action), q) {
				kept = append(kept, l)
			}
		}
		all = kept
	}

	util.Success(c, util.Response{
		"items": paginate(all, page, size),
		"total": len(all),
		"page":  page,
		"size":  size,
	})
}

type noteHistoryResp struct {
	ID        uint      `json:"id"`
	Operation string    `json:"operation"`
	NoteID    string    `json:"note_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"created_at"`
}

// noteOperation classifies an audited request as a note mutation.
func noteOperation(method, path string) (op, noteID string) {
	const prefix = "/api/notes/"
	switch {
	case method == http.MethodPost && path == "/api/notes":
		return "create note", ""
	case method == http.MethodPut && strings.HasPrefix(path, prefix):
		return "update note", strings.TrimPrefix(path, prefix)
	case method == http.MethodDelete && strings.HasPrefix(path, prefix):
		return "delete note", strings.TrimPrefix(path, prefix)
	}
	return "", ""
}

// ListNoteHistory 查询笔记相关的历史操作（仅增删改）
func (h *LogHandler) ListNoteHistory(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		return
	}
	page, size := pageParams(c, 50)

	all, err := h.decrypted(owner, nil, nil)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query logs")
		return
	}

	items := make([]noteHistoryResp, 0, len(all))
	for _, l := range all {
		op, noteID := noteOperation(l.Method, l.Path)
		if op == "" {
			continue
		}
		items = append(items, noteHistoryResp{
			ID:        l.ID,
			Operation: op,
			NoteID:    noteID,
			Title:     titleFromAction(l.Action),
			Status:    l.Status,
			IP:        l.IP,
			CreatedAt: l.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"items": paginate(items, page, size),
		"total": len(items),
		"page":  page,
		"size":  size,
	})
}

// titleFromAction pulls the note title out of the JSON body stored in an
// audit action ("POST /api/notes {...}").
func titleFromAction(action string) string {
	i := strings.Index(action, "{")
	j := strings.LastIndex(action, "}")
	if i < 0 || j <= i {
		return ""
	}
	var body struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(action[i:j+1]), &body); err != nil {
		return ""
	}
	return body.Title
}
