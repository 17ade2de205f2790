package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Dandandan2024/PropertyCalculator/internal/models"
	"github.com/Dandandan2024/PropertyCalculator/internal/notes"
	"github.com/Dandandan2024/PropertyCalculator/internal/util"

	"github.com/gin-gonic/gin"
)

// NoteHandler 负责笔记的增删改查和搜索
type NoteHandler struct {
	Notes *notes.Registry
	Now   func() time.Time
}

func NewNoteHandler(reg *notes.Registry) *NoteHandler {
	return &NoteHandler{Notes: reg, Now: time.Now}
}

type noteReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type noteResp struct {
	models.Note
	When string `json:"when"`
}

func (h *NoteHandler) toResp(list []models.Note) []noteResp {
	now := h.Now()
	items := make([]noteResp, 0, len(list))
	for _, n := range list {
		items = append(items, noteResp{Note: n, When: notes.RelativeTime(n.CreatedAt, now)})
	}
	return items
}

// writeNoteError maps store errors onto the response envelope.
func writeNoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, notes.ErrValidation):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, notes.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "note not found")
	case errors.Is(err, notes.ErrStoreUnavailable):
		util.Error(c, http.StatusServiceUnavailable, util.CodeUnavailable, "note storage is unavailable, try again")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

// ListNotes 列出当前 owner 的笔记，带 q 时按标题/内容过滤
func (h *NoteHandler) ListNotes(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		return
	}
	store := h.Notes.For(owner)

	list, err := store.List(c.Request.Context())
	if err != nil {
		writeNoteError(c, err)
		return
	}
	q := c.Query("q")
	if q != "" {
		list = store.Search(q)
	}

	util.Success(c, util.Response{
		"items": h.toResp(list),
		"total": len(list),
		"query": q,
	})
}

func (h *NoteHandler) CreateNote(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		return
	}
	var req noteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	n, err := h.Notes.For(owner).Create(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		writeNoteError(c, err)
		return
	}
	util.Success(c, util.Response{"note": h.toResp([]models.Note{n})[0]})
}

func (h *NoteHandler) UpdateNote(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		return
	}
	var req noteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	n, err := h.Notes.For(owner).Update(c.Request.Context(), c.Param("id"), req.Title, req.Content)
	if err != nil {
		writeNoteError(c, err)
		return
	}
	util.Success(c, util.Response{"note": h.toResp([]models.Note{n})[0]})
}

// DeleteNote 需要 ?confirm=true。删除不存在的笔记也返回成功，界面上它本来就不在了。
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		return
	}
	confirmed := c.Query("confirm") == "true"
	approve := notes.ConfirmFunc(func(_ context.Context, _ string) bool { return confirmed })

	id := c.Param("id")
	attempted, err := h.Notes.For(owner).DeleteConfirmed(c.Request.Context(), id, approve)
	if !attempted {
		util.Error(c, http.StatusBadRequest, util.CodeConfirm, notes.DeletePrompt+" Repeat with confirm=true.")
		return
	}
	if err != nil && !errors.Is(err, notes.ErrNotFound) {
		writeNoteError(c, err)
		return
	}
	util.Success(c, util.Response{
		"id":      id,
		"deleted": err == nil,
	})
}

// PreviewNote renders the note's markdown content to HTML.
func (h *NoteHandler) PreviewNote(c *gin.Context) {
	owner, ok := currentOwner(c)
	if !ok {
		return
	}
	store := h.Notes.For(owner)
	id := c.Param("id")

	n, found := store.Get(id)
	if !found {
		// snapshot may be cold after a restart
		if _, err := store.List(c.Request.Context()); err != nil {
			writeNoteError(c, err)
			return
		}
		n, found = store.Get(id)
	}
	if !found {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "note not found")
		return
	}

	html, err := notes.RenderHTML(n.Content)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to render note")
		return
	}
	util.Success(c, util.Response{
		"id":    n.ID,
		"title": n.Title,
		"html":  html,
	})
}
