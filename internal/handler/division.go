package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/Dandandan2024/PropertyCalculator/internal/division"
	"github.com/Dandandan2024/PropertyCalculator/internal/util"

	"github.com/gin-gonic/gin"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DivisionHandler 负责财产分割计算器的接口
type DivisionHandler struct {
	Engines  *division.Registry
	FileName string
}

func NewDivisionHandler(reg *division.Registry, fileName string) *DivisionHandler {
	if fileName == "" {
		fileName = "property_division"
	}
	return &DivisionHandler{Engines: reg, FileName: fileName}
}

func (h *DivisionHandler) engine(c *gin.Context) (*division.Engine, bool) {
	owner, ok := currentOwner(c)
	if !ok {
		return nil, false
	}
	return h.Engines.For(owner), true
}

func (h *DivisionHandler) category(c *gin.Context) (division.Category, bool) {
	cat, err := division.ParseCategory(c.Param("category"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return "", false
	}
	return cat, true
}

// fieldValue turns a JSON value into the raw text a form input would hold,
// so numbers and strings both go through the lenient parser.
func fieldValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

// bindFields reads a {"field": value} body. An empty body, sized or chunked,
// means no fields. Keys are returned sorted so updates apply in a stable order.
func bindFields(c *gin.Context) (map[string]json.RawMessage, []string, bool) {
	fields := map[string]json.RawMessage{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&fields); err != nil && !errors.Is(err, io.EOF) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
			return nil, nil, false
		}
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fields, keys, true
}

// applyFields sets every field through Dispatch, which rejects unknown names.
func applyFields(e *division.Engine, cat division.Category, id division.ItemID, fields map[string]json.RawMessage, keys []string) error {
	for _, k := range keys {
		_, err := e.Dispatch(division.Command{
			Op:       division.OpSet,
			Category: string(cat),
			ID:       id,
			Field:    division.Field(k),
			Value:    fieldValue(fields[k]),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// GetSheet 返回两张表、每行的分配结果和汇总
func (h *DivisionHandler) GetSheet(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	util.Success(c, util.Response{"sheet": e.Sheet()})
}

// AddItem appends a row, optionally filled from the body.
func (h *DivisionHandler) AddItem(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	cat, ok := h.category(c)
	if !ok {
		return
	}
	fields, keys, ok := bindFields(c)
	if !ok {
		return
	}

	id := e.AddRow(cat)
	if err := applyFields(e, cat, id, fields, keys); err != nil {
		e.RemoveLineItem(cat, id)
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	util.Success(c, util.Response{
		"id":    id,
		"sheet": e.Sheet(),
	})
}

// UpdateItem 修改一行中的字段，数字按宽松规则解析
func (h *DivisionHandler) UpdateItem(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	cat, ok := h.category(c)
	if !ok {
		return
	}
	fields, keys, ok := bindFields(c)
	if !ok {
		return
	}

	id := division.ItemID(c.Param("id"))
	if err := applyFields(e, cat, id, fields, keys); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	util.Success(c, util.Response{
		"id":    id,
		"sheet": e.Sheet(),
	})
}

func (h *DivisionHandler) RemoveItem(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	cat, ok := h.category(c)
	if !ok {
		return
	}
	e.RemoveLineItem(cat, division.ItemID(c.Param("id")))
	util.Success(c, util.Response{"sheet": e.Sheet()})
}

// RunCommand dispatches one named command.
func (h *DivisionHandler) RunCommand(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	var cmd division.Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	id, err := e.Dispatch(cmd)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	util.Success(c, util.Response{
		"id":    id,
		"sheet": e.Sheet(),
	})
}

// ExportCSV 导出 CSV，格式与计算器页面的导出一致
func (h *DivisionHandler) ExportCSV(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", h.FileName))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(e.ExportCSV()))
}

// ExportXLSX 导出 Excel
func (h *DivisionHandler) ExportXLSX(c *gin.Context) {
	e, ok := h.engine(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := e.ExportXLSX(&buf); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to build workbook")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", h.FileName))
	c.Data(http.StatusOK, xlsxMime, buf.Bytes())
}
