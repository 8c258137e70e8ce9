// internal/server/handler.go

package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"autoshop/internal/archive"
)

// errBadParam 代表路徑或查詢參數格式錯誤。
var errBadParam = errors.New("bad parameter")

// intParam 讀取整數路徑參數。
func intParam(c *gin.Context, name string) (int, error) {
	raw := c.Param(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", errBadParam, name, raw)
	}
	return n, nil
}

// createAuto 處理 POST /autos → 201 與新 ID。
func (s *Server) createAuto(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErr(c, err, http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		writeErr(c, err, http.StatusBadRequest)
		return
	}
	id, err := s.Registry.Create(req.fields())
	if err != nil {
		writeErr(c, err, 0)
		return
	}
	c.JSON(http.StatusCreated, id)
}

// listAutos 處理 GET /autos。
func (s *Server) listAutos(c *gin.Context) {
	c.JSON(http.StatusOK, s.Registry.List())
}

// getAuto 處理 GET /autos/{id}；不存在回傳 404。
func (s *Server) getAuto(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		writeErr(c, err, 0)
		return
	}
	v, err := s.Registry.Get(id)
	if err != nil {
		writeErr(c, err, 0)
		return
	}
	c.JSON(http.StatusOK, v)
}

// updateAuto 處理 PUT /autos/{id} → true/false。
func (s *Server) updateAuto(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		writeErr(c, err, 0)
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErr(c, err, http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		writeErr(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, s.Registry.Update(id, req.patch()))
}

// deleteAuto 處理 DELETE /autos/{id} → true/false。
func (s *Server) deleteAuto(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		writeErr(c, err, 0)
		return
	}
	c.JSON(http.StatusOK, s.Registry.Delete(id))
}

// restoreAuto 處理 POST /autos/{id}/restore/{version} → true/false。
func (s *Server) restoreAuto(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		writeErr(c, err, 0)
		return
	}
	version, err := intParam(c, "version")
	if err != nil {
		writeErr(c, err, 0)
		return
	}
	c.JSON(http.StatusOK, s.Registry.Restore(id, version))
}

// autoHistory 處理 GET /autos/{id}/history[?format=json|yaml]。
func (s *Server) autoHistory(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		writeErr(c, err, 0)
		return
	}
	history, err := s.Registry.History(id)
	if err != nil {
		writeErr(c, err, 0)
		return
	}
	format := c.DefaultQuery("format", archive.FormatJSON)
	var buf bytes.Buffer
	if err := archive.Encode(&buf, archive.NewDocument(id, history), format); err != nil {
		writeErr(c, err, 0)
		return
	}
	c.Data(http.StatusOK, archive.ContentType(format), buf.Bytes())
}

// health 提供健康檢查端點：GET /health。
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
