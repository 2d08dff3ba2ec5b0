package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ginjaninja78/order-report/internal/review"
	"github.com/ginjaninja78/order-report/internal/session"
	"github.com/ginjaninja78/order-report/internal/sheet"
	"github.com/ginjaninja78/order-report/internal/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type generateRequest struct {
	Text     string                `json:"text"`
	Defaults *types.OverrideFields `json:"defaults"`
}

type defaultsRequest struct {
	Defaults *types.OverrideFields `json:"defaults" binding:"required"`
}

type fieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// processRequest carries the page state at the moment "process" is
// pressed. Every part is optional. Rows, when present, replaces the whole
// table so edits still in flight cannot be lost.
type processRequest struct {
	Text     *string                `json:"text"`
	Defaults *types.OverrideFields  `json:"defaults"`
	Rows     []types.OverrideFields `json:"rows"`
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

func (s *Server) getDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"defaults": s.config.Defaults})
}

func (s *Server) createSession(c *gin.Context) {
	sess := s.store.Create()
	sess.SetDefaults(s.config.Defaults)

	s.logger.Debug("session created", zap.String("session", sess.ID), zap.String("request_id", GetRequestID(c)))
	c.JSON(http.StatusCreated, gin.H{
		"id":       sess.ID,
		"defaults": s.config.Defaults,
	})
}

func (s *Server) generate(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	defaults := s.config.Defaults
	if req.Defaults != nil {
		defaults = *req.Defaults
	}

	rows, err := sess.Generate(req.Text, defaults)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":     rows,
		"metadata": sess.Metadata(),
	})
}

func (s *Server) applyDefaults(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req defaultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rows, err := sess.ApplyDefaults(*req.Defaults)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (s *Server) listRows(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": sess.Rows()})
}

func (s *Server) setRow(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	index, ok := rowIndex(c)
	if !ok {
		return
	}

	var fields types.OverrideFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c, err)
		return
	}

	if err := sess.SetOverride(index, fields); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) setField(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	index, ok := rowIndex(c)
	if !ok {
		return
	}

	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := sess.SetField(index, req.Field, req.Value); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) process(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	if req.Text != nil {
		sess.SetText(*req.Text)
	}
	if req.Defaults != nil {
		sess.SetDefaults(*req.Defaults)
	}

	var (
		rep *session.Report
		err error
	)
	if req.Rows != nil {
		rep, err = sess.ProcessRows(req.Rows, s.now())
	} else {
		rep, err = sess.Process(s.now())
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info("report processed",
		zap.String("session", sess.ID),
		zap.Int("orders", rep.Stats.Total),
		zap.Int("custom", rep.Stats.Custom),
		zap.String("request_id", GetRequestID(c)))
	c.JSON(http.StatusOK, rep)
}

func (s *Server) results(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	mode, err := review.ParseMode(c.Query("mode"))
	if err != nil {
		badRequest(c, err)
		return
	}

	results, err := sess.Filter(mode, c.Query("q"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
		"empty":   len(results) == 0,
	})
}

func (s *Server) downloadReport(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	rep, err := sess.LastReport(s.now())
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+rep.FileName+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(rep.Text))
}

func (s *Server) downloadReview(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	mode, err := review.ParseMode(c.Query("mode"))
	if err != nil {
		badRequest(c, err)
		return
	}
	results, err := sess.Filter(mode, c.Query("q"))
	if err != nil {
		s.fail(c, err)
		return
	}

	f, err := sheet.WriteReview(sess.Metadata(), results)
	if err != nil {
		s.fail(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="review.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if _, err := f.WriteTo(c.Writer); err != nil {
		s.logger.Error("failed to stream review workbook", zap.Error(err), zap.String("request_id", GetRequestID(c)))
	}
}

func (s *Server) clearSession(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	sess.Clear()
	if c.Query("drop") == "true" {
		s.store.Delete(sess.ID)
	}
	c.Status(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

// session looks up the :id session and writes a 404 if it is unknown.
func (s *Server) session(c *gin.Context) (*session.Session, bool) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return sess, true
}

func rowIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "row index must be a number"})
		return 0, false
	}
	return index, true
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// fail maps session errors to HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrIndexOutOfRange):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrNotGenerated), errors.Is(err, session.ErrRowCount):
		status = http.StatusConflict
	case errors.Is(err, session.ErrEmptyInput), errors.Is(err, session.ErrNoOrders), errors.Is(err, session.ErrUnknownField):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err), zap.String("request_id", GetRequestID(c)))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
