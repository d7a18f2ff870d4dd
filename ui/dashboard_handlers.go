package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"askmydata/domain/core"
	"askmydata/domain/session"
	"askmydata/internal/analysis"
	interactor "askmydata/internal/session"
	"askmydata/ui/middleware"
	"askmydata/ui/services"

	"github.com/gin-gonic/gin"
)

var allowedUploadExtensions = map[string]bool{".csv": true, ".tsv": true, ".txt": true, ".xlsx": true}

// pageData feeds index.html
type pageData struct {
	Notice       *session.Notice
	DatasetName  string
	Dashboard    *analysis.Dashboard
	DashboardErr string
	Transcript   []services.MessageView
	History      []services.HistoryView
	HistoryErr   string
	MaxUploadMB  int64
}

func sessionID(c *gin.Context) core.SessionID {
	if v, ok := c.Get(middleware.SessionCookie); ok {
		if id, ok := v.(core.SessionID); ok {
			return id
		}
	}
	return core.NewSessionID()
}

func (s *Server) loadState(c *gin.Context) (session.State, error) {
	return s.sessions.Get(c.Request.Context(), sessionID(c))
}

func (s *Server) saveState(c *gin.Context, state session.State) {
	if err := s.sessions.Save(c.Request.Context(), state); err != nil {
		s.logger.Error("saving session %s: %v", state.ID, err)
	}
}

// handleIndex renders the dashboard: dataset sections when an upload was
// accepted, the session transcript and the full history, latest first.
// The notice left by the previous action is shown once.
func (s *Server) handleIndex(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := s.loadState(c)
	if err != nil {
		s.logger.Error("loading session: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}

	data := pageData{
		Notice:      state.Notice,
		Transcript:  s.renderer.RenderTranscript(state.Transcript),
		MaxUploadMB: s.maxUpload >> 20,
	}

	if state.HasDataset() {
		data.DatasetName = state.Dataset.Name
		dash, err := analysis.BuildDashboard(ctx, state.Dataset)
		if err != nil {
			s.logger.Warn("dashboard for %s: %v", state.Dataset.Name, err)
			data.DashboardErr = "Could not build the dashboard for this file."
		}
		data.Dashboard = dash
	}

	history, err := s.interactor.History(ctx)
	if err != nil {
		s.logger.Error("loading history: %v", err)
		data.HistoryErr = "Could not load the chat history."
	}
	data.History = s.renderer.RenderHistory(history)

	s.renderTemplate(c, "index.html", data)

	if state.Notice != nil {
		state.Notice = nil
		s.saveState(c, state)
	}
}

// handleUpload accepts a multipart "dataset" file. A rejected upload keeps
// whatever dataset the session already had.
func (s *Server) handleUpload(c *gin.Context) {
	state, err := s.loadState(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}
	defer c.Redirect(http.StatusSeeOther, "/")

	if s.maxUpload > 0 {
		// room for the multipart envelope around the file itself
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload+1<<20)
	}

	file, header, err := c.Request.FormFile("dataset")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			state.Notice = s.tooLargeNotice()
		} else {
			s.logger.Warn("upload without file: %v", err)
			state.Notice = &session.Notice{Level: interactor.NoticeWarning, Text: "Please choose a CSV file to upload."}
		}
		s.saveState(c, state)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExtensions[ext] {
		state.Notice = &session.Notice{
			Level: interactor.NoticeError,
			Text:  fmt.Sprintf("Unsupported file type %q. Upload a .csv or .xlsx file.", ext),
		}
		s.saveState(c, state)
		return
	}

	var body io.Reader = file
	if s.maxUpload > 0 {
		body = io.LimitReader(file, s.maxUpload+1)
	}
	content, err := io.ReadAll(body)
	if err != nil || (s.maxUpload > 0 && int64(len(content)) > s.maxUpload) {
		state.Notice = s.tooLargeNotice()
		s.saveState(c, state)
		return
	}

	state, _ = s.interactor.Upload(state, header.Filename, content)
	s.saveState(c, state)
}

func (s *Server) tooLargeNotice() *session.Notice {
	return &session.Notice{
		Level: interactor.NoticeError,
		Text:  fmt.Sprintf("File too large. The limit is %d MB.", s.maxUpload>>20),
	}
}

// handleAsk answers the "question" form field against the session dataset
func (s *Server) handleAsk(c *gin.Context) {
	state, err := s.loadState(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}

	state, record, err := s.interactor.Ask(c.Request.Context(), state, c.PostForm("question"))
	if err != nil {
		s.logger.Debug("question rejected: %v", err)
	} else {
		s.logger.Info("answered question #%d", record.ID)
	}
	s.saveState(c, state)
	c.Redirect(http.StatusSeeOther, "/")
}
