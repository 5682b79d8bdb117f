package server

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/spacesedan/tweetsense/internal/models"
	"github.com/spacesedan/tweetsense/internal/pipeline"
	"github.com/spacesedan/tweetsense/internal/searchlog"
)

const NO_SEARCHES_MESSAGE = "No recent searches available. Start analyzing some tweets!"

type analyzeBody struct {
	Text      string `json:"text"`
	Language  string `json:"language"`
	Limit     *int   `json:"limit"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type resultView struct {
	Polarity     string            `json:"polarity"`
	Subjectivity string            `json:"subjectivity"`
	Sentiment    models.Label      `json:"sentiment"`
	Cleaned      string            `json:"cleaned_text"`
	Chart        []models.ChartBar `json:"chart"`
}

func newResultView(res models.AnalyzeResult) *resultView {
	return &resultView{
		Polarity:     formatMetric(res.Record.Polarity),
		Subjectivity: formatMetric(res.Record.Subjectivity),
		Sentiment:    res.Record.Label,
		Cleaned:      res.Cleaned,
		Chart:        res.Chart,
	}
}

func formatMetric(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// existingLog returns the caller's search log without starting a session.
func (s *Server) existingLog(c *fiber.Ctx) (*searchlog.SearchLog, bool) {
	return s.sessions.Lookup(c.Cookies(SESSION_COOKIE))
}

func setSessionCookie(c *fiber.Ctx, id string) {
	c.Cookie(&fiber.Cookie{
		Name:     SESSION_COOKIE,
		Value:    id,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func parseAnalyzeRequest(c *fiber.Ctx) (models.AnalyzeRequest, error) {
	if !c.Is("json") {
		return pipeline.ParseRequest(
			c.FormValue("text"),
			c.FormValue("language"),
			c.FormValue("limit"),
			c.FormValue("start_date"),
			c.FormValue("end_date"),
		)
	}

	var body analyzeBody
	if err := c.BodyParser(&body); err != nil {
		return models.AnalyzeRequest{}, fmt.Errorf("%w: invalid JSON", pipeline.ErrInvalidRequest)
	}

	req, err := pipeline.ParseRequest(body.Text, body.Language, "", body.StartDate, body.EndDate)
	if err != nil {
		return req, err
	}
	req.Limit = body.Limit
	return req, nil
}

func (s *Server) Index(c *fiber.Ctx) error {
	return renderPage(c, fiber.StatusOK, pageData{})
}

// Analyze starts a session only once a record is appended, so clients that
// never analyze anything leave nothing behind.
func (s *Server) Analyze(c *fiber.Ctx) error {
	asHTML := !c.Is("json")

	req, err := parseAnalyzeRequest(c)
	if err != nil {
		return s.analyzeFailure(c, err, asHTML)
	}

	log, known := s.existingLog(c)
	if !known {
		log = searchlog.New()
	}

	res, err := s.analyzer.Analyze(c.UserContext(), log, req)
	if err != nil {
		return s.analyzeFailure(c, err, asHTML)
	}
	if !known {
		setSessionCookie(c, s.sessions.Add(log))
	}

	view := newResultView(res)
	if asHTML {
		return renderPage(c, fiber.StatusOK, pageData{Result: view})
	}
	return c.JSON(view)
}

func (s *Server) analyzeFailure(c *fiber.Ctx, err error, asHTML bool) error {
	var status int
	switch {
	case errors.Is(err, pipeline.ErrEmptyInput):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, pipeline.ErrInvalidRequest):
		status = fiber.StatusBadRequest
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if asHTML {
		return renderPage(c, status, pageData{Warning: err.Error()})
	}
	return c.Status(status).JSON(fiber.Map{"warning": err.Error()})
}

func (s *Server) RecentSearches(c *fiber.Ctx) error {
	var records []models.AnalysisRecord
	if log, ok := s.existingLog(c); ok {
		records = log.Records()
	}

	if c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMETextHTML {
		data := pageData{ShowSearches: true, Searches: records}
		if len(records) == 0 {
			data.Info = NO_SEARCHES_MESSAGE
		}
		return renderPage(c, fiber.StatusOK, data)
	}

	if len(records) == 0 {
		return c.JSON(fiber.Map{
			"info":     NO_SEARCHES_MESSAGE,
			"searches": []models.AnalysisRecord{},
		})
	}
	return c.JSON(fiber.Map{"searches": records})
}

func (s *Server) ExportSearches(c *fiber.Ctx) error {
	log, ok := s.existingLog(c)
	if !ok || log.IsEmpty() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"info": NO_SEARCHES_MESSAGE})
	}

	var buf bytes.Buffer
	if err := log.Export(&buf); err != nil {
		return fmt.Errorf("failed to export searches: %w", err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+searchlog.EXPORT_FILENAME+`"`)
	return c.Send(buf.Bytes())
}

func (s *Server) Health(c *fiber.Ctx) error {
	cache := "disabled"
	if s.cacheHealthy != nil {
		cache = "unhealthy"
		if s.cacheHealthy.Load() {
			cache = "healthy"
		}
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"cache":    cache,
		"sessions": s.sessions.Len(),
	})
}
