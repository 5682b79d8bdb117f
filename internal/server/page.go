package server

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/spacesedan/tweetsense/internal/models"
	"github.com/spacesedan/tweetsense/internal/pipeline"
)

//go:embed templates/index.html
var indexHTML string

var pageTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"barWidth": func(v float64) string {
		return fmt.Sprintf("%.0f%%", math.Min(math.Abs(v), 1)*100)
	},
	"barClass": func(bar models.ChartBar) string {
		class := "bar subjectivity"
		if bar.Metric == "Polarity" {
			class = "bar polarity"
		}
		if bar.Value < 0 {
			class += " negative"
		}
		return class
	},
	"labelColor": func(l models.Label) string {
		switch l {
		case models.LabelPositive:
			return "green"
		case models.LabelNegative:
			return "red"
		default:
			return "goldenrod"
		}
	},
	"metric": formatMetric,
}).Parse(indexHTML))

type pageData struct {
	Warning      string
	Info         string
	Result       *resultView
	ShowSearches bool
	Searches     []models.AnalysisRecord
	Languages    []string
	MinLimit     int
	MaxLimit     int
	DefaultLimit int
}

func renderPage(c *fiber.Ctx, status int, data pageData) error {
	data.Languages = pipeline.SupportedLanguages
	data.MinLimit = pipeline.MIN_LIMIT
	data.MaxLimit = pipeline.MAX_LIMIT
	data.DefaultLimit = pipeline.DEFAULT_LIMIT

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
