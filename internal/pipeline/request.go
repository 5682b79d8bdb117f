package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/tweetsense/internal/models"
)

const (
	DEFAULT_LANGUAGE = "en"
	DEFAULT_LIMIT    = 100
	MIN_LIMIT        = 1
	MAX_LIMIT        = 1000
	DATE_LAYOUT      = "2006-01-02"
)

var (
	SupportedLanguages = []string{"en", "es", "it", "fr", "ar"}

	ErrInvalidRequest = errors.New("invalid analysis request")
)

// ParseRequest builds a request from raw form values. Blank text is reported
// as ErrEmptyInput before any reserved field is looked at; blank reserved
// fields are left unset for Validate to default.
func ParseRequest(text, language, limit, startDate, endDate string) (models.AnalyzeRequest, error) {
	req := models.AnalyzeRequest{
		Text:     text,
		Language: strings.TrimSpace(language),
	}
	if strings.TrimSpace(text) == "" {
		return req, ErrEmptyInput
	}

	if raw := strings.TrimSpace(limit); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("%w: limit %q is not a number", ErrInvalidRequest, raw)
		}
		req.Limit = &n
	}

	var err error
	if req.StartDate, err = parseDate("start date", startDate); err != nil {
		return req, err
	}
	if req.EndDate, err = parseDate("end date", endDate); err != nil {
		return req, err
	}

	return req, nil
}

func parseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DATE_LAYOUT, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not a YYYY-MM-DD date", ErrInvalidRequest, field, raw)
	}
	return &t, nil
}

// Validate fills defaults for unset reserved fields and checks them. An
// explicit limit of 0 is out of range, not unset.
func Validate(req *models.AnalyzeRequest) error {
	if req.Language == "" {
		req.Language = DEFAULT_LANGUAGE
	}
	if req.Limit == nil {
		limit := DEFAULT_LIMIT
		req.Limit = &limit
	}

	if !slices.Contains(SupportedLanguages, req.Language) {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidRequest, req.Language)
	}
	if *req.Limit < MIN_LIMIT || *req.Limit > MAX_LIMIT {
		return fmt.Errorf("%w: limit must be between %d and %d", ErrInvalidRequest, MIN_LIMIT, MAX_LIMIT)
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidRequest)
	}
	return nil
}
