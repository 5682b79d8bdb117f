package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/tweetsense/internal/normalize"
	"github.com/spacesedan/tweetsense/internal/pipeline"
	"github.com/spacesedan/tweetsense/internal/searchlog"
	"github.com/spacesedan/tweetsense/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenScorer struct{}

func (brokenScorer) Score(context.Context, string) (sentiment.Scores, error) {
	return sentiment.Scores{}, sentiment.ErrScorerFailed
}

type fixedScorer struct {
	scores sentiment.Scores
}

func (f fixedScorer) Score(context.Context, string) (sentiment.Scores, error) {
	return f.scores, nil
}

func newTestServer(scorer sentiment.Scorer) *Server {
	n := normalize.New(normalize.MapLemmatizer{"days": "day"}, normalize.Options{})
	return New(pipeline.NewAnalyzer(n, scorer), NewSessionStore(time.Hour, 100), nil)
}

// client carries the session cookie between requests.
type client struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func (c *client) do(req *http.Request) *http.Response {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := c.srv.App().Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == SESSION_COOKIE {
			c.cookie = ck
		}
	}
	return resp
}

func (c *client) postJSON(path, body string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) postForm(path string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) get(path string) *http.Response {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAnalyzeJSON(t *testing.T) {
	c := &client{t: t, srv: newTestServer(sentiment.NewVaderScorer())}

	resp := c.postJSON("/analyze", `{"text":"I love sunny days","language":"en"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "Positive", body["sentiment"])
	assert.Equal(t, "love sunny day", body["cleaned_text"])
	assert.Regexp(t, `^0\.\d\d$`, body["polarity"])
	assert.Regexp(t, `^\d\.\d\d$`, body["subjectivity"])
	assert.Len(t, body["chart"], 2)
	assert.NotNil(t, c.cookie)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	c := &client{t: t, srv: newTestServer(sentiment.NewVaderScorer())}

	resp := c.postJSON("/analyze", `{"text":"   "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, pipeline.ErrEmptyInput.Error(), decode(t, resp)["warning"])

	body := decode(t, c.get("/searches"))
	assert.Equal(t, NO_SEARCHES_MESSAGE, body["info"])
	assert.Empty(t, body["searches"])
}

func TestAnalyzeInvalidFields(t *testing.T) {
	c := &client{t: t, srv: newTestServer(sentiment.NewVaderScorer())}

	for _, body := range []string{
		`{"text":"hi","language":"de"}`,
		`{"text":"hi","limit":5000}`,
		`{"text":"hi","start_date":"yesterday"}`,
		`{"text":`,
	} {
		resp := c.postJSON("/analyze", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestAnalyzeScorerFailure(t *testing.T) {
	c := &client{t: t, srv: newTestServer(brokenScorer{})}

	resp := c.postJSON("/analyze", `{"text":"hello there"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decode(t, c.get("/searches"))
	assert.Equal(t, NO_SEARCHES_MESSAGE, body["info"])
}

func TestAnalyzeForm(t *testing.T) {
	c := &client{t: t, srv: newTestServer(sentiment.NewVaderScorer())}

	form := url.Values{"text": {"This is a table"}, "language": {"it"}, "limit": {"100"}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp := c.do(req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Neutral")
	assert.Contains(t, string(page), "<pre>table</pre>")
}

func TestSearchesAreKeptPerSession(t *testing.T) {
	srv := newTestServer(sentiment.NewVaderScorer())
	alice := &client{t: t, srv: srv}
	bob := &client{t: t, srv: srv}

	alice.postJSON("/analyze", `{"text":"I love sunny days"}`)
	alice.postJSON("/analyze", `{"text":"This is a table"}`)
	bob.postJSON("/analyze", `{"text":"This is a table"}`)

	searches := decode(t, alice.get("/searches"))["searches"].([]any)
	require.Len(t, searches, 2)
	assert.Equal(t, "I love sunny days", searches[0].(map[string]any)["tweet"])
	assert.Equal(t, "This is a table", searches[1].(map[string]any)["tweet"])

	assert.Len(t, decode(t, bob.get("/searches"))["searches"], 1)
	assert.Equal(t, 2, srv.sessions.Len())
}

func TestExportSearches(t *testing.T) {
	c := &client{t: t, srv: newTestServer(sentiment.NewVaderScorer())}

	resp := c.get("/searches/export")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	c.postJSON("/analyze", `{"text":"I love sunny days"}`)
	c.postJSON("/analyze", `{"text":"This is a table"}`)

	resp = c.get("/searches/export")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), searchlog.EXPORT_FILENAME)

	records, err := searchlog.ParseExport(resp.Body)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "I love sunny days", records[0].InputText)
	assert.Equal(t, "Positive", string(records[0].Label))
	assert.Equal(t, "Neutral", string(records[1].Label))
}

func TestIndexAndSearchesPage(t *testing.T) {
	c := &client{t: t, srv: newTestServer(sentiment.NewVaderScorer())}

	resp := c.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(page), "View Recent Searches")

	req := httptest.NewRequest(http.MethodGet, "/searches", nil)
	req.Header.Set("Accept", "text/html")
	page, _ = io.ReadAll(c.do(req).Body)
	assert.Contains(t, string(page), NO_SEARCHES_MESSAGE)
}

func TestHealth(t *testing.T) {
	c := &client{t: t, srv: newTestServer(sentiment.NewVaderScorer())}
	assert.Equal(t, "disabled", decode(t, c.get("/healthz"))["cache"])

	healthy := &atomic.Bool{}
	healthy.Store(true)
	n := normalize.New(normalize.MapLemmatizer{}, normalize.Options{})
	srv := New(pipeline.NewAnalyzer(n, sentiment.NewVaderScorer()), NewSessionStore(time.Hour, 100), healthy)
	c = &client{t: t, srv: srv}
	assert.Equal(t, "healthy", decode(t, c.get("/healthz"))["cache"])
}

func TestReadOnlyRequestsDoNotStartSessions(t *testing.T) {
	srv := newTestServer(sentiment.NewVaderScorer())

	for i := 0; i < 200; i++ {
		for _, path := range []string{"/", "/searches", "/searches/export", "/healthz"} {
			resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
			require.NoError(t, err)
			assert.Empty(t, resp.Cookies(), path)
		}
	}
	assert.Zero(t, srv.sessions.Len())

	req := httptest.NewRequest(http.MethodGet, "/searches", nil)
	req.AddCookie(&http.Cookie{Name: SESSION_COOKIE, Value: "made-up"})
	_, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Zero(t, srv.sessions.Len())
}

func TestFailedAnalysisDoesNotStartSession(t *testing.T) {
	srv := newTestServer(brokenScorer{})
	c := &client{t: t, srv: srv}

	c.postJSON("/analyze", `{"text":"   "}`)
	c.postJSON("/analyze", `{"text":"hi","language":"de"}`)
	c.postJSON("/analyze", `{"text":"hello there"}`)

	assert.Nil(t, c.cookie)
	assert.Zero(t, srv.sessions.Len())
}

func TestSessionStartsOnFirstAppend(t *testing.T) {
	srv := newTestServer(sentiment.NewVaderScorer())
	c := &client{t: t, srv: srv}

	c.postJSON("/analyze", `{"text":"I love sunny days"}`)
	require.NotNil(t, c.cookie)
	first := c.cookie.Value

	resp := c.postJSON("/analyze", `{"text":"This is a table"}`)
	assert.Empty(t, resp.Cookies())
	assert.Equal(t, first, c.cookie.Value)
	assert.Equal(t, 1, srv.sessions.Len())
	assert.Len(t, decode(t, c.get("/searches"))["searches"], 2)
}

func TestEmptyTextWinsOverBadReservedFields(t *testing.T) {
	c := &client{t: t, srv: newTestServer(sentiment.NewVaderScorer())}

	for _, body := range []string{
		`{"text":" ","start_date":"x"}`,
		`{"text":"","limit":0,"language":"de"}`,
	} {
		resp := c.postJSON("/analyze", body)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, body)
		assert.Equal(t, pipeline.ErrEmptyInput.Error(), decode(t, resp)["warning"], body)
	}

	resp := c.postForm("/analyze", url.Values{"text": {"   "}, "start_date": {"garbage"}, "limit": {"many"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestExplicitZeroLimitRejected(t *testing.T) {
	c := &client{t: t, srv: newTestServer(sentiment.NewVaderScorer())}

	resp := c.postJSON("/analyze", `{"text":"hi","limit":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.postForm("/analyze", url.Values{"text": {"hi"}, "limit": {"0"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.postJSON("/analyze", `{"text":"hi"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChartMarksNegativePolarity(t *testing.T) {
	c := &client{t: t, srv: newTestServer(fixedScorer{scores: sentiment.Scores{Polarity: -0.6, Subjectivity: 0.4}})}

	resp := c.postForm("/analyze", url.Values{"text": {"rain again"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(page), `class="bar polarity negative" style="width: 60%"`)
	assert.Contains(t, string(page), `class="bar subjectivity" style="width: 40%"`)
	assert.Contains(t, string(page), "Polarity (-0.60)")
}
