package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/procs/internal/instrument"
	"github.com/mesh-intelligence/procs/internal/store"
)

// browser replays the session cookie across requests.
type browser struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			b.cookie = c
		}
	}
	return rec
}

func newTestServer(t *testing.T) (afero.Fs, *Server) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/study", 0o755))
	catalog, err := instrument.Default()
	require.NoError(t, err)

	s, err := newServer(Config{
		Store:       store.New(nil),
		Picker:      &store.PathPicker{Fs: fsys, Base: "/"},
		Instruments: catalog,
	})
	require.NoError(t, err)
	return fsys, s
}

func allAnswers(v string) url.Values {
	form := url.Values{}
	for i := 1; i <= 10; i++ {
		form.Set("question"+strconv.Itoa(i), v)
	}
	return form
}

func TestStartPage(t *testing.T) {
	_, s := newTestServer(t)
	b := &browser{t: t, h: s.routes()}

	rec := b.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "PROCS Assessment")
	assert.Contains(t, body, `value="listener"`)
	assert.Contains(t, body, "No directory selected")
	assert.NotContains(t, body, "Compatibility Issue")
	require.NotNil(t, b.cookie)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestFullFlowWritesRecord(t *testing.T) {
	fsys, s := newTestServer(t)
	b := &browser{t: t, h: s.routes()}
	b.do(http.MethodGet, "/", nil)

	rec := b.do(http.MethodPost, "/start", url.Values{
		"user_id": {"p007"}, "folder": {"/study"}, "role": {"speaker"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/questionnaire", rec.Header().Get("Location"))

	rec = b.do(http.MethodGet, "/questionnaire", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<strong>participate.</strong>")
	assert.Contains(t, rec.Body.String(), "Communication Participation Assessment")

	rec = b.do(http.MethodPost, "/submit", allAnswers("agree"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/done", rec.Header().Get("Location"))

	data, err := afero.ReadFile(fsys, "/study/p007_procs.csv")
	require.NoError(t, err)
	assert.Equal(t,
		"User ID,Question 1,Question 2,Question 3,Question 4,Question 5,Question 6,Question 7,Question 8,Question 9,Question 10\n"+
			"p007,agree,agree,agree,agree,agree,agree,agree,agree,agree,agree",
		string(data))

	rec = b.do(http.MethodGet, "/done", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "saved successfully for user ID: <strong>p007</strong>")

	rec = b.do(http.MethodPost, "/restart", nil)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	rec = b.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Selected: study")
}

func TestExistingRecordGoesStraightToDone(t *testing.T) {
	fsys, s := newTestServer(t)
	require.NoError(t, afero.WriteFile(fsys, "/study/p007_listener_procs.csv", []byte("keep"), 0o644))
	b := &browser{t: t, h: s.routes()}

	rec := b.do(http.MethodPost, "/start", url.Values{
		"user_id": {"p007"}, "folder": {"/study"}, "role": {"listener"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/done", rec.Header().Get("Location"))

	rec = b.do(http.MethodGet, "/questionnaire", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code, "questionnaire is never shown")

	rec = b.do(http.MethodGet, "/done", nil)
	assert.Contains(t, rec.Body.String(), "were already saved")

	data, err := afero.ReadFile(fsys, "/study/p007_listener_procs.csv")
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestStartValidationErrors(t *testing.T) {
	_, s := newTestServer(t)
	b := &browser{t: t, h: s.routes()}

	rec := b.do(http.MethodPost, "/start", url.Values{"role": {"speaker"}, "folder": {"/study"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a user ID")

	b = &browser{t: t, h: s.routes()}
	rec = b.do(http.MethodPost, "/start", url.Values{"user_id": {"p1"}, "role": {"speaker"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please select a directory")
	assert.Contains(t, rec.Body.String(), `value="p1"`, "entered user ID is preserved")
}

func TestSelectFolderAction(t *testing.T) {
	_, s := newTestServer(t)
	b := &browser{t: t, h: s.routes()}

	rec := b.do(http.MethodPost, "/start", url.Values{"user_id": {"p1"}, "folder": {"/nope"}, "action": {"select"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to select directory")
	assert.Contains(t, rec.Body.String(), `value="p1"`)

	rec = b.do(http.MethodPost, "/start", url.Values{"user_id": {"p1"}, "folder": {"/study"}, "action": {"select"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Selected: study")
}

func TestIncompleteSubmitKeepsAnswers(t *testing.T) {
	fsys, s := newTestServer(t)
	b := &browser{t: t, h: s.routes()}
	b.do(http.MethodPost, "/start", url.Values{"user_id": {"p2"}, "folder": {"/study"}, "role": {"general"}})

	form := allAnswers("disagree")
	form.Del("question10")
	rec := b.do(http.MethodPost, "/submit", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please answer every question")
	assert.Contains(t, rec.Body.String(), `value="disagree" aria-label="Disagree" checked`)

	exists, err := afero.Exists(fsys, "/study/p2_general_procs.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReselectFolderFromQuestionnaire(t *testing.T) {
	fsys, s := newTestServer(t)
	require.NoError(t, fsys.MkdirAll("/elsewhere", 0o755))
	b := &browser{t: t, h: s.routes()}
	b.do(http.MethodPost, "/start", url.Values{"user_id": {"p3"}, "folder": {"/study"}, "role": {"speaker"}})

	rec := b.do(http.MethodPost, "/directory", url.Values{"folder": {"/elsewhere"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Selected: elsewhere")

	b.do(http.MethodPost, "/submit", allAnswers("strongly_agree"))
	exists, err := afero.Exists(fsys, "/elsewhere/p3_procs.csv")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInvalidTokenRejected(t *testing.T) {
	_, s := newTestServer(t)
	b := &browser{t: t, h: s.routes()}
	b.do(http.MethodPost, "/start", url.Values{"user_id": {"p4"}, "folder": {"/study"}, "role": {"speaker"}})

	form := allAnswers("agree")
	form.Set("question3", "neutral")
	rec := b.do(http.MethodPost, "/submit", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "unrecognized response value")
}

func TestSessionsAreIsolated(t *testing.T) {
	_, s := newTestServer(t)
	h := s.routes()
	first := &browser{t: t, h: h}
	second := &browser{t: t, h: h}

	first.do(http.MethodPost, "/start", url.Values{"user_id": {"a"}, "folder": {"/study"}, "role": {"speaker"}})
	rec := second.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "second browser starts fresh")
	assert.Equal(t, 2, s.sessions.len())
}

func TestReadOnlyEnvironmentShowsAdvisory(t *testing.T) {
	catalog, err := instrument.Default()
	require.NoError(t, err)
	s, err := newServer(Config{
		Store:       store.New(nil),
		Picker:      &store.PathPicker{Fs: afero.NewReadOnlyFs(afero.NewMemMapFs())},
		Instruments: catalog,
	})
	require.NoError(t, err)

	b := &browser{t: t, h: s.routes()}
	rec := b.do(http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), "Environment Compatibility Issue")
}
