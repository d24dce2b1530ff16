package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/portfolio/ai/chat"
	"github.com/hrygo/portfolio/ai/metrics"
	"github.com/hrygo/portfolio/ai/responder"
	"github.com/hrygo/portfolio/internal/profile"
	"github.com/hrygo/portfolio/plugin/notify"
	"github.com/hrygo/portfolio/store"
	"github.com/hrygo/portfolio/store/db/sqlite"
	"github.com/hrygo/portfolio/store/seed"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []*store.ContactMessage
}

func (*recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Notify(_ context.Context, msg *store.ContactMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

type testServer struct {
	echo       *echo.Echo
	service    *APIV1Service
	store      *store.Store
	dispatcher *notify.Dispatcher
	notifier   *recordingNotifier
}

func newTestServer(t *testing.T, prof *profile.Profile, chatOpts ...chat.Option) *testServer {
	t.Helper()
	if prof == nil {
		prof = &profile.Profile{Mode: "dev", Driver: "sqlite"}
	}
	prof.DSN = filepath.Join(t.TempDir(), "api.db")

	driver, err := sqlite.NewDB(prof)
	require.NoError(t, err)
	s := store.New(driver, prof)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })

	exporter := metrics.NewPrometheusExporter(metrics.Config{})
	notifier := &recordingNotifier{}
	dispatcher := notify.NewDispatcher(exporter, notifier)
	chatOpts = append([]chat.Option{chat.WithTypingDelay(func() time.Duration { return time.Second })}, chatOpts...)
	chatService := chat.NewService(responder.New(nil, responder.WithRecorder(exporter)), chatOpts...)

	service, err := NewAPIV1Service(prof, s, chatService, dispatcher, exporter)
	require.NoError(t, err)

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	service.RegisterRoutes(e)
	return &testServer{echo: e, service: service, store: s, dispatcher: dispatcher, notifier: notifier}
}

func (ts *testServer) seed(t *testing.T) {
	t.Helper()
	_, err := seed.Apply(context.Background(), ts.store, seed.Example(), "1.0.0")
	require.NoError(t, err)
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func TestGetProfile(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/profile", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "profile not found", errorMessage(t, rec))

	ts.seed(t)
	rec = ts.do(t, http.MethodGet, "/api/v1/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Alex Morgan", body["name"])
	assert.Contains(t, body["bio_html"], "<strong>fast, accessible</strong>")
}

func TestGetPortfolio(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/portfolio", "")
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[portfolioResponse](t, rec)
	assert.Nil(t, empty.Profile)
	assert.Empty(t, empty.Projects)

	ts.seed(t)
	rec = ts.do(t, http.MethodGet, "/api/v1/portfolio", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]json.RawMessage](t, rec)
	assert.Contains(t, string(body["profile"]), "Alex Morgan")
	var projects []store.Project
	require.NoError(t, json.Unmarshal(body["projects"], &projects))
	assert.Len(t, projects, 4)
}

func TestListProjects_Paging(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/projects", "")
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[listProjectsResponse](t, rec)
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.Projects)

	ts.seed(t)
	tests := []struct {
		query      string
		wantPage   int
		wantTitles []string
	}{
		{"", 0, []string{"FinTech Dashboard", "IT Service Desk", "Recipe Finder"}},
		{"?page=1", 1, []string{"Home Lab Monitor"}},
		{"?page=2", 0, []string{"FinTech Dashboard", "IT Service Desk", "Recipe Finder"}},
		{"?page=-1", 1, []string{"Home Lab Monitor"}},
		{"?page=3&page_size=1", 3, []string{"Home Lab Monitor"}},
		{"?page=5&page_size=2", 1, []string{"Recipe Finder", "Home Lab Monitor"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, "/api/v1/projects"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			resp := decode[listProjectsResponse](t, rec)
			assert.Equal(t, tt.wantPage, resp.Page)
			assert.Equal(t, 4, resp.Total)
			titles := []string{}
			for _, p := range resp.Projects {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}

	for _, bad := range []string{"?page=x", "?page_size=0", "?page_size=51"} {
		rec := ts.do(t, http.MethodGet, "/api/v1/projects"+bad, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestListProjects_Filter(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.seed(t)

	rec := ts.do(t, http.MethodGet, `/api/v1/projects?page_size=10&filter=`+urlEncode(`"Go" in technologies`), "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[listProjectsResponse](t, rec)
	assert.Equal(t, 3, resp.Total)

	rec = ts.do(t, http.MethodGet, `/api/v1/projects?filter=`+urlEncode(`title.contains("Recipe")`), "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[listProjectsResponse](t, rec)
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, "Recipe Finder", resp.Projects[0].Title)

	for _, bad := range []string{`title +`, `title`, `unknown == 1`} {
		rec = ts.do(t, http.MethodGet, "/api/v1/projects?filter="+urlEncode(bad), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestGetProject(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.seed(t)

	projects, err := ts.store.ListProjects(context.Background(), &store.FindProject{})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/api/v1/projects/"+projects[1].ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, projects[1].Title, decode[store.Project](t, rec).Title)

	rec = ts.do(t, http.MethodGet, "/api/v1/projects/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSkills(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.seed(t)
	require.NoError(t, ts.store.ReplaceSkills(context.Background(), []*store.Skill{
		{Name: "Go", Category: "backend", Level: 90},
		{Name: "Figma", Category: "design", Level: 50},
		{Name: "React", Category: "frontend", Level: 80},
	}))

	rec := ts.do(t, http.MethodGet, "/api/v1/skills", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[listSkillsResponse](t, rec)
	require.Len(t, resp.Skills, 3)
	assert.Equal(t, "Go", resp.Skills[0].Name)

	var names, labels []string
	for _, c := range resp.Categories {
		names = append(names, c.Name)
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{"frontend", "backend", "design"}, names)
	assert.Equal(t, []string{"Frontend", "Backend", "design"}, labels)
}

func TestTodos(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/todos", `{"title":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/todos", `{"title":"Write tests"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decode[store.Todo](t, rec)
	assert.Equal(t, "Write tests", first.Title)
	assert.False(t, first.Completed)

	rec = ts.do(t, http.MethodPost, "/api/v1/todos", `{"title":"Ship it"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[store.Todo](t, rec)

	rec = ts.do(t, http.MethodGet, "/api/v1/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]store.Todo](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	rec = ts.do(t, http.MethodPost, "/api/v1/todos/"+first.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[store.Todo](t, rec).Completed)

	rec = ts.do(t, http.MethodGet, "/api/v1/todos?completed=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]store.Todo](t, rec), 1)

	rec = ts.do(t, http.MethodPatch, "/api/v1/todos/"+second.ID, `{"title":"Ship it today","completed":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[store.Todo](t, rec)
	assert.Equal(t, "Ship it today", updated.Title)
	assert.True(t, updated.Completed)

	rec = ts.do(t, http.MethodDelete, "/api/v1/todos/"+first.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodDelete, "/api/v1/todos/" + first.ID, ""},
		{http.MethodPost, "/api/v1/todos/missing/toggle", ""},
		{http.MethodPatch, "/api/v1/todos/missing", `{"completed":true}`},
	} {
		rec = ts.do(t, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
	}
}

func TestCreateContactMessage(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/contact", `{"name":"Grace","email":"grace@example.com","subject":"Hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please fill in all required fields.", errorMessage(t, rec))

	rec = ts.do(t, http.MethodPost, "/api/v1/contact", `{"name":"Grace","email":"not-an-email","subject":"Hi","message":"Hello"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/contact", `{"name":"Grace","email":"grace@example.com","subject":"Hi","message":"Hello"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	ref := decode[createContactMessageResponse](t, rec).Reference
	require.NotEmpty(t, ref)

	ts.dispatcher.Wait()
	ts.notifier.mu.Lock()
	require.Len(t, ts.notifier.msgs, 1)
	assert.Equal(t, ref, ts.notifier.msgs[0].Reference)
	ts.notifier.mu.Unlock()

	stored, err := ts.store.ListContactMessages(context.Background(), &store.FindContactMessage{Reference: &ref})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Hello", stored[0].Message)
}

func TestChat_Rules(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/chat", `{"message":"HELLO!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[chat.Response](t, rec)
	assert.Equal(t, chat.ModeRules, resp.Source)
	assert.Equal(t, "greeting", resp.Rule)
	assert.NotEmpty(t, resp.Reply)
	assert.Equal(t, int64(1000), resp.TypingDelayMs)

	rec = ts.do(t, http.MethodPost, "/api/v1/chat", `{"message":"asdkjhasd123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, responder.FallbackName, decode[chat.Response](t, rec).Rule)

	rec = ts.do(t, http.MethodPost, "/api/v1/chat", `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/chat", `{"message":"hi","mode":"psychic"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_LLMNotConfigured(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/api/v1/chat", `{"message":"hi","mode":"llm"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to process chat request: OpenAI API key not configured", errorMessage(t, rec))
}

func TestChat_RateLimited(t *testing.T) {
	ts := newTestServer(t, &profile.Profile{Mode: "dev", Driver: "sqlite", ChatRateLimit: 1})

	codes := map[int]int{}
	for i := 0; i < 5; i++ {
		rec := ts.do(t, http.MethodPost, "/api/v1/chat", `{"message":"hi"}`)
		codes[rec.Code]++
	}
	assert.GreaterOrEqual(t, codes[http.StatusOK], 1)
	assert.GreaterOrEqual(t, codes[http.StatusTooManyRequests], 1)
}

func TestGetSystemStatus(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/system/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[systemStatus](t, rec)
	assert.Equal(t, "sqlite", status.Driver)
	assert.False(t, status.LLMEnabled)
	assert.Equal(t, responder.DefaultTable().Len(), status.Rules)
	assert.Equal(t, []string{"recording"}, status.Notifiers)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/skills", http.NoBody)
	req.Header.Set(echo.HeaderOrigin, "https://example.com")
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestWrapIndex(t *testing.T) {
	assert.Equal(t, 0, wrapIndex(0, 3))
	assert.Equal(t, 2, wrapIndex(-1, 3))
	assert.Equal(t, 1, wrapIndex(7, 3))
}
