package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/jobboard-service/internal/cache"
	"github.com/SAP-F-2025/jobboard-service/internal/config"
	"github.com/SAP-F-2025/jobboard-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/jobboard-service/internal/services"
	"github.com/SAP-F-2025/jobboard-service/internal/session"
	"github.com/SAP-F-2025/jobboard-service/internal/storage"
	"github.com/SAP-F-2025/jobboard-service/internal/utils"
	"github.com/SAP-F-2025/jobboard-service/internal/validator"
	"github.com/SAP-F-2025/jobboard-service/pkg"
)

const trustedOrigin = "https://jobs.example.com"

var testAdmin = config.AdminConfig{Email: "admin@jobportal.com", Username: "admin", Password: "Admin@1234"}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open("file:"+filepath.Join(dir, "jobboard.db")+"?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := pkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	uploadRoot := filepath.Join(dir, "wwwroot")
	files, err := storage.NewLocalStore(uploadRoot)
	if err != nil {
		t.Fatalf("local store: %v", err)
	}

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db, RedisClient: client})
	sm := services.NewDefaultServiceManager(db, repo, slogger, validator.New(), files)
	if err := sm.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize services: %v", err)
	}
	if err := sm.Auth().SeedAdmin(context.Background(), testAdmin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	sessions := session.NewManager(config.SessionConfig{
		Secret:        "test-secret",
		CookieName:    "jobboard_session",
		TTL:           30 * time.Minute,
		PersistentTTL: 24 * time.Hour,
	}, cache.NewCacheManager(client).Sessions)

	log := utils.NewSlogLogger(slogger)
	router := gin.New()
	SetupMiddleware(router, log, []string{trustedOrigin})
	NewHandlerManager(sm, sessions, log, uploadRoot).SetupRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		client.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return srv
}

// testClient is one browser: it keeps its own cookies
type testClient struct {
	t    *testing.T
	base string
	http *http.Client
}

type envelope struct {
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	Details  json.RawMessage `json:"details"`
	Redirect string          `json:"redirect"`
}

func newClient(t *testing.T, srv *httptest.Server) *testClient {
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &testClient{t: t, base: srv.URL, http: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (c *testClient) do(req *http.Request) (*http.Response, []byte) {
	c.t.Helper()
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatal(err)
	}
	return resp, body
}

func (c *testClient) get(path string) (int, envelope) {
	c.t.Helper()
	req, _ := http.NewRequest(http.MethodGet, c.base+path, nil)
	resp, body := c.do(req)
	return resp.StatusCode, decode(c.t, body)
}

func (c *testClient) postJSON(path string, payload interface{}) (int, envelope) {
	c.t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		c.t.Fatal(err)
	}
	req, _ := http.NewRequest(http.MethodPost, c.base+path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, body := c.do(req)
	return resp.StatusCode, decode(c.t, body)
}

func (c *testClient) postMultipart(path string, fields map[string]string, fileField, fileName string, content []byte) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			c.t.Fatal(err)
		}
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			c.t.Fatal(err)
		}
		part.Write(content)
	}
	w.Close()

	req, _ := http.NewRequest(http.MethodPost, c.base+path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, body := c.do(req)
	return resp.StatusCode, decode(c.t, body)
}

func decode(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	if len(body) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode %q: %v", body, err)
		}
	}
	return env
}

func dataAs(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func (c *testClient) registerAndLogin(email, role string) {
	c.t.Helper()
	status, env := c.postJSON("/user/register", map[string]string{
		"email": email, "username": email, "password": "secret123", "role": role,
	})
	if status != http.StatusCreated {
		c.t.Fatalf("register %s: %d %s", email, status, env.Message)
	}
	if status, env := c.postJSON("/user/login", map[string]string{"email": email, "password": "secret123"}); status != http.StatusOK {
		c.t.Fatalf("login %s: %d %s", email, status, env.Message)
	}
}

func (c *testClient) loginAdmin() {
	c.t.Helper()
	status, env := c.postJSON("/admin/login", map[string]string{"email": testAdmin.Email, "password": testAdmin.Password})
	if status != http.StatusOK {
		c.t.Fatalf("admin login: %d %s", status, env.Message)
	}
	if env.Redirect != redirectAdmin {
		c.t.Errorf("admin login redirect = %q", env.Redirect)
	}
}

type jobJSON struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	IsApproved bool   `json:"is_approved"`
}

type applicationJSON struct {
	ID     uint   `json:"id"`
	JobID  uint   `json:"job_id"`
	Status string `json:"status"`
	Job    *struct {
		Employer *struct {
			CompanyName string `json:"company_name"`
		} `json:"employer"`
	} `json:"job"`
}

func TestEndToEndHiringFlow(t *testing.T) {
	srv := newTestServer(t)
	employer := newClient(t, srv)
	admin := newClient(t, srv)
	seeker := newClient(t, srv)
	anonymous := newClient(t, srv)

	employer.registerAndLogin("acme@x.com", "Employer")
	if status, env := employer.postJSON("/employer/profile", map[string]string{"company_name": "Acme Co"}); status != http.StatusOK {
		t.Fatalf("update profile: %d %s", status, env.Message)
	}

	status, env := employer.postJSON("/job/create", map[string]string{
		"title": "Backend Engineer", "description": "Go services", "location": "Remote",
		"salary": "100k", "company": "Acme Co", "type": "Full-Time",
	})
	if status != http.StatusCreated {
		t.Fatalf("create job: %d %s %s", status, env.Message, env.Details)
	}
	var job jobJSON
	dataAs(t, env, &job)
	if job.IsApproved {
		t.Fatal("employer job approved on creation")
	}

	var listing struct {
		Jobs       []jobJSON `json:"jobs"`
		TotalPages int       `json:"total_pages"`
	}
	_, env = anonymous.get("/job/index")
	dataAs(t, env, &listing)
	if len(listing.Jobs) != 0 {
		t.Fatalf("pending job listed: %+v", listing.Jobs)
	}

	admin.loginAdmin()
	if status, env := admin.postJSON(fmt.Sprintf("/job/approve/%d", job.ID), nil); status != http.StatusOK {
		t.Fatalf("approve: %d %s", status, env.Message)
	}

	status, env = anonymous.get("/job/index?page=0")
	if status != http.StatusOK {
		t.Fatalf("index: %d", status)
	}
	dataAs(t, env, &listing)
	if len(listing.Jobs) != 1 || listing.Jobs[0].ID != job.ID || listing.TotalPages != 1 {
		t.Fatalf("listing = %+v", listing)
	}

	seeker.registerAndLogin("sam@x.com", "User")
	cv := []byte("%PDF-1.4 curriculum vitae")
	jobID := fmt.Sprint(job.ID)
	status, env = seeker.postMultipart("/job/apply", map[string]string{"job_id": jobID}, "cv", "resume.pdf", cv)
	if status != http.StatusCreated {
		t.Fatalf("apply: %d %s %s", status, env.Message, env.Details)
	}
	if env.Redirect != redirectMyApps {
		t.Errorf("apply redirect = %q", env.Redirect)
	}
	if status, _ := seeker.postMultipart("/job/apply", map[string]string{"job_id": jobID}, "", "", nil); status != http.StatusConflict {
		t.Fatalf("second apply: %d, want 409", status)
	}

	status, env = employer.get("/employer/applications?jobId=" + jobID)
	if status != http.StatusOK {
		t.Fatalf("employer applications: %d %s", status, env.Message)
	}
	var forJob struct {
		Applications []applicationJSON `json:"applications"`
	}
	dataAs(t, env, &forJob)
	if len(forJob.Applications) != 1 {
		t.Fatalf("employer sees %d applications, want 1", len(forJob.Applications))
	}
	appID := forJob.Applications[0].ID

	status, env = employer.postJSON("/employer/updateapplicationstatus", map[string]interface{}{
		"application_id": appID, "status": "Accepted",
	})
	if status != http.StatusOK {
		t.Fatalf("update status: %d %s", status, env.Message)
	}
	if env.Redirect != "/employer/applications?jobId="+jobID {
		t.Errorf("update status redirect = %q", env.Redirect)
	}

	_, env = seeker.get("/user/applications")
	var mine []applicationJSON
	dataAs(t, env, &mine)
	if len(mine) != 1 || mine[0].Status != "Accepted" {
		t.Fatalf("seeker applications = %+v", mine)
	}
	if mine[0].Job == nil || mine[0].Job.Employer == nil || mine[0].Job.Employer.CompanyName != "Acme Co" {
		t.Errorf("application missing employer context: %+v", mine[0])
	}

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/job/downloadcv/%d", srv.URL, appID), nil)
	resp, body := employer.do(req)
	if resp.StatusCode != http.StatusOK || !bytes.Equal(body, cv) {
		t.Fatalf("download cv: %d %q", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("cv content type = %q", ct)
	}

	// stored CVs are not reachable through the public upload route
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/uploads/cvs", nil)
	if resp, _ := anonymous.do(req); resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /uploads/cvs = %d, want 404", resp.StatusCode)
	}
}

func TestRouteGuards(t *testing.T) {
	srv := newTestServer(t)
	anonymous := newClient(t, srv)
	seeker := newClient(t, srv)
	seeker.registerAndLogin("sam@x.com", "User")
	employer := newClient(t, srv)
	employer.registerAndLogin("acme@x.com", "Employer")

	tests := []struct {
		name   string
		client *testClient
		method string
		path   string
		want   int
	}{
		{"anonymous own applications", anonymous, http.MethodGet, "/user/applications", http.StatusUnauthorized},
		{"anonymous logout", anonymous, http.MethodPost, "/user/logout", http.StatusUnauthorized},
		{"anonymous job listing", anonymous, http.MethodGet, "/job/index", http.StatusOK},
		{"seeker manages jobs", seeker, http.MethodGet, "/job/managejobs", http.StatusForbidden},
		{"seeker admin dashboard", seeker, http.MethodGet, "/admin/dashboard", http.StatusForbidden},
		{"seeker employer profile", seeker, http.MethodGet, "/employer/profile", http.StatusForbidden},
		{"employer approves", employer, http.MethodPost, "/job/approve/1", http.StatusForbidden},
		{"employer applies", employer, http.MethodPost, "/job/apply", http.StatusForbidden},
		{"employer exports", employer, http.MethodGet, "/admin/applications/export", http.StatusForbidden},
		{"employer registers admin", employer, http.MethodPost, "/admin/register", http.StatusForbidden},
		{"employer stats", employer, http.MethodGet, "/admin/stats", http.StatusForbidden},
		{"anonymous stats", anonymous, http.MethodGet, "/admin/stats/top-jobs", http.StatusUnauthorized},
		{"employer dashboard", employer, http.MethodGet, "/employer/dashboard", http.StatusOK},
		{"missing job", anonymous, http.MethodGet, "/job/details/999", http.StatusNotFound},
		{"bad job id", anonymous, http.MethodGet, "/job/details/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var status int
			if tt.method == http.MethodGet {
				status, _ = tt.client.get(tt.path)
			} else {
				status, _ = tt.client.postJSON(tt.path, map[string]string{})
			}
			if status != tt.want {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, status, tt.want)
			}
		})
	}
}

func TestLoginAndLogout(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	c.registerAndLogin("sam@x.com", "User")

	if status, _ := c.postJSON("/user/login", map[string]string{"email": "sam@x.com", "password": "wrong-pass"}); status != http.StatusUnauthorized {
		t.Fatalf("bad password login = %d, want 401", status)
	}
	if status, _ := c.postJSON("/admin/login", map[string]string{"email": "sam@x.com", "password": "secret123"}); status != http.StatusUnauthorized {
		t.Fatalf("seeker admin login = %d, want 401", status)
	}

	var token string
	for _, ck := range c.http.Jar.Cookies(mustURL(t, srv.URL)) {
		if ck.Name == "jobboard_session" {
			token = ck.Value
		}
	}
	if token == "" {
		t.Fatal("no session cookie after login")
	}

	if status, _ := c.postJSON("/user/logout", nil); status != http.StatusOK {
		t.Fatalf("logout = %d", status)
	}
	if status, _ := c.get("/user/applications"); status != http.StatusUnauthorized {
		t.Errorf("after logout = %d, want 401", status)
	}

	// the old credential is revoked, not merely dropped from the jar
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/user/applications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if resp, _ := newClient(t, srv).do(req); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("revoked token = %d, want 401", resp.StatusCode)
	}
}

func TestEmployerBlankStatusResetsToPending(t *testing.T) {
	srv := newTestServer(t)
	employer := newClient(t, srv)
	employer.registerAndLogin("acme@x.com", "Employer")
	admin := newClient(t, srv)
	admin.loginAdmin()
	seeker := newClient(t, srv)
	seeker.registerAndLogin("sam@x.com", "User")

	_, env := employer.postJSON("/job/create", map[string]string{
		"title": "Ops", "description": "d", "location": "l", "salary": "s", "company": "c", "type": "Other", "custom_type": "Internship",
	})
	var job jobJSON
	dataAs(t, env, &job)
	admin.postJSON(fmt.Sprintf("/job/approve/%d", job.ID), nil)

	_, env = seeker.postJSON("/job/apply", map[string]interface{}{"job_id": job.ID})
	var app applicationJSON
	dataAs(t, env, &app)

	if status, _ := admin.postJSON("/admin/updatestatus", map[string]interface{}{"application_id": app.ID, "status": "Rejected"}); status != http.StatusOK {
		t.Fatalf("admin update = %d", status)
	}
	if status, _ := admin.postJSON("/admin/updatestatus", map[string]interface{}{"application_id": app.ID, "status": ""}); status != http.StatusBadRequest {
		t.Fatalf("admin blank status = %d, want 400", status)
	}

	status, env := employer.postJSON("/employer/updateapplicationstatus", map[string]interface{}{"application_id": app.ID, "status": ""})
	if status != http.StatusOK {
		t.Fatalf("employer blank status = %d %s", status, env.Message)
	}
	dataAs(t, env, &app)
	if app.Status != "Pending" {
		t.Errorf("Status = %q, want Pending", app.Status)
	}
}

func TestAdminExportAndHealth(t *testing.T) {
	srv := newTestServer(t)
	admin := newClient(t, srv)
	admin.loginAdmin()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/admin/applications/export", nil)
	resp, body := admin.do(req)
	if resp.StatusCode != http.StatusOK || len(body) == 0 {
		t.Fatalf("export = %d, %d bytes", resp.StatusCode, len(body))
	}
	if ct := resp.Header.Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("export content type = %q", ct)
	}

	status, env := admin.get("/admin/stats?period=7")
	if status != http.StatusOK {
		t.Fatalf("stats = %d %s", status, env.Message)
	}
	var stats struct {
		Trends struct {
			PeriodDays int `json:"period_days"`
		} `json:"trends"`
	}
	dataAs(t, env, &stats)
	if stats.Trends.PeriodDays != 7 {
		t.Errorf("period_days = %d, want 7", stats.Trends.PeriodDays)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	if resp, _ := admin.do(req); resp.StatusCode != http.StatusOK {
		t.Errorf("health = %d", resp.StatusCode)
	}
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestCORSAllowsOnlyConfiguredOrigins(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		origin     string
		wantOrigin string
		wantCreds  string
	}{
		{name: "configured origin", origin: trustedOrigin, wantOrigin: trustedOrigin, wantCreds: "true"},
		{name: "unknown origin", origin: "https://evil.example", wantOrigin: "", wantCreds: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, srv.URL+"/user/applications", nil)
			if err != nil {
				t.Fatal(err)
			}
			req.Header.Set("Origin", tt.origin)
			resp, err := srv.Client().Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()

			if got := resp.Header.Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := resp.Header.Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Errorf("Access-Control-Allow-Credentials = %q, want %q", got, tt.wantCreds)
			}
		})
	}
}
