package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	paseto "aidanwoods.dev/go-paseto"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"

	"github.com/Alijeyrad/dentalcenter/config"
	"github.com/Alijeyrad/dentalcenter/internal/api/http/router"
	"github.com/Alijeyrad/dentalcenter/internal/app"
	"github.com/Alijeyrad/dentalcenter/internal/service/auth"
	"github.com/Alijeyrad/dentalcenter/internal/service/dashboard"
	"github.com/Alijeyrad/dentalcenter/internal/service/incident"
	"github.com/Alijeyrad/dentalcenter/internal/service/patient"
	"github.com/Alijeyrad/dentalcenter/internal/store"
	"github.com/Alijeyrad/dentalcenter/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/dentalcenter/pkg/paseto"
)

var fixedNow = time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	cfg.Store.Namespace = "test"
	cfg.Server.Environment = "test"

	db := app.NewRepo(cfg, store.NewMemoryBackend(), logger)
	if _, err := app.Seed(ctx, cfg, db, logger); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	mgr, err := pasetotoken.New(pasetotoken.Config{Issuer: "test", Audience: "test"}, paseto.NewV4SymmetricKey())
	if err != nil {
		t.Fatalf("paseto New() error = %v", err)
	}
	authz, err := authorize.New(ctx, authorize.Config{})
	if err != nil {
		t.Fatalf("authorize New() error = %v", err)
	}

	authSvc := auth.New(db, logger)
	r := router.NewRouter(router.Params{
		Cfg:          cfg,
		Auth:         authz,
		DB:           db,
		AuthSvc:      authSvc,
		PatientSvc:   patient.New(db, logger, patient.WithClock(func() time.Time { return fixedNow })),
		IncidentSvc:  incident.New(db, app.NewEncoder(cfg), logger),
		DashboardSvc: dashboard.New(db, dashboard.WithClock(func() time.Time { return fixedNow })),
		PasetoMgr:    mgr,
	})

	fapp := NewApp(cfg, nil, false)
	r.Register(fapp)
	return fapp
}

type envelope struct {
	Data   json.RawMessage   `json:"data"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func do(t *testing.T, fapp *fiber.App, req *nethttp.Request) (int, envelope) {
	t.Helper()
	resp, err := fapp.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	var env envelope
	body, _ := io.ReadAll(resp.Body)
	if len(body) > 0 {
		_ = json.Unmarshal(body, &env)
	}
	return resp.StatusCode, env
}

func jsonRequest(method, path, token string, body any) *nethttp.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func login(t *testing.T, fapp *fiber.App, email, pass string) string {
	t.Helper()
	code, env := do(t, fapp, jsonRequest(nethttp.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": pass,
	}))
	if code != fiber.StatusOK {
		t.Fatalf("login %s: status %d (%s)", email, code, env.Error)
	}
	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AccessToken == "" {
		t.Fatalf("login %s: no token in %s", email, env.Data)
	}
	return data.AccessToken
}

func TestLogin(t *testing.T) {
	fapp := newTestApp(t)

	login(t, fapp, "admin@entnt.in", "admin123")

	code, _ := do(t, fapp, jsonRequest(nethttp.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "admin@entnt.in", "password": "wrong",
	}))
	if code != fiber.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", code)
	}

	code, _ = do(t, fapp, jsonRequest(nethttp.MethodPost, "/api/v1/auth/login", "", map[string]string{}))
	if code != fiber.StatusBadRequest {
		t.Errorf("empty body status = %d, want 400", code)
	}
}

func TestMe_OmitsPassword(t *testing.T) {
	fapp := newTestApp(t)
	token := login(t, fapp, "john@entnt.in", "patient123")

	code, env := do(t, fapp, jsonRequest(nethttp.MethodGet, "/api/v1/auth/me", token, nil))
	if code != fiber.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if strings.Contains(string(env.Data), "password") {
		t.Errorf("me response leaks password: %s", env.Data)
	}
}

func TestRoleChecks(t *testing.T) {
	fapp := newTestApp(t)
	admin := login(t, fapp, "admin@entnt.in", "admin123")
	pat := login(t, fapp, "john@entnt.in", "patient123")

	tests := []struct {
		name  string
		token string
		path  string
		want  int
	}{
		{"anonymous patients", "", "/api/v1/patients", fiber.StatusUnauthorized},
		{"garbage token", "nope", "/api/v1/patients", fiber.StatusUnauthorized},
		{"admin patients", admin, "/api/v1/patients", fiber.StatusOK},
		{"patient patients", pat, "/api/v1/patients", fiber.StatusForbidden},
		{"admin dashboard", admin, "/api/v1/dashboard", fiber.StatusOK},
		{"patient dashboard", pat, "/api/v1/dashboard", fiber.StatusForbidden},
		{"patient calendar", pat, "/api/v1/calendar", fiber.StatusForbidden},
		{"patient incidents", pat, "/api/v1/incidents", fiber.StatusForbidden},
		{"patient own dashboard", pat, "/api/v1/me/dashboard", fiber.StatusOK},
		{"admin own dashboard", admin, "/api/v1/me/dashboard", fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, fapp, jsonRequest(nethttp.MethodGet, tt.path, tt.token, nil))
			if code != tt.want {
				t.Errorf("GET %s = %d, want %d (%s)", tt.path, code, tt.want, env.Error)
			}
		})
	}
}

func TestPatientDashboard(t *testing.T) {
	fapp := newTestApp(t)
	token := login(t, fapp, "john@entnt.in", "patient123")

	_, env := do(t, fapp, jsonRequest(nethttp.MethodGet, "/api/v1/me/dashboard", token, nil))
	var d struct {
		Patient struct {
			ID string `json:"id"`
		} `json:"patient"`
		Upcoming []struct {
			ID string `json:"id"`
		} `json:"upcoming"`
		Past []struct {
			ID string `json:"id"`
		} `json:"past"`
	}
	if err := json.Unmarshal(env.Data, &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Patient.ID != "p1" {
		t.Errorf("patient = %q, want p1", d.Patient.ID)
	}
	if len(d.Upcoming)+len(d.Past) != 3 {
		t.Errorf("history has %d incidents, want 3", len(d.Upcoming)+len(d.Past))
	}
}

func TestCreatePatient_Validation(t *testing.T) {
	fapp := newTestApp(t)
	admin := login(t, fapp, "admin@entnt.in", "admin123")

	code, env := do(t, fapp, jsonRequest(nethttp.MethodPost, "/api/v1/patients", admin, map[string]string{
		"name": "New Patient", "dob": "1990-01-01", "contact": "12345",
	}))
	if code != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if env.Fields["contact"] != "Contact must be a 10-digit number." {
		t.Errorf("fields = %v", env.Fields)
	}

	code, _ = do(t, fapp, jsonRequest(nethttp.MethodPost, "/api/v1/patients", admin, map[string]string{
		"name": "New Patient", "dob": "1990-01-01", "contact": "5555555555",
	}))
	if code != fiber.StatusCreated {
		t.Errorf("valid create status = %d, want 201", code)
	}
}

func TestUpdatePatient_Partial(t *testing.T) {
	fapp := newTestApp(t)
	admin := login(t, fapp, "admin@entnt.in", "admin123")

	code, env := do(t, fapp, jsonRequest(nethttp.MethodPatch, "/api/v1/patients/p2", admin, map[string]string{
		"contact": "5555555555",
	}))
	if code != fiber.StatusOK {
		t.Fatalf("partial update status = %d (%s %v)", code, env.Error, env.Fields)
	}
	var p struct {
		Name    string `json:"name"`
		DOB     string `json:"dob"`
		Contact string `json:"contact"`
	}
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatalf("decode patient: %v", err)
	}
	if p.Name != "Jane Smith" || p.DOB != "1985-11-20" || p.Contact != "5555555555" {
		t.Errorf("patient after partial update = %+v", p)
	}

	code, env = do(t, fapp, jsonRequest(nethttp.MethodPatch, "/api/v1/patients/p2", admin, map[string]string{
		"dob": "2030-01-01",
	}))
	if code != fiber.StatusBadRequest || env.Fields["dob"] == "" {
		t.Errorf("future dob: status %d fields %v, want 400 with dob", code, env.Fields)
	}
}

func TestPatientHistory(t *testing.T) {
	fapp := newTestApp(t)
	admin := login(t, fapp, "admin@entnt.in", "admin123")

	code, env := do(t, fapp, jsonRequest(nethttp.MethodGet, "/api/v1/patients/p1/history", admin, nil))
	if code != fiber.StatusOK {
		t.Fatalf("history status = %d (%s)", code, env.Error)
	}
	var hist struct {
		Upcoming []struct{ ID string } `json:"upcoming"`
		Past     []struct{ ID string } `json:"past"`
	}
	if err := json.Unmarshal(env.Data, &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	var upcoming, past []string
	for _, i := range hist.Upcoming {
		upcoming = append(upcoming, i.ID)
	}
	for _, i := range hist.Past {
		past = append(past, i.ID)
	}
	if strings.Join(upcoming, ",") != "i1,i5" || strings.Join(past, ",") != "i2" {
		t.Errorf("history upcoming=%v past=%v, want [i1 i5] [i2]", upcoming, past)
	}

	code, _ = do(t, fapp, jsonRequest(nethttp.MethodGet, "/api/v1/patients/nope/history", admin, nil))
	if code != fiber.StatusNotFound {
		t.Errorf("unknown patient history: status %d, want 404", code)
	}

	john := login(t, fapp, "john@entnt.in", "patient123")
	code, _ = do(t, fapp, jsonRequest(nethttp.MethodGet, "/api/v1/patients/p1/history", john, nil))
	if code != fiber.StatusForbidden {
		t.Errorf("patient reading history: status %d, want 403", code)
	}
}

func TestDeletePatient_Cascades(t *testing.T) {
	fapp := newTestApp(t)
	admin := login(t, fapp, "admin@entnt.in", "admin123")

	code, env := do(t, fapp, jsonRequest(nethttp.MethodDelete, "/api/v1/patients/p1", admin, nil))
	if code != fiber.StatusOK {
		t.Fatalf("delete status = %d (%s)", code, env.Error)
	}

	code, _ = do(t, fapp, jsonRequest(nethttp.MethodGet, "/api/v1/incidents/i1", admin, nil))
	if code != fiber.StatusNotFound {
		t.Errorf("incident of deleted patient: status %d, want 404", code)
	}

	code, _ = do(t, fapp, jsonRequest(nethttp.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "john@entnt.in", "password": "patient123",
	}))
	if code != fiber.StatusUnauthorized {
		t.Errorf("login of removed account: status %d, want 401", code)
	}

	code, _ = do(t, fapp, jsonRequest(nethttp.MethodGet, "/api/v1/patients/p1", admin, nil))
	if code != fiber.StatusNotFound {
		t.Errorf("deleted patient: status %d, want 404", code)
	}
}

func TestIncidentFiles(t *testing.T) {
	fapp := newTestApp(t)
	admin := login(t, fapp, "admin@entnt.in", "admin123")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"a.txt", "b.txt"} {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte("contents of " + name))
	}
	mw.Close()

	req := httptest.NewRequest(nethttp.MethodPost, "/api/v1/incidents/i3/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)

	code, env := do(t, fapp, req)
	if code != fiber.StatusCreated {
		t.Fatalf("upload status = %d (%s)", code, env.Error)
	}
	var inc struct {
		Files []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"files"`
	}
	if err := json.Unmarshal(env.Data, &inc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(inc.Files) != 2 || inc.Files[0].Name != "a.txt" || inc.Files[1].Name != "b.txt" {
		t.Fatalf("files = %+v", inc.Files)
	}
	if !strings.HasPrefix(inc.Files[0].URL, "data:") {
		t.Errorf("url = %q, want data URI", inc.Files[0].URL)
	}

	code, env = do(t, fapp, jsonRequest(nethttp.MethodDelete, "/api/v1/incidents/i3/files/0", admin, nil))
	if code != fiber.StatusOK {
		t.Fatalf("remove status = %d (%s)", code, env.Error)
	}
	if err := json.Unmarshal(env.Data, &inc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(inc.Files) != 1 || inc.Files[0].Name != "b.txt" {
		t.Errorf("files after remove = %+v", inc.Files)
	}

	code, _ = do(t, fapp, jsonRequest(nethttp.MethodDelete, "/api/v1/incidents/i3/files/5", admin, nil))
	if code != fiber.StatusNotFound {
		t.Errorf("remove out of range: status %d, want 404", code)
	}
}

func TestIncidentList_Filter(t *testing.T) {
	fapp := newTestApp(t)
	admin := login(t, fapp, "admin@entnt.in", "admin123")

	_, env := do(t, fapp, jsonRequest(nethttp.MethodGet, "/api/v1/incidents?status=Completed", admin, nil))
	var list []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 || list[0].ID != "i1" || list[1].ID != "i2" {
		t.Errorf("completed incidents = %+v, want i1, i2", list)
	}
}

func TestHealth(t *testing.T) {
	fapp := newTestApp(t)
	for _, path := range []string{healthcheck.LivenessEndpoint, healthcheck.ReadinessEndpoint} {
		resp, err := fapp.Test(httptest.NewRequest(nethttp.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("GET %s = %d", path, resp.StatusCode)
		}
	}
}

func TestRequestIDEchoed(t *testing.T) {
	fapp := newTestApp(t)
	req := httptest.NewRequest(nethttp.MethodGet, healthcheck.LivenessEndpoint, nil)
	req.Header.Set("X-Request-Id", "abc-123")

	resp, err := fapp.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get("X-Request-Id"); got != "abc-123" {
		t.Errorf("X-Request-Id = %q", got)
	}
}
