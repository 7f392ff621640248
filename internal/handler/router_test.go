package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sci-crm-api/internal/identity"
	"github.com/noah-isme/sci-crm-api/internal/middleware"
	"github.com/noah-isme/sci-crm-api/internal/repository"
	"github.com/noah-isme/sci-crm-api/internal/service"
	"github.com/noah-isme/sci-crm-api/pkg/docstore"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
	"github.com/noah-isme/sci-crm-api/pkg/jobs"
	"github.com/noah-isme/sci-crm-api/pkg/storage"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type testServer struct {
	router   *gin.Engine
	store    *docstore.MemoryStore
	sessions *service.SessionManager
	queue    *jobs.Queue
}

func seedRecords(t *testing.T, store docstore.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Update(ctx, map[string]interface{}{
		"employees/ravigmailcom":  map[string]interface{}{"name": "Ravi", "email": "ravi@gmail.com", "status": "approved"},
		"employees/meenagmailcom": map[string]interface{}{"name": "Meena", "email": "meena@gmail.com", "status": "pending"},
		"programs/p1":             map[string]interface{}{"name": "JEE Foundation", "code": "JF", "status": "active"},
		"batches/b1":              map[string]interface{}{"name": "Morning", "status": "active"},
		"batches/b2":              map[string]interface{}{"name": "Evening", "status": "active"},
		"users/s1": map[string]interface{}{
			"fullName": "Asha Rao", "enrollmentId": "ENR1", "programId": "p1", "batchId": "b1",
			"status": "active", "employeeId": "ravigmailcom", "createdAt": "2024-05-10T08:00:00.000Z",
		},
		"inquiries/i1": map[string]interface{}{
			"name": "Kiran", "phone": "9000000001", "programOfInterestId": "p1", "status": "New",
			"source": "Walk-in", "inquiryDate": "2024-05-01", "employeeId": "ravigmailcom",
		},
		"inquiries/i2": map[string]interface{}{
			"name": "Nila", "phone": "9000000002", "status": "Follow-up", "source": "Website", "inquiryDate": "2024-05-02",
		},
		"potentials/q1": map[string]interface{}{
			"name": "Tara", "phone": "9000000003", "email": "tara@mail.com", "programOfInterestId": "p1",
			"status": "Follow-up", "remark": "call back", "employeeId": "ravigmailcom",
		},
	}))
}

func newTestServer(t *testing.T, cfg RouteConfig) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := docstore.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	seedRecords(t, store)
	records := repository.NewRecordStore(store, zap.NewNop())
	metrics := service.NewMetricsService()

	provider := identity.NewProvider(repository.NewMemoryAccountRepository(), identity.NewFederatedVerifier("fed-secret", "", ""), nil, zap.NewNop(), identity.ProviderConfig{})
	sessions := service.NewSessionManager(records, metrics, zap.NewNop(), time.Second)
	provider.OnIdentityChange(sessions.HandleIdentityChange)
	t.Cleanup(sessions.CloseAll)

	gate := service.NewAuthorizationGate(records, metrics, zap.NewNop())
	auth := service.NewAuthService(gate, provider, sessions, nil, zap.NewNop(), service.AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour, Issuer: "sci-crm"})
	lifecycle := service.NewLifecycleService(records, nil, metrics, zap.NewNop(), service.LifecycleConfig{})
	bulk := service.NewBulkService(records, nil, zap.NewNop())
	catalog := service.NewCatalogService(records, nil, zap.NewNop())
	results := service.NewResultsService(records, nil, zap.NewNop())

	blobs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	exports := service.NewExportService(repository.NewMemoryExportJobRepository(), blobs, storage.NewSignedURLSigner("url-secret", time.Hour), metrics, nil, zap.NewNop(), service.ExportConfig{APIPrefix: "/api/v1"})
	queue := jobs.NewQueue("exports", exports.Process, jobs.QueueConfig{Workers: 1, OnFailure: exports.Fail, Logger: zap.NewNop()})
	queue.Start(context.Background())
	t.Cleanup(queue.Stop)
	exports.AttachQueue(queue)

	router := gin.New()
	router.Use(middleware.Metrics(metrics))
	RegisterRoutes(router.Group("/api/v1"), middleware.Session(auth), cfg, Handlers{
		Auth:       NewAuthHandler(auth),
		Students:   NewStudentHandler(catalog, bulk),
		Inquiries:  NewInquiryHandler(lifecycle, bulk),
		Potentials: NewPotentialHandler(lifecycle),
		Programs:   NewProgramHandler(catalog),
		Batches:    NewBatchHandler(catalog),
		Results:    NewResultsHandler(results),
		Employees:  NewEmployeeHandler(),
		Dashboard:  NewDashboardHandler(service.NewDashboardService()),
		Exports:    NewExportHandler(exports),
	})
	return &testServer{router: router, store: store, sessions: sessions, queue: queue}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, responseEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env responseEnvelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

// signUp registers ravi@gmail.com and returns the session token.
func (s *testServer) signUp(t *testing.T) string {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/sign-up", "", map[string]string{"email": "ravi@gmail.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var info struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &info))
	require.NotEmpty(t, info.Token)
	return info.Token
}

func decode[T any](t *testing.T, env responseEnvelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestAuthRoutes(t *testing.T) {
	srv := newTestServer(t, RouteConfig{DashboardEnabled: true})
	token := srv.signUp(t)

	rec, env := srv.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]interface{}](t, env)
	assert.Equal(t, "ravigmailcom", me["employeeId"])
	assert.Equal(t, token, me["token"])

	rec, env = srv.do(t, http.MethodPost, "/api/v1/auth/sign-in", "", map[string]string{"email": "ravi@gmail.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, appErrors.ErrInvalidCredential.Code, env.Error.Code)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/auth/sign-up", "", map[string]string{"email": "meena@gmail.com", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, appErrors.ErrEmployeeNotApproved.Code, env.Error.Code)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/auth/sign-in/federated", "", map[string]string{"idToken": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrPopupClosed.Code, env.Error.Code)

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/auth/sign-out", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = srv.do(t, http.MethodGet, "/api/v1/students", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, appErrors.ErrSessionExpired.Code, env.Error.Code)
	assert.Zero(t, srv.sessions.Count())
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, RouteConfig{DashboardEnabled: true})

	for _, path := range []string{"/api/v1/students", "/api/v1/inquiries", "/api/v1/dashboard", "/api/v1/auth/me"} {
		rec, env := srv.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, appErrors.ErrUnauthorized.Code, env.Error.Code, path)
	}
}

func TestStudentRoutes(t *testing.T) {
	srv := newTestServer(t, RouteConfig{})
	token := srv.signUp(t)

	rec, env := srv.do(t, http.MethodGet, "/api/v1/students?batchId=b1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	students := decode[[]map[string]interface{}](t, env)
	require.Len(t, students, 1)
	assert.Equal(t, "JEE Foundation", students[0]["programName"])
	assert.Equal(t, "Morning", students[0]["batchName"])
	assert.Equal(t, "Ravi", students[0]["employeeName"])

	rec, env = srv.do(t, http.MethodPost, "/api/v1/students", token, map[string]string{
		"fullName": "Dev Patel", "enrollmentId": "ENR2", "programId": "p1", "batchId": "b2", "status": "active",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]interface{}](t, env)
	assert.Equal(t, "ravigmailcom", created["employeeId"])
	newID := created["id"].(string)

	require.Eventually(t, func() bool {
		_, env := srv.do(t, http.MethodGet, "/api/v1/students", token, nil)
		return len(decode[[]map[string]interface{}](t, env)) == 2
	}, time.Second, 10*time.Millisecond)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/students/reassign-batch", token, map[string]interface{}{
		"ids": []string{"s1", newID, "ghost"}, "batchId": "b2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[map[string]interface{}](t, env)
	assert.Len(t, result["affected"], 2)
	assert.Equal(t, []interface{}{"ghost"}, result["skipped"])

	rec, env = srv.do(t, http.MethodPut, "/api/v1/students/ghost", token, map[string]string{
		"fullName": "Nobody", "enrollmentId": "X", "status": "active",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, appErrors.ErrNotFound.Code, env.Error.Code)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/students", token, map[string]string{"fullName": "No Status"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/students/bulk-delete", token, map[string]interface{}{"ids": []string{"s1", newID}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Eventually(t, func() bool {
		_, env := srv.do(t, http.MethodGet, "/api/v1/students", token, nil)
		return len(decode[[]map[string]interface{}](t, env)) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestInquiryLifecycleRoutes(t *testing.T) {
	srv := newTestServer(t, RouteConfig{})
	token := srv.signUp(t)

	rec, env := srv.do(t, http.MethodGet, "/api/v1/inquiries?q=kir", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	inquiries := decode[[]map[string]interface{}](t, env)
	require.Len(t, inquiries, 1)
	assert.Equal(t, "JEE Foundation", inquiries[0]["programName"])

	rec, _ = srv.do(t, http.MethodPatch, "/api/v1/inquiries/i1", token, map[string]string{"status": "Enrolled"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Eventually(t, func() bool {
		_, env := srv.do(t, http.MethodGet, "/api/v1/inquiries?q=kiran", token, nil)
		list := decode[[]map[string]interface{}](t, env)
		return len(list) == 1 && list[0]["status"] == "Enrolled"
	}, time.Second, 10*time.Millisecond)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/inquiries/i1/move-to-potential", token, map[string]string{"remark": "keen"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	moved := decode[map[string]string](t, env)
	potentialID := moved["potentialId"]
	require.NotEmpty(t, potentialID)

	_, ok, err := srv.store.Get(context.Background(), "inquiries/i1")
	require.NoError(t, err)
	assert.False(t, ok)
	potential, ok, err := srv.store.Get(context.Background(), "potentials/"+potentialID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "keen", potential.(map[string]interface{})["remark"])
	assert.Equal(t, "Enrolled", potential.(map[string]interface{})["status"])
	require.Eventually(t, func() bool {
		_, env := srv.do(t, http.MethodGet, "/api/v1/inquiries?q=kiran", token, nil)
		return len(decode[[]map[string]interface{}](t, env)) == 0
	}, time.Second, 10*time.Millisecond)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/inquiries/move-to-potential", token, map[string]interface{}{"ids": []string{"i1", "i2"}, "remark": "batch"})
	require.Equal(t, http.StatusOK, rec.Code)
	moves := decode[map[string]interface{}](t, env)
	assert.Contains(t, moves["potentials"], "i2")
	assert.Equal(t, []interface{}{"i1"}, moves["skipped"])

	rec, env = srv.do(t, http.MethodPost, "/api/v1/inquiries/missing/move-to-potential", token, map[string]string{"remark": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, appErrors.ErrNotFound.Code, env.Error.Code)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/inquiries", token, map[string]string{"name": "Zoya", "phone": "9000000009", "inquiryDate": "2024-05-09"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[map[string]interface{}](t, env)
	assert.Equal(t, "New", created["status"])
	assert.Equal(t, "Other", created["source"])
	assert.Equal(t, "ravigmailcom", created["employeeId"])

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/inquiries/bulk-delete", token, map[string]interface{}{"ids": []string{created["id"].(string)}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPotentialRoutes(t *testing.T) {
	srv := newTestServer(t, RouteConfig{})
	token := srv.signUp(t)

	rec, env := srv.do(t, http.MethodGet, "/api/v1/potentials?q=tara", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	potentials := decode[[]map[string]interface{}](t, env)
	require.Len(t, potentials, 1)
	assert.Equal(t, "Ravi", potentials[0]["employeeName"])

	rec, _ = srv.do(t, http.MethodPut, "/api/v1/potentials/q1", token, map[string]string{"name": "Tara", "phone": "9000000003", "remark": "fees sent"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.Eventually(t, func() bool {
		_, env := srv.do(t, http.MethodGet, "/api/v1/potentials", token, nil)
		list := decode[[]map[string]interface{}](t, env)
		return len(list) == 1 && list[0]["remark"] == "fees sent"
	}, time.Second, 10*time.Millisecond)

	rec, env = srv.do(t, http.MethodPost, "/api/v1/potentials/q1/enroll", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	student := decode[map[string]interface{}](t, env)
	assert.Equal(t, "Tara", student["fullName"])
	assert.Equal(t, "p1", student["programId"])

	_, ok, err := srv.store.Get(context.Background(), "potentials/q1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogAndResultsRoutes(t *testing.T) {
	srv := newTestServer(t, RouteConfig{})
	token := srv.signUp(t)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/programs", token, map[string]interface{}{"name": "NEET Crash", "code": "NC", "fee": 1200, "status": "active"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	program := decode[map[string]interface{}](t, env)
	assert.NotEmpty(t, program["createdAt"])

	rec, _ = srv.do(t, http.MethodPut, "/api/v1/batches/b1", token, map[string]string{"name": "Early Morning", "status": "active"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.Eventually(t, func() bool {
		_, env := srv.do(t, http.MethodGet, "/api/v1/programs?q=nc", token, nil)
		return len(decode[[]map[string]interface{}](t, env)) == 1
	}, time.Second, 10*time.Millisecond)

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/results/JEE/2024", token, map[string]interface{}{"air": 12, "name": "Asha Rao"})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	require.Eventually(t, func() bool {
		_, env := srv.do(t, http.MethodGet, "/api/v1/results", token, nil)
		return len(decode[[]map[string]interface{}](t, env)) == 1
	}, time.Second, 10*time.Millisecond)

	rec, env = srv.do(t, http.MethodDelete, "/api/v1/results/JEE/2024/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)

	rec, env = srv.do(t, http.MethodDelete, "/api/v1/results/JEE/2024/5", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, appErrors.ErrNotFound.Code, env.Error.Code)

	rec, _ = srv.do(t, http.MethodDelete, "/api/v1/results/JEE/2024/0", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = srv.do(t, http.MethodGet, "/api/v1/employees", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, env), 2)
}

func TestDashboardRouteHonoursFeatureFlag(t *testing.T) {
	srv := newTestServer(t, RouteConfig{DashboardEnabled: false})
	token := srv.signUp(t)

	rec, env := srv.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, appErrors.ErrFeatureOff.Code, env.Error.Code)

	srv = newTestServer(t, RouteConfig{DashboardEnabled: true})
	token = srv.signUp(t)
	rec, env = srv.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[map[string]interface{}](t, env)
	assert.EqualValues(t, 1, summary["totalStudents"])
	assert.EqualValues(t, 2, summary["activeInquiries"])
	assert.Len(t, summary["weeklyTrend"], 7)
}

func TestExportRoutes(t *testing.T) {
	srv := newTestServer(t, RouteConfig{ExportsEnabled: true})
	token := srv.signUp(t)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/exports", token, map[string]string{"dataset": "inquiries", "format": "csv"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	job := decode[map[string]interface{}](t, env)
	jobID := job["id"].(string)

	var resultURL string
	require.Eventually(t, func() bool {
		_, env := srv.do(t, http.MethodGet, "/api/v1/exports/"+jobID, token, nil)
		current := decode[map[string]interface{}](t, env)
		if current["status"] != "FINISHED" {
			return false
		}
		resultURL, _ = current["resultUrl"].(string)
		return true
	}, 2*time.Second, 10*time.Millisecond)
	require.Contains(t, resultURL, "/api/v1/exports/download/")

	rec, _ = srv.do(t, http.MethodGet, resultURL, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inquiries-")
	assert.Contains(t, rec.Body.String(), "Kiran")

	rec, env = srv.do(t, http.MethodGet, "/api/v1/exports/download/not-a-token", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, appErrors.ErrNotFound.Code, env.Error.Code)

	rec, env = srv.do(t, http.MethodGet, "/api/v1/exports/unknown", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, appErrors.ErrNotFound.Code, env.Error.Code)
}

func TestExportRoutesDisabled(t *testing.T) {
	srv := newTestServer(t, RouteConfig{ExportsEnabled: false})
	token := srv.signUp(t)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/exports", token, map[string]string{"dataset": "students", "format": "csv"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, appErrors.ErrFeatureOff.Code, env.Error.Code)

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/exports/download/anything", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
