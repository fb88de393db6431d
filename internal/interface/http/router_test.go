package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nuvia/nutrition-advisor/internal/domain/adminauth"
	"github.com/nuvia/nutrition-advisor/internal/domain/configcenter"
	"github.com/nuvia/nutrition-advisor/internal/domain/recommend"
	"github.com/nuvia/nutrition-advisor/internal/domain/review"
	"github.com/nuvia/nutrition-advisor/internal/domain/rules"
	"github.com/nuvia/nutrition-advisor/internal/domain/scoring"
	"github.com/nuvia/nutrition-advisor/internal/infra/commercerepo"
	"github.com/nuvia/nutrition-advisor/internal/infra/config"
	"github.com/nuvia/nutrition-advisor/internal/infra/configrepo"
	"github.com/nuvia/nutrition-advisor/internal/infra/reportstore"
	"github.com/nuvia/nutrition-advisor/internal/infra/reviewrepo"
)

func TestRouter_RecommendSuccess(t *testing.T) {
	server := newRouterUnderTest(t)

	rec := doRequest(server, http.MethodPost, "/api/v1/recommendations", `{
		"session_id": "sess-1",
		"health_profile": {"goals": ["sleep"]}
	}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result recommend.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Items, 5)
	require.Equal(t, "sess-1", result.SessionID)
	require.NotEmpty(t, result.Disclaimer)
}

func TestRouter_RecommendMissingSession(t *testing.T) {
	server := newRouterUnderTest(t)

	rec := doRequest(server, http.MethodPost, "/api/v1/recommendations", `{"health_profile":{}}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
}

func TestRouter_ReportUploadThenRecommend(t *testing.T) {
	server := newRouterUnderTest(t)

	rec := doRequest(server, http.MethodPost, "/api/v1/reports", `{
		"session_id": "sess-lab",
		"lab_metrics": [{"name": "hemoglobin", "value": 10.5, "unit": "g/dL", "flag": "low"}]
	}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, http.MethodPost, "/api/v1/recommendations", `{
		"session_id": "sess-lab",
		"health_profile": {"goals": ["energy"]}
	}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result recommend.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	keys := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		keys = append(keys, item.RecKey)
	}
	require.Contains(t, keys, "iron")
}

func TestRouter_ReportUploadValidation(t *testing.T) {
	server := newRouterUnderTest(t)

	rec := doRequest(server, http.MethodPost, "/api/v1/reports", `{"session_id":"s","lab_metrics":[]}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	server := newRouterUnderTest(t)

	rec := doRequest(server, http.MethodGet, "/api/v1/admin/reviews", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/v1/admin/reviews", "", "not-a-token")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AdminConfigLifecycle(t *testing.T) {
	server := newRouterUnderTest(t)
	token := loginOperator(t, server)

	rec := doRequest(server, http.MethodPost, "/api/v1/admin/configs", `{
		"config_type": "weights",
		"content": {"report_weight": 0.7},
		"change_reason": "initial weights"
	}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var version configcenter.Version
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &version))
	require.Equal(t, configcenter.StatusDraft, version.Status)

	rec = doRequest(server, http.MethodPost, "/api/v1/admin/configs/"+version.ID+"/approve", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, http.MethodPost, "/api/v1/admin/configs/"+version.ID+"/deploy", `{"rollout_percent": 30}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, http.MethodPost, "/api/v1/admin/configs/"+version.ID+"/activate", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/v1/admin/configs/active?config_type=weights", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var active configcenter.Version
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	require.Equal(t, configcenter.StatusActive, active.Status)
	require.Equal(t, 100, active.RolloutPercent)

	// Nothing was retired before, so rollback has nowhere to go.
	rec = doRequest(server, http.MethodPost, "/api/v1/admin/configs/rollback", `{"config_type":"weights"}`, token)
	require.Equal(t, http.StatusConflict, rec.Code)
	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "no_previous_version", errBody["error"]["code"])

	rec = doRequest(server, http.MethodGet, "/api/v1/admin/configs/"+version.ID+"/audit", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ReviewQueueFlow(t *testing.T) {
	server := newRouterUnderTest(t)
	token := loginOperator(t, server)

	rec := doRequest(server, http.MethodPost, "/api/v1/recommendations", `{
		"session_id": "sess-risky",
		"health_profile": {
			"goals": ["immunity"],
			"chronic_conditions": ["diabetes", "kidney_disease"]
		}
	}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result recommend.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.True(t, result.RequiresReview)

	rec = doRequest(server, http.MethodGet, "/api/v1/admin/reviews?status=PENDING", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list review.List
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	item := list.Items[0]
	require.Equal(t, "sess-risky", item.SessionID)

	rec = doRequest(server, http.MethodPost, "/api/v1/admin/reviews/"+item.ID+"/approve", `{"note":"checked"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, http.MethodPost, "/api/v1/admin/reviews/"+item.ID+"/reject", `{"note":"late"}`, token)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_CommerceBindings(t *testing.T) {
	server := newRouterUnderTest(t)
	token := loginOperator(t, server)

	rec := doRequest(server, http.MethodPut, "/api/v1/admin/commerce/bindings/melatonin", `{
		"slot_type": "shopify", "product_id": "prod-9"
	}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, http.MethodPut, "/api/v1/admin/commerce/bindings/zinc", `{"slot_type":"warehouse"}`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/v1/admin/commerce/bindings", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "prod-9")

	rec = doRequest(server, http.MethodDelete, "/api/v1/admin/commerce/bindings/melatonin", "", token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(server, http.MethodDelete, "/api/v1/admin/commerce/bindings/melatonin", "", token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func doRequest(server *http.Server, method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func loginOperator(t *testing.T, server *http.Server) string {
	t.Helper()
	rec := doRequest(server, http.MethodPost, "/api/v1/admin/login", `{"username":"alice","password":"op-pass-1234"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp adminauth.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func newRouterUnderTest(t *testing.T) *http.Server {
	t.Helper()
	logger := newTestLogger()

	hash, err := bcrypt.GenerateFromPassword([]byte("op-pass-1234"), bcrypt.MinCost)
	require.NoError(t, err)
	authSvc := adminauth.NewService(adminauth.Config{
		Secret:   "test-secret",
		TokenTTL: time.Hour,
		Operators: []adminauth.Operator{
			{ID: "op-1", Username: "alice", PasswordHash: string(hash), Role: "admin"},
		},
	}, logger)

	reports := reportstore.NewMemoryStore(0)
	commerce := commercerepo.NewMemoryRepository()
	recommendSvc := recommend.NewService(
		recommend.Config{CandidatePool: 10, DefaultLocale: "zh-TW"},
		scoring.NewHybridEngine(logger),
		rules.NewEngine(logger),
		nil,
		commerce,
		reports,
		logger,
	)
	reviewSvc := review.NewService(reviewrepo.NewMemoryRepository(), logger)
	configSvc := configcenter.NewService(configrepo.NewMemoryRepository(), logger)

	handler := NewHandler(recommendSvc, reviewSvc, reports, logger)
	admin := NewAdminHandler(authSvc, configSvc, reviewSvc, commerce, logger)

	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler, admin, authSvc, logger)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}
