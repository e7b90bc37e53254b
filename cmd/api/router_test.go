package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maternity/internal/cache"
	"maternity/internal/config"
	"maternity/internal/media"
	"maternity/internal/testutil"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		AppEnv:            "test",
		JWTSecret:         "test-secret",
		JWTTTL:            time.Hour,
		DBQueryTimeout:    5 * time.Second,
		RecommendCacheTTL: time.Minute,
		MediaBackend:      "local",
		MediaDir:          t.TempDir(),
		MediaURLBase:      "/static/uploads",
		InternalToken:     "ops-token",
	}
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig(t)
	db := testutil.NewDB(t)
	return newRouter(cfg, zerolog.Nop(), db, cache.NewMemory(), media.NewLocal(cfg.MediaDir, cfg.MediaURLBase))
}

func call(h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, h http.Handler, username, role string, extra map[string]any) string {
	t.Helper()
	body := map[string]any{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "s3cret-pass",
		"user_type": role,
		"city":      "Pune",
		"state":     "MH",
	}
	for k, v := range extra {
		body[k] = v
	}
	w := call(h, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Data.AccessToken)
	return res.Data.AccessToken
}

func profileIDs(t *testing.T, h http.Handler, token string) (pregnantID, caregiverID int64) {
	t.Helper()
	w := call(h, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Data struct {
			PregnantID  int64 `json:"pregnant_profile_id"`
			CaregiverID int64 `json:"caregiver_profile_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Data.PregnantID, res.Data.CaregiverID
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t)
	w := call(h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newTestServer(t)

	w := call(h, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(h, http.MethodGet, "/api/v1/users/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(h, http.MethodPost, "/api/v1/internal/verifications/1/status", "", map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(h, http.MethodGet, "/api/v1/posts", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAppointmentFlowAcrossAccounts(t *testing.T) {
	h := newTestServer(t)

	motherToken := register(t, h, "asha", "pregnant", nil)
	caregiverToken := register(t, h, "meera", "caregiver", map[string]any{"hourly_rate": 25})

	_, caregiverID := profileIDs(t, h, caregiverToken)
	require.NotZero(t, caregiverID)

	w := call(h, http.MethodGet, "/api/v1/caregivers/recommended", motherToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"id":%d`, caregiverID))

	w = call(h, http.MethodPost, "/api/v1/appointments", motherToken, map[string]any{
		"caregiver": caregiverID,
		"date":      "2030-01-15",
		"time":      "10:30",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pending", created.Data.Status)

	confirm := fmt.Sprintf("/api/v1/appointments/%d/confirm", created.Data.ID)

	w = call(h, http.MethodPost, confirm, motherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(h, http.MethodPost, confirm, caregiverToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)

	w = call(h, http.MethodPost, confirm, caregiverToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginRoundTrip(t *testing.T) {
	h := newTestServer(t)
	register(t, h, "priya", "pregnant", nil)

	w := call(h, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"username": "priya", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(h, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"username": "priya@example.com", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "access_token")
}

func TestRecommendationsIncludeNewlyRegisteredCaregiver(t *testing.T) {
	h := newTestServer(t)
	motherToken := register(t, h, "asha", "pregnant", nil)

	w := call(h, http.MethodGet, "/api/v1/caregivers/recommended", motherToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	caregiverToken := register(t, h, "meera", "caregiver", map[string]any{"hourly_rate": 25})
	_, caregiverID := profileIDs(t, h, caregiverToken)

	w = call(h, http.MethodGet, "/api/v1/caregivers/recommended", motherToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"id":%d`, caregiverID))
}

func TestVerificationImagesAreNotPublic(t *testing.T) {
	cfg := testConfig(t)
	h := newRouter(cfg, zerolog.Nop(), testutil.NewDB(t), cache.NewMemory(), media.NewLocal(cfg.MediaDir, cfg.MediaURLBase))
	token := register(t, h, "asha", "pregnant", nil)
	otherToken := register(t, h, "priya", "pregnant", nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("id_type", "passport"))
	require.NoError(t, mw.WriteField("id_number", "P1234567"))
	for _, name := range []string{"front_image", "back_image"} {
		part, err := mw.CreateFormFile(name, name+".png")
		require.NoError(t, err)
		_, err = part.Write(testutil.PNGBytes)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/verification", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res struct {
		Data struct {
			ID            int64  `json:"id"`
			FrontImage    string `json:"front_image"`
			FrontImageURL string `json:"front_image_url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Data.FrontImage)

	w = call(h, http.MethodGet, cfg.MediaURLBase+"/"+res.Data.FrontImage, "", nil)
	assert.NotEqual(t, http.StatusOK, w.Code)

	w = call(h, http.MethodGet, res.Data.FrontImageURL, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(h, http.MethodGet, res.Data.FrontImageURL, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(h, http.MethodGet, res.Data.FrontImageURL, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, testutil.PNGBytes, w.Body.Bytes())

	operatorURL := fmt.Sprintf("/api/v1/internal/verifications/%d/images/front", res.Data.ID)
	w = call(h, http.MethodGet, operatorURL, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(h, http.MethodGet, operatorURL, cfg.InternalToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, testutil.PNGBytes, w.Body.Bytes())
}
