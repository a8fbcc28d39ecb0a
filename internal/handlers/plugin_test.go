package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/pluginhost-backend/internal/platform/logger"
	"github.com/yungbote/pluginhost-backend/internal/requestdata"
	"github.com/yungbote/pluginhost-backend/internal/services"
)

type fakeLifecycle struct {
	installResult   *services.InstallResult
	installErr      error
	uninstallResult *services.UninstallResult
	uninstallErr    error
	statusResult    *services.StatusResult
	statusErr       error

	lastOwnerID string
}

func (f *fakeLifecycle) Install(ctx context.Context, ownerID string) (*services.InstallResult, error) {
	f.lastOwnerID = ownerID
	return f.installResult, f.installErr
}

func (f *fakeLifecycle) Uninstall(ctx context.Context, ownerID string) (*services.UninstallResult, error) {
	f.lastOwnerID = ownerID
	return f.uninstallResult, f.uninstallErr
}

func (f *fakeLifecycle) Status(ctx context.Context, ownerID string) (*services.StatusResult, error) {
	f.lastOwnerID = ownerID
	return f.statusResult, f.statusErr
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func perform(t *testing.T, h gin.HandlerFunc, method string, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req := httptest.NewRequest(method, "/", nil)
	if userID != uuid.Nil {
		ctx := requestdata.WithRequestData(req.Context(), &requestdata.RequestData{UserID: userID})
		req = req.WithContext(ctx)
	}
	c.Request = req
	h(c)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestInstallSuccessEnvelope(t *testing.T) {
	fake := &fakeLifecycle{
		installResult: &services.InstallResult{
			PluginID:        "u_OpenAIConnector",
			PluginSlug:      "OpenAIConnector",
			ModulesCreated:  []string{"u_componentOpenAIKeys"},
			PluginDirectory: "/plugins/u/OpenAIConnector",
			SettingsCreated: []string{"openai_settings_u"},
		},
	}
	h := NewPluginHandler(testLogger(t), fake)

	rec := perform(t, h.Install, http.MethodPost, uuid.New())
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["status"] != "success" {
		t.Fatalf("envelope status: %v", body["status"])
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("envelope data missing: %v", body)
	}
	if data["plugin_id"] != "u_OpenAIConnector" {
		t.Fatalf("data.plugin_id: %v", data["plugin_id"])
	}
}

func TestInstallDomainErrorIsBadRequestWithCode(t *testing.T) {
	fake := &fakeLifecycle{
		installErr: &services.LifecycleError{
			Code:     services.CodeAlreadyInstalled,
			PluginID: "u_OpenAIConnector",
			Err:      fmt.Errorf("plugin already installed for user"),
		},
	}
	h := NewPluginHandler(testLogger(t), fake)

	rec := perform(t, h.Install, http.MethodPost, uuid.New())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["code"] != services.CodeAlreadyInstalled {
		t.Fatalf("code: %v", body["code"])
	}
	if body["plugin_id"] != "u_OpenAIConnector" {
		t.Fatalf("plugin_id: %v", body["plugin_id"])
	}
}

func TestUnexpectedErrorIsInternalServerError(t *testing.T) {
	fake := &fakeLifecycle{installErr: fmt.Errorf("connection refused")}
	h := NewPluginHandler(testLogger(t), fake)

	rec := perform(t, h.Install, http.MethodPost, uuid.New())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: want=500 got=%d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if _, hasCode := body["code"]; hasCode {
		t.Fatalf("internal failures must not leak a domain code: %v", body)
	}
}

func TestMissingIdentityIsForbidden(t *testing.T) {
	fake := &fakeLifecycle{}
	h := NewPluginHandler(testLogger(t), fake)

	for name, fn := range map[string]gin.HandlerFunc{
		"install":   h.Install,
		"uninstall": h.Uninstall,
		"status":    h.Status,
	} {
		rec := perform(t, fn, http.MethodPost, uuid.Nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: want=403 got=%d", name, rec.Code)
		}
	}
	if fake.lastOwnerID != "" {
		t.Fatalf("service must never be reached without identity")
	}
}

func TestUninstallNotInstalledIsBadRequest(t *testing.T) {
	fake := &fakeLifecycle{
		uninstallErr: &services.LifecycleError{
			Code: services.CodeNotInstalled,
			Err:  fmt.Errorf("plugin not installed for user"),
		},
	}
	h := NewPluginHandler(testLogger(t), fake)

	rec := perform(t, h.Uninstall, http.MethodDelete, uuid.New())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["code"] != services.CodeNotInstalled {
		t.Fatalf("code: %v", body["code"])
	}
}

func TestStatusSuccess(t *testing.T) {
	fake := &fakeLifecycle{
		statusResult: &services.StatusResult{
			PluginSlug: "OpenAIConnector",
			PluginName: "OpenAI Connector",
			Installed:  true,
			PluginID:   "u_OpenAIConnector",
		},
	}
	h := NewPluginHandler(testLogger(t), fake)

	rec := perform(t, h.Status, http.MethodGet, uuid.New())
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	data := decodeBody(t, rec)["data"].(map[string]any)
	if data["installed"] != true {
		t.Fatalf("data.installed: %v", data["installed"])
	}
}
