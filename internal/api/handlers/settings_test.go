package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matiasleandrokruk/vocable/internal/infra/aiconfig"
)

type settingsStoreStub struct {
	cfg            aiconfig.RoutingConfig
	getErr         error
	gotPrimary     aiconfig.ProviderConfig
	gotFallback    aiconfig.ProviderConfig
	replaceCalls   int
	replaceVersion int64
	replaceErr     error
}

func (s *settingsStoreStub) Get() (aiconfig.RoutingConfig, error) {
	return s.cfg, s.getErr
}

func (s *settingsStoreStub) Replace(_ context.Context, primary, fallback aiconfig.ProviderConfig) (int64, error) {
	s.replaceCalls++
	s.gotPrimary = primary
	s.gotFallback = fallback
	return s.replaceVersion, s.replaceErr
}

func runtimeSlot(model string) aiconfig.ProviderConfig {
	return aiconfig.ProviderConfig{
		Kind:        aiconfig.KindLocalRuntime,
		ModelID:     model,
		BaseURL:     "http://localhost:11434",
		MaxTokens:   256,
		Temperature: 0.7,
	}
}

func gatewaySlot(model string) aiconfig.ProviderConfig {
	return aiconfig.ProviderConfig{
		Kind:        aiconfig.KindCloudGateway,
		ModelID:     model,
		BaseURL:     "https://gateway.example.com",
		Credential:  "sk-secret",
		MaxTokens:   512,
		Temperature: 0.4,
	}
}

func settingsPut(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/ai", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestGetSettings_RedactsCredential(t *testing.T) {
	stub := &settingsStoreStub{cfg: aiconfig.RoutingConfig{
		Primary:  gatewaySlot("gpt-mini"),
		Fallback: runtimeSlot("llama3"),
		Version:  7,
	}}
	h := NewSettingsHandler(stub)

	rr := httptest.NewRecorder()
	h.GetSettings(rr, httptest.NewRequest(http.MethodGet, "/api/v1/settings/ai", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var got settingsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not a settings payload: %v", err)
	}
	if got.Version != 7 {
		t.Errorf("version = %d; want 7", got.Version)
	}
	if got.Primary.Credential != "********" {
		t.Errorf("credential leaked: %q", got.Primary.Credential)
	}
	if got.Primary.ModelID != "gpt-mini" || got.Fallback.ModelID != "llama3" {
		t.Errorf("slots not returned: %+v", got)
	}
}

func TestGetSettings_NotConfigured(t *testing.T) {
	h := NewSettingsHandler(&settingsStoreStub{getErr: aiconfig.ErrNotConfigured})

	rr := httptest.NewRecorder()
	h.GetSettings(rr, httptest.NewRequest(http.MethodGet, "/api/v1/settings/ai", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestUpdateSettings_ReplacesBoth(t *testing.T) {
	stub := &settingsStoreStub{
		cfg:            aiconfig.RoutingConfig{Primary: runtimeSlot("old"), Fallback: runtimeSlot("old"), Version: 1},
		replaceVersion: 2,
	}
	h := NewSettingsHandler(stub)

	body, _ := json.Marshal(updateSettingsRequest{
		Primary:  ptrSlot(gatewaySlot("gpt-mini")),
		Fallback: ptrSlot(runtimeSlot("llama3")),
	})
	rr := httptest.NewRecorder()
	h.UpdateSettings(rr, settingsPut(string(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var got versionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not a version payload: %v", err)
	}
	if got.Version != 2 {
		t.Errorf("version = %d; want 2", got.Version)
	}
	if stub.gotPrimary.ModelID != "gpt-mini" || stub.gotFallback.ModelID != "llama3" {
		t.Errorf("slots not forwarded: primary=%+v fallback=%+v", stub.gotPrimary, stub.gotFallback)
	}
}

func TestUpdateSettings_PartialKeepsOtherSlot(t *testing.T) {
	current := aiconfig.RoutingConfig{Primary: runtimeSlot("keep-me"), Fallback: runtimeSlot("stay"), Version: 3}
	stub := &settingsStoreStub{cfg: current, replaceVersion: 4}
	h := NewSettingsHandler(stub)

	body, _ := json.Marshal(updateSettingsRequest{Fallback: ptrSlot(gatewaySlot("new-fallback"))})
	rr := httptest.NewRecorder()
	h.UpdateSettings(rr, settingsPut(string(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if stub.gotPrimary.ModelID != "keep-me" {
		t.Errorf("primary slot not carried over: %+v", stub.gotPrimary)
	}
	if stub.gotFallback.ModelID != "new-fallback" {
		t.Errorf("fallback slot not replaced: %+v", stub.gotFallback)
	}
}

func TestUpdateSettings_Validation(t *testing.T) {
	t.Run("first configuration needs both slots", func(t *testing.T) {
		stub := &settingsStoreStub{getErr: aiconfig.ErrNotConfigured}
		h := NewSettingsHandler(stub)

		body, _ := json.Marshal(updateSettingsRequest{Primary: ptrSlot(runtimeSlot("only-one"))})
		rr := httptest.NewRecorder()
		h.UpdateSettings(rr, settingsPut(string(body)))

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
		if stub.replaceCalls != 0 {
			t.Error("Replace should not be called")
		}
	})

	t.Run("invalid slot rejected before replace", func(t *testing.T) {
		stub := &settingsStoreStub{cfg: aiconfig.RoutingConfig{Primary: runtimeSlot("p"), Fallback: runtimeSlot("f")}}
		h := NewSettingsHandler(stub)

		bad := runtimeSlot("bad")
		bad.Kind = "mystery-provider"
		body, _ := json.Marshal(updateSettingsRequest{Primary: &bad})
		rr := httptest.NewRecorder()
		h.UpdateSettings(rr, settingsPut(string(body)))

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
		if stub.replaceCalls != 0 {
			t.Error("Replace should not be called")
		}
	})

	t.Run("empty request", func(t *testing.T) {
		h := NewSettingsHandler(&settingsStoreStub{})
		rr := httptest.NewRecorder()
		h.UpdateSettings(rr, settingsPut(`{}`))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewSettingsHandler(&settingsStoreStub{})
		rr := httptest.NewRecorder()
		h.UpdateSettings(rr, settingsPut(`{`))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})
}

func TestUpdateSettings_PersistFailure(t *testing.T) {
	stub := &settingsStoreStub{
		cfg:        aiconfig.RoutingConfig{Primary: runtimeSlot("p"), Fallback: runtimeSlot("f")},
		replaceErr: context.DeadlineExceeded,
	}
	h := NewSettingsHandler(stub)

	body, _ := json.Marshal(updateSettingsRequest{Primary: ptrSlot(runtimeSlot("new"))})
	rr := httptest.NewRecorder()
	h.UpdateSettings(rr, settingsPut(string(body)))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func ptrSlot(p aiconfig.ProviderConfig) *aiconfig.ProviderConfig {
	return &p
}
