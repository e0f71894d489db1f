package mockbackend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func doJSON(t *testing.T, h http.Handler, method, path string, headers map[string]string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestSetupIssuesStableCredentials(t *testing.T) {
	srv := New(Config{})
	h := srv.Handler()

	rec, first := doJSON(t, h, http.MethodGet, "/setup?device_id=AABBCC112233", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if first["status"] != "success" {
		t.Fatalf("status field = %v, want success", first["status"])
	}
	for _, key := range []string{"api_key", "friendly_user_id", "uid"} {
		if s, _ := first[key].(string); s == "" {
			t.Errorf("%s missing from registration response", key)
		}
	}

	_, second := doJSON(t, h, http.MethodGet, "/setup?device_id=AABBCC112233", nil, nil)
	if second["api_key"] != first["api_key"] {
		t.Error("same device should receive the same api key")
	}

	if srv.Hits("/setup") != 2 {
		t.Errorf("Hits(/setup) = %d, want 2", srv.Hits("/setup"))
	}
}

func TestSetupRequiresDeviceID(t *testing.T) {
	srv := New(Config{})
	rec, _ := doJSON(t, srv.Handler(), http.MethodGet, "/setup", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSetupRejection(t *testing.T) {
	srv := New(Config{RejectRegistration: true, RejectMessage: "device not linked"})

	rec, body := doJSON(t, srv.Handler(), http.MethodGet, "/setup?device_id=X", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["status"] != "error" || body["message"] != "device not linked" {
		t.Errorf("body = %v", body)
	}
	if _, ok := srv.Device("X"); ok {
		t.Error("rejected device should not be registered")
	}
}

func TestDomainEndpointAuth(t *testing.T) {
	srv := New(Config{})
	srv.AddDevice(Device{DeviceID: "DEV1", UID: "u1", APIKey: "k1"})
	h := srv.Handler()

	tests := []struct {
		name    string
		headers map[string]string
		body    map[string]any
		want    int
	}{
		{"valid", map[string]string{"x-device-id": "DEV1", "x-api-key": "k1"}, map[string]any{"uid": "u1", "device_id": "DEV1"}, http.StatusOK},
		{"missing key", map[string]string{"x-device-id": "DEV1"}, map[string]any{"uid": "u1", "device_id": "DEV1"}, http.StatusUnauthorized},
		{"wrong key", map[string]string{"x-device-id": "DEV1", "x-api-key": "nope"}, map[string]any{"uid": "u1", "device_id": "DEV1"}, http.StatusUnauthorized},
		{"unknown device", map[string]string{"x-device-id": "DEV2", "x-api-key": "k1"}, map[string]any{"uid": "u1", "device_id": "DEV2"}, http.StatusUnauthorized},
		{"missing uid", map[string]string{"x-device-id": "DEV1", "x-api-key": "k1"}, map[string]any{"device_id": "DEV1"}, http.StatusBadRequest},
		{"no body", map[string]string{"x-device-id": "DEV1", "x-api-key": "k1"}, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doJSON(t, h, http.MethodPost, "/weather", tt.headers, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestForceStatus(t *testing.T) {
	srv := New(Config{})
	srv.AddDevice(Device{DeviceID: "DEV1", UID: "u1", APIKey: "k1"})
	srv.ForceStatus("/weather", http.StatusNotFound)

	headers := map[string]string{"x-device-id": "DEV1", "x-api-key": "k1"}
	body := map[string]any{"uid": "u1", "device_id": "DEV1"}

	rec, out := doJSON(t, srv.Handler(), http.MethodPost, "/weather", headers, body)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if out["status"] != "error" {
		t.Errorf("forced response should carry a JSON error body, got %v", out)
	}

	srv.ForceStatus("/weather", 0)
	rec, _ = doJSON(t, srv.Handler(), http.MethodPost, "/weather", headers, body)
	if rec.Code != http.StatusOK {
		t.Errorf("status after clearing = %d, want 200", rec.Code)
	}
}

func TestPrefixMount(t *testing.T) {
	srv := New(Config{Prefix: "/api"})

	rec, _ := doJSON(t, srv.Handler(), http.MethodGet, "/api/setup?device_id=X", nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if srv.Hits("/setup") != 1 {
		t.Errorf("Hits(/setup) = %d, want 1 (prefix stripped)", srv.Hits("/setup"))
	}
}

func TestCanvasReturnsTopLevelArray(t *testing.T) {
	srv := New(Config{})
	srv.AddDevice(Device{DeviceID: "DEV1", UID: "u1", APIKey: "k1"})

	req := httptest.NewRequest(http.MethodPost, "/canvas",
		bytes.NewBufferString(`{"uid":"u1","device_id":"DEV1","type":"grades"}`))
	req.Header.Set("x-device-id", "DEV1")
	req.Header.Set("x-api-key", "k1")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var grades []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &grades); err != nil {
		t.Fatalf("response is not an array: %v", err)
	}
	if len(grades) != 3 {
		t.Errorf("got %d grades, want 3", len(grades))
	}
}

func TestLastRequestRecordsBody(t *testing.T) {
	srv := New(Config{})
	srv.AddDevice(Device{DeviceID: "DEV1", UID: "u1", APIKey: "k1"})

	headers := map[string]string{"x-device-id": "DEV1", "x-api-key": "k1", "Content-Type": "application/json"}
	doJSON(t, srv.Handler(), http.MethodPost, "/news", headers, map[string]any{"uid": "u1", "device_id": "DEV1", "category": "tech"})

	req, ok := srv.LastRequest("/news")
	if !ok {
		t.Fatal("LastRequest(/news) not recorded")
	}
	if req.Body["category"] != "tech" {
		t.Errorf("recorded category = %v, want tech", req.Body["category"])
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("recorded Content-Type = %q", req.Header.Get("Content-Type"))
	}
	if srv.TotalHits() != 1 {
		t.Errorf("TotalHits() = %d, want 1", srv.TotalHits())
	}
}
