package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gatherly/api/internal/model"
)

func TestWriteData_SuccessEnvelope(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteData(rr, http.StatusOK, map[string]string{"id": "groups:1"})

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var env Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if !env.Success || env.Error != "" {
		t.Errorf("expected clean success envelope, got %+v", env)
	}
}

func TestWriteError_ErrorEnvelope(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteError(rr, model.NewNotFoundError("poll"))

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}

	var env Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if env.Success {
		t.Error("expected success=false")
	}
	if env.Error != "poll not found" {
		t.Errorf("unexpected error text: %q", env.Error)
	}
	if !strings.Contains(rr.Body.String(), `"success":false`) {
		t.Errorf("expected explicit success flag in body: %s", rr.Body.String())
	}
}

func TestWriteMessage_OmitsData(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteMessage(rr, http.StatusOK, "left group")

	if strings.Contains(rr.Body.String(), `"data"`) {
		t.Errorf("expected data omitted, got: %s", rr.Body.String())
	}
}

func TestDecodeJSON_UnknownField_Rejected(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader([]byte(`{"name":"x","bogus":1}`)))
	var body struct {
		Name string `json:"name"`
	}
	if err := DecodeJSON(req, &body); err == nil {
		t.Error("expected unknown field to be rejected")
	}
}
