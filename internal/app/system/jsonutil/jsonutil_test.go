package jsonutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONWritesHeaderAndBody(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]any{"total": 42})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["total"] != float64(42) {
		t.Errorf("total = %v", body["total"])
	}
}

func TestErrorShape(t *testing.T) {
	rec := httptest.NewRecorder()
	Forbidden(rec, "admins only")

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "admins only" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	type input struct {
		Value string `json:"value"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":"150","bogus":true}`))
	rec := httptest.NewRecorder()

	var in input
	if err := Decode(rec, req, &in); err == nil {
		t.Error("unknown field accepted")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":"150"}`))
	in = input{}
	if err := Decode(rec, req, &in); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if in.Value != "150" {
		t.Errorf("value = %q", in.Value)
	}
}
