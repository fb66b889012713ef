package resp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ncobase/cargohold/ecode"
)

func TestSuccessWritesPayload(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, map[string]string{"id": "file_1"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["id"] != "file_1" {
		t.Fatalf("body = %v", body)
	}
}

func TestSuccessWithMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WithStatusCode(w, http.StatusCreated, "created")

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"message":"created"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestFailExceptions(t *testing.T) {
	cases := []struct {
		ex     *Exception
		status int
		code   int
	}{
		{BadRequest("Invalid after id"), http.StatusBadRequest, ecode.RequestErr},
		{NotFound(), http.StatusNotFound, ecode.NothingFound},
		{Gone("link expired"), http.StatusGone, ecode.Expired},
		{EntityTooLarge(), http.StatusRequestEntityTooLarge, ecode.EntityTooLarge},
		{InternalServer(), http.StatusInternalServerError, ecode.ServerErr},
		{nil, http.StatusInternalServerError, ecode.ServerErr},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		Fail(w, tc.ex)
		if w.Code != tc.status {
			t.Errorf("status = %d, want %d", w.Code, tc.status)
		}
		var body Exception
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.Code != tc.code || body.Message == "" {
			t.Errorf("body = %+v, want code %d", body, tc.code)
		}
	}
}

func TestStream(t *testing.T) {
	w := httptest.NewRecorder()
	if err := Stream(w, "", 5, strings.NewReader("hello")); err != nil {
		t.Fatal(err)
	}
	if w.Header().Get("Content-Type") != "application/octet-stream" {
		t.Fatalf("content type = %q", w.Header().Get("Content-Type"))
	}
	if w.Header().Get("Content-Length") != "5" || w.Body.String() != "hello" {
		t.Fatalf("unexpected stream output %q", w.Body.String())
	}
}
