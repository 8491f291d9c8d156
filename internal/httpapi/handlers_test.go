package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bodul/crossword/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return NewServer(st, nil)
}

func TestHandleGenerate_ManualBasicFlow(t *testing.T) {
	srv := newTestServer(t)

	body := `{
		"sessionId": "s1",
		"contentLanguage": "en",
		"mode": "manual_basic",
		"words": [
			{"word": "HELLO", "clue": "a greeting"},
			{"word": "HELP", "clue": "assistance"}
		],
		"gridSizeX": 10,
		"gridSizeY": 10,
		"seed": 42
	}`
	req := httptest.NewRequest("POST", "/api/crosswords", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp GenerateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}
	if resp.CrosswordID == "" {
		t.Fatal("expected a crosswordId")
	}
	if resp.Puzzle == nil {
		t.Fatal("expected a puzzle in the response")
	}
}

func TestHandleGenerate_MissingSessionIDIsBadRequest(t *testing.T) {
	srv := newTestServer(t)

	body := `{"contentLanguage": "en", "mode": "manual_basic", "words": [{"word":"CAT","clue":"pet"}]}`
	req := httptest.NewRequest("POST", "/api/crosswords", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp GenerateResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Success {
		t.Fatal("expected success=false")
	}
}

func TestHandleGenerate_AIModeWithoutAPIKeyFails(t *testing.T) {
	t.Setenv("AI_API_KEY", "")
	srv := newTestServer(t)

	body := `{
		"sessionId": "s1",
		"contentLanguage": "en",
		"mode": "ai",
		"inputType": "TOPIC",
		"inputValue": "animals"
	}`
	req := httptest.NewRequest("POST", "/api/crosswords", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var resp GenerateResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Success {
		t.Fatal("expected AI mode to fail without AI_API_KEY")
	}
}

func TestHandleGet_UnknownIDReturns404(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/crosswords/cw_doesnotexist", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandleGet_ReturnsPersistedCrossword(t *testing.T) {
	srv := newTestServer(t)

	genBody := `{
		"sessionId": "s1",
		"contentLanguage": "en",
		"mode": "manual_basic",
		"words": [
			{"word": "HELLO", "clue": "a greeting"},
			{"word": "HELP", "clue": "assistance"}
		],
		"gridSizeX": 10,
		"gridSizeY": 10,
		"seed": 42
	}`
	genReq := httptest.NewRequest("POST", "/api/crosswords", strings.NewReader(genBody))
	genW := httptest.NewRecorder()
	srv.ServeHTTP(genW, genReq)

	var genResp GenerateResponse
	json.NewDecoder(genW.Body).Decode(&genResp)
	if !genResp.Success {
		t.Fatalf("generation failed: %s", genResp.Error)
	}

	req := httptest.NewRequest("GET", "/api/crosswords/"+genResp.CrosswordID, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestServeHTTP_SetsSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/crosswords/unknown", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected X-Content-Type-Options: nosniff")
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatal("expected X-Frame-Options: DENY")
	}
}
