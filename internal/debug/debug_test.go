package debug

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func Test_VarsPublishBuild(t *testing.T) {
	Mux("old-build")
	//a second call must not panic on re-publishing.
	mux := Mux("test-build")

	r := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, got=%d", http.StatusOK, w.Code)
	}

	var vars map[string]any
	if err := json.NewDecoder(w.Body).Decode(&vars); err != nil {
		t.Fatalf("failed to decode vars: %s", err)
	}

	if vars["build"] != "test-build" {
		t.Errorf("build=%s, got=%v", "test-build", vars["build"])
	}
}
