package auth

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
)

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}

func TestSessionCookieFormat(t *testing.T) {
	rr := httptest.NewRecorder()
	CreateSession(rr, 7)
	c := sessionCookie(rr)
	if c == nil {
		t.Fatal("missing session cookie")
	}
	if !regexp.MustCompile(`^[0-9]+\.[A-Za-z0-9_-]+$`).MatchString(c.Value) {
		t.Fatalf("bad cookie format: %s", c.Value)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	rr := httptest.NewRecorder()
	CreateSession(rr, 42)
	c := sessionCookie(rr)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	uid, ok := ParseSession(req)
	if !ok || uid != 42 {
		t.Fatalf("expected uid 42, got %d ok=%v", uid, ok)
	}
}

func TestSessionTamperRejected(t *testing.T) {
	rr := httptest.NewRecorder()
	CreateSession(rr, 42)
	c := sessionCookie(rr)

	parts := strings.SplitN(c.Value, ".", 2)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "43." + parts[1]})
	if _, ok := ParseSession(req); ok {
		t.Fatal("tampered uid must be rejected")
	}
}

func TestBearerTokenRoundTrip(t *testing.T) {
	token, err := IssueToken(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	uid, ok := ParseBearer(req)
	if !ok || uid != 42 {
		t.Fatalf("expected uid 42, got %d ok=%v", uid, ok)
	}
}

func TestBearerGarbageRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	if _, ok := ParseBearer(req); ok {
		t.Fatal("garbage token must be rejected")
	}
}

func TestMiddlewareAttachesUser(t *testing.T) {
	var gotID uint
	var gotOK bool
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserIDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	CreateSession(rr, 9)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(rr))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !gotOK || gotID != 9 {
		t.Fatalf("expected uid 9 from cookie, got %d ok=%v", gotID, gotOK)
	}

	token, err := IssueToken(11)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req2)
	if !gotOK || gotID != 11 {
		t.Fatalf("expected uid 11 from bearer, got %d ok=%v", gotID, gotOK)
	}
}

func TestRequireAuthBlocksAnonymous(t *testing.T) {
	called := false
	h := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if called {
		t.Fatal("handler must not run without auth")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
