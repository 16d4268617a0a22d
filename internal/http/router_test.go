package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"backoffice/internal/api"
	"backoffice/internal/apiclient"
	intconfig "backoffice/internal/config"
	"backoffice/internal/domain/models"
	h "backoffice/internal/http/handlers"
	"backoffice/internal/http/middleware"
	"backoffice/internal/securestore"
	"backoffice/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendCall struct {
	Method string
	Path   string
	Query  string
	Auth   string
	RID    string
	Body   string
}

// fakeBackend answers the handful of endpoints the gateway tests touch.
type fakeBackend struct {
	mu    sync.Mutex
	calls []backendCall
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.calls = append(b.calls, backendCall{
		Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery,
		Auth: r.Header.Get("Authorization"), RID: r.Header.Get("X-Request-ID"), Body: string(body),
	})
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.Method + " " + r.URL.Path {
	case "POST /api/users/login":
		var creds map[string]string
		_ = json.Unmarshal(body, &creds)
		if creds["password"] != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"bad credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"opaque-at","refreshToken":"rt"}`))
	case "GET /api/agent/me":
		_, _ = w.Write([]byte(`{"id":7,"username":"amina","role":"admin"}`))
	case "GET /api/cnam-orders":
		_, _ = w.Write([]byte(`[{"id":1,"patientName":"P","cnamNumber":"C1","totalPrice":100,"paidAmount":40}]`))
	case "GET /api/elemana-orders":
		_, _ = w.Write([]byte(`{"data":[{"id":2,"clientName":"E","totalPrice":50,"paidAmount":0,"allPaid":false,"invoiceSent":false}]}`))
	case "GET /api/glasses-orders/all":
		_, _ = w.Write([]byte(`[{"id":3,"opticId":4,"clientName":"G","quantity":1,"totalPrice":30,"paid":false}]`))
	case "GET /api/admin/optics/all":
		_, _ = w.Write([]byte(`[{"id":4,"name":"Vision","autoValidate":false,"active":true}]`))
	case "DELETE /api/cnam-orders/delete/404":
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"order not found"}`))
	case "GET /api/cnam-orders/print/8":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="facture-8.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	case "POST /api/elemana-orders/paye/5",
		"POST /api/glasses-orders/mark-optic-orders-paid/4",
		"POST /api/firebase/create-folder":
		w.WriteHeader(http.StatusOK)
	case "PUT /api/cnam-orders/update/5":
		_, _ = w.Write([]byte(`{"data":{"id":5,"status":"done"}}`))
	case "POST /api/glasses-orders/create":
		w.WriteHeader(http.StatusOK)
	case "PUT /api/marketing/update/3":
		_, _ = w.Write(body)
	case "POST /api/marketing/create":
		_, _ = w.Write([]byte(`{"id":42,"title":"Promo","messageFr":"Bonjour","messageAr":""}`))
	default:
		w.WriteHeader(http.StatusTeapot)
	}
}

func (b *fakeBackend) last() backendCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[len(b.calls)-1]
}

func (b *fakeBackend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

type gateway struct {
	engine   *gin.Engine
	backend  *fakeBackend
	sessions *session.Manager
	// token is the credential returned by the last successful login.
	token string
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(apiclient.Options{BaseURL: srv.URL + "/api", HTTPClient: srv.Client()})
	require.NoError(t, err)
	apis := api.New(client, nil)

	store, err := securestore.New(securestore.NewFileBackend(filepath.Join(t.TempDir(), "store.json")), []byte("secret"))
	require.NoError(t, err)
	mgr, err := session.NewManager(session.Options{Store: store, Auth: apis.Auth})
	require.NoError(t, err)
	client.SetTokenSource(mgr)

	tokens, err := middleware.NewTokens([]byte("gateway-secret"), time.Hour)
	require.NoError(t, err)

	hd := h.New(apis, mgr, nil, tokens, nil)
	return &gateway{engine: NewRouter(intconfig.Env{}, hd, nil), backend: backend, sessions: mgr}
}

func newRequest(method, path, body string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func (g *gateway) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	g.engine.ServeHTTP(w, req)
	return w
}

// do sends the request with the signed-in caller's credential, if any.
func (g *gateway) do(method, path, body string) *httptest.ResponseRecorder {
	req := newRequest(method, path, body)
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	return g.serve(req)
}

// anonymous sends the request without any credential.
func (g *gateway) anonymous(method, path, body string) *httptest.ResponseRecorder {
	return g.serve(newRequest(method, path, body))
}

func (g *gateway) login(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	w := g.anonymous(http.MethodPost, "/api/auth/login", `{"username":"amina","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token   string         `json:"token"`
		Session map[string]any `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	g.token = out.Token
	return w
}

func TestHealthAndRoutes(t *testing.T) {
	g := newGateway(t)

	w := g.do(http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = g.do(http.MethodGet, "/api/routes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/reports/glasses.pdf")

	w = g.do(http.MethodGet, "/api/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSecuredRoutesRequireSession(t *testing.T) {
	g := newGateway(t)
	w := g.do(http.MethodGet, "/api/cnam-orders", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, g.backend.count())
}

func TestLoginFlow(t *testing.T) {
	g := newGateway(t)

	w := g.do(http.MethodPost, "/api/auth/login", `{"username":"amina","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "backend status passes through")
	assert.Contains(t, w.Body.String(), "bad credentials")

	w = g.do(http.MethodPost, "/api/auth/login", `{"username":"amina"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	lw := g.login(t)
	assert.Contains(t, lw.Header().Get("Set-Cookie"), middleware.SessionCookie+"=")
	assert.Contains(t, lw.Header().Get("Set-Cookie"), "HttpOnly")

	w = g.do(http.MethodGet, "/api/auth/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	var st map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, true, st["authenticated"])
	assert.Equal(t, "amina", st["username"])

	w = g.do(http.MethodGet, "/api/auth/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bearer opaque-at", g.backend.last().Auth)

	w = g.do(http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = g.do(http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOtherCallersCannotUseOperatorSession(t *testing.T) {
	g := newGateway(t)
	g.login(t)
	before := g.backend.count()

	w := g.anonymous(http.MethodGet, "/api/cnam-orders", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = g.anonymous(http.MethodPost, "/api/essafwa-orders/5/pay", `{"allPaid":true}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = g.anonymous(http.MethodGet, "/api/auth/session", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = g.anonymous(http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, before, g.backend.count(), "nothing reached the backend")

	req := newRequest(http.MethodGet, "/api/cnam-orders", "")
	req.Header.Set("Authorization", "Basic YW1pbmE6cHc=")
	assert.Equal(t, http.StatusUnauthorized, g.serve(req).Code)

	w = g.do(http.MethodGet, "/api/cnam-orders", "")
	assert.Equal(t, http.StatusOK, w.Code, "the operator is still signed in")
}

func TestCredentialAcceptedFromCookie(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	req := newRequest(http.MethodGet, "/api/cnam-orders", "")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: g.token})
	assert.Equal(t, http.StatusOK, g.serve(req).Code)
}

func TestForgedAndReplacedCredentialsRejected(t *testing.T) {
	g := newGateway(t)
	g.login(t)
	first := g.token

	other, err := middleware.NewTokens([]byte("another-secret"), time.Hour)
	require.NoError(t, err)
	forged, _, err := other.Issue("mallory", "sid")
	require.NoError(t, err)
	g.token = forged
	assert.Equal(t, http.StatusUnauthorized, g.do(http.MethodGet, "/api/cnam-orders", "").Code)

	g.login(t)
	assert.NotEqual(t, first, g.token)
	assert.Equal(t, http.StatusOK, g.do(http.MethodGet, "/api/cnam-orders", "").Code)

	g.token = first
	assert.Equal(t, http.StatusUnauthorized, g.do(http.MethodGet, "/api/cnam-orders", "").Code,
		"a new sign-in revokes earlier credentials")
}

func TestRestoredSessionNeedsGatewaySignIn(t *testing.T) {
	g := newGateway(t)
	require.NoError(t, g.sessions.Login(context.Background(), models.Credentials{Username: "amina", Password: "pw"}))
	require.True(t, g.sessions.State().State().Authenticated)

	w := g.anonymous(http.MethodGet, "/api/cnam-orders", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionEndedElsewhereRevokesCredential(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	require.NoError(t, g.sessions.Logout(context.Background()))
	assert.Equal(t, http.StatusUnauthorized, g.do(http.MethodGet, "/api/cnam-orders", "").Code)
}

func TestRequestIDForwardedToBackend(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	req := newRequest(http.MethodGet, "/api/cnam-orders", "")
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("X-Request-ID", "rid-42")
	w := g.serve(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rid-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "rid-42", g.backend.last().RID)
}

func TestBackendErrorStatusPassesThrough(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	w := g.do(http.MethodDelete, "/api/cnam-orders/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "order not found")

	w = g.do(http.MethodGet, "/api/categories", "")
	assert.Equal(t, http.StatusTeapot, w.Code)

	w = g.do(http.MethodDelete, "/api/cnam-orders/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayAndMarkPaidForwardPayload(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	w := g.do(http.MethodPost, "/api/essafwa-orders/5/pay", `{"allPaid":false,"paidAmount":120.5}`)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	call := g.backend.last()
	assert.Equal(t, "/api/elemana-orders/paye/5", call.Path)

	w = g.do(http.MethodPost, "/api/essafwa-orders/5/pay", `{"allPaid":false,"paidAmount":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = g.do(http.MethodPost, "/api/optics/4/orders/paid", `{"orderIds":[1,2]}`)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.JSONEq(t, `[1,2]`, g.backend.last().Body)

	w = g.do(http.MethodPost, "/api/files/folders", `{"path":"/clients/2024/"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "folderPath=clients%2F2024", g.backend.last().Query)
}

func TestOrderWritesForwardCallerBody(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	body := `{"status":"done","prescriptionDate":"2026-01-01"}`
	w := g.do(http.MethodPut, "/api/cnam-orders/5", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	call := g.backend.last()
	assert.Equal(t, "/api/cnam-orders/update/5", call.Path)
	assert.Equal(t, body, call.Body, "partial updates reach the backend untouched")
	assert.JSONEq(t, `{"id":5,"status":"done"}`, w.Body.String())

	body = `{"opticId":4,"clientName":"G","lensCoating":"blue"}`
	w = g.do(http.MethodPost, "/api/glasses-orders", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, body, g.backend.last().Body)

	w = g.do(http.MethodPut, "/api/cnam-orders/5", `["status"]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = g.do(http.MethodPost, "/api/essafwa-orders", `{"clientName":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarketingValidation(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	w := g.do(http.MethodPost, "/api/marketing", `{"title":"","messageFr":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = g.do(http.MethodPost, "/api/marketing", `{"id":9,"title":"Promo","messageFr":"Bonjour"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, g.backend.last().Body, `"id"`, "client-supplied ids are dropped on create")

	w = g.do(http.MethodPost, "/api/marketing", `{"title":"  Promo   hiver ","messageFr":" Bonjour "}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, g.backend.last().Body, `"title":"Promo hiver"`)
	assert.Contains(t, g.backend.last().Body, `"messageFr":"Bonjour"`)

	w = g.do(http.MethodPut, "/api/marketing/3", `{"messageAr":" مرحبا ","audience":"optics"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"messageAr":"مرحبا","audience":"optics"}`, g.backend.last().Body,
		"only sent fields are forwarded")

	w = g.do(http.MethodPut, "/api/marketing/3", `{"title":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceRelayed(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	w := g.do(http.MethodGet, "/api/cnam-orders/8/invoice?download=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="facture-8.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 fake", w.Body.String())
}

func TestReportsAndDashboard(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	w := g.do(http.MethodGet, "/api/reports/cnam.pdf?unpaid=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = g.do(http.MethodGet, "/api/reports/glasses.pdf?optic=x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = g.do(http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var d map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.EqualValues(t, 1, d["cnamOrders"])
	assert.EqualValues(t, 1, d["essafwaOrders"])
	assert.EqualValues(t, 60, d["cnamDue"])
	assert.EqualValues(t, 50, d["essafwaDue"])
	assert.EqualValues(t, 1, d["activeOptics"])
}

func TestCORSPreflight(t *testing.T) {
	g := newGateway(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/cnam-orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	g.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
