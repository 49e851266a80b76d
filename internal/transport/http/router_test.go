package httptransport_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ErlanBelekov/voltforge-storefront/internal/catalog"
	"github.com/ErlanBelekov/voltforge-storefront/internal/email"
	"github.com/ErlanBelekov/voltforge-storefront/internal/infrastructure/memory"
	"github.com/ErlanBelekov/voltforge-storefront/internal/store"
	httptransport "github.com/ErlanBelekov/voltforge-storefront/internal/transport/http"
	"github.com/ErlanBelekov/voltforge-storefront/internal/transport/http/handler"
	"github.com/ErlanBelekov/voltforge-storefront/internal/transport/http/middleware"
	"github.com/ErlanBelekov/voltforge-storefront/internal/ui"
	"github.com/ErlanBelekov/voltforge-storefront/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const secret = "router-test-secret-at-least-32-chars"

func newServer(t *testing.T) (*gin.Engine, *memory.KV) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	kv := memory.NewKV()
	st := store.New(kv)
	cat := usecase.NewCatalogUsecase(st)
	if _, err := cat.Seed(context.Background(), catalog.Products()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	session := usecase.NewSessionUsecase(st, email.NewSender("local", "", "", logger), logger, "signin.html", "index.html")
	cart := usecase.NewCartUsecase(st, session, cat, 9.99)
	favs := usecase.NewFavoritesUsecase(st, session, cat, true)
	sync := ui.NewSynchronizer(cart, favs, session, cat, 2, logger)

	tokens := middleware.NewClientTokens([]byte(secret), time.Hour)
	return httptransport.NewRouter(logger, httptransport.Handlers{
		Catalog:   handler.NewCatalogHandler(cat, favs, logger),
		Auth:      handler.NewAuthHandler(session, logger),
		Cart:      handler.NewCartHandler(cart, logger),
		Favorites: handler.NewFavoritesHandler(favs, cat, logger),
		UI:        handler.NewUIHandler(sync, logger),
	}, middleware.Client(tokens, st, false, logger), false), kv
}

// browser keeps the client token between requests, like a cookie jar.
type browser struct {
	t     *testing.T
	srv   *gin.Engine
	token string
	page  string
}

func (b *browser) call(method, path, body string) (int, map[string]any) {
	b.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	if b.page != "" {
		req.Header.Set(middleware.CurrentURLHeader, b.page)
	}
	w := httptest.NewRecorder()
	b.srv.ServeHTTP(w, req)

	if tok := w.Header().Get(middleware.ClientTokenHeader); tok != "" {
		b.token = tok
	}
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		b.t.Fatalf("decode %s %s: %v (body: %s)", method, path, err, w.Body.String())
	}
	return w.Code, out
}

// expect fails the test when a step of a flow returns the wrong status.
func (b *browser) expect(method, path, body string, status int) map[string]any {
	b.t.Helper()
	code, out := b.call(method, path, body)
	if code != status {
		b.t.Fatalf("%s %s: status = %d, want %d (body: %v)", method, path, code, status, out)
	}
	return out
}

func TestStorefrontFlow(t *testing.T) {
	srv, _ := newServer(t)
	b := &browser{t: t, srv: srv}

	body := b.expect(http.MethodGet, "/products", "", http.StatusOK)
	if n := len(body["products"].([]any)); n != 8 {
		t.Errorf("products = %d, want 8", n)
	}

	// anonymous add to cart is bounced to sign-in
	b.page = "http://shop.test/product-details.html?id=2"
	body = b.expect(http.MethodPost, "/cart/items", `{"product_id":"2","quantity":2}`, http.StatusUnauthorized)
	if body["redirect"] != "signin.html" {
		t.Errorf("redirect = %v, want signin.html", body["redirect"])
	}

	// signing up returns to the product page
	b.page = "http://shop.test/signup.html"
	body = b.expect(http.MethodPost, "/auth/signup",
		`{"name":"Ada Lovelace","email":"ada@example.com","password":"secret1","confirm_password":"secret1"}`,
		http.StatusCreated)
	if body["redirect"] != "http://shop.test/product-details.html?id=2" {
		t.Errorf("redirect = %v, want the product page", body["redirect"])
	}

	body = b.expect(http.MethodPost, "/cart/items", `{"product_id":"2","quantity":2}`, http.StatusOK)
	if body["message"] != "2 UltraFast 240Hz OLED Monitor(s) added to cart!" {
		t.Errorf("message = %v", body["message"])
	}
	total := body["summary"].(map[string]any)["total"].(float64)
	if math.Abs(total-(1398+9.99)) > 1e-9 {
		t.Errorf("total = %v, want 1407.99", total)
	}

	body = b.expect(http.MethodPost, "/favorites/2/toggle", "", http.StatusOK)
	if body["is_favorite"] != true {
		t.Errorf("is_favorite = %v after toggle", body["is_favorite"])
	}

	body = b.expect(http.MethodGet, "/products/2", "", http.StatusOK)
	if body["is_favorite"] != true {
		t.Errorf("product is_favorite = %v", body["is_favorite"])
	}

	body = b.expect(http.MethodPost, "/cart/checkout", "", http.StatusOK)
	if body["message"] != "Proceeding to checkout!" {
		t.Errorf("message = %v", body["message"])
	}

	body = b.expect(http.MethodGet, "/cart", "", http.StatusOK)
	if items, _ := body["items"].([]any); len(items) != 0 {
		t.Errorf("cart after checkout = %v", items)
	}

	body = b.expect(http.MethodGet, "/auth/me", "", http.StatusOK)
	if name := body["navigation"].(map[string]any)["display_name"]; name != "Ada" {
		t.Errorf("display_name = %v, want Ada", name)
	}
}

func TestClientsAreIsolated(t *testing.T) {
	srv, _ := newServer(t)
	alice := &browser{t: t, srv: srv}
	bob := &browser{t: t, srv: srv}

	alice.expect(http.MethodPost, "/auth/signup",
		`{"name":"Alice","email":"alice@example.com","password":"secret1","confirm_password":"secret1"}`,
		http.StatusCreated)

	body := bob.expect(http.MethodGet, "/auth/me", "", http.StatusOK)
	if body["navigation"].(map[string]any)["logged_in"] != false {
		t.Error("bob sees alice's session")
	}

	// the user directory is shared, so bob can sign in as alice
	bob.expect(http.MethodPost, "/auth/signin", `{"email":"alice@example.com","password":"secret1"}`, http.StatusOK)
}

func TestReadingClientKeepsSessionThroughPurge(t *testing.T) {
	srv, kv := newServer(t)
	reader := &browser{t: t, srv: srv}
	idle := &browser{t: t, srv: srv}

	reader.expect(http.MethodPost, "/auth/signup",
		`{"name":"Reader","email":"reader@example.com","password":"secret1","confirm_password":"secret1"}`,
		http.StatusCreated)
	idle.expect(http.MethodPost, "/auth/signup",
		`{"name":"Idle","email":"idle@example.com","password":"secret1","confirm_password":"secret1"}`,
		http.StatusCreated)
	cutoff := time.Now()
	time.Sleep(time.Millisecond)

	// reads only, no writes after the cutoff
	reader.expect(http.MethodGet, "/products", "", http.StatusOK)
	reader.expect(http.MethodGet, "/cart", "", http.StatusOK)

	purged, err := kv.PurgeIdle(context.Background(), cutoff.Add(time.Nanosecond))
	if err != nil {
		t.Fatal(err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want only the idle client", purged)
	}

	body := reader.expect(http.MethodGet, "/auth/me", "", http.StatusOK)
	if body["navigation"].(map[string]any)["logged_in"] != true {
		t.Error("reading client lost its session")
	}
	body = idle.expect(http.MethodGet, "/auth/me", "", http.StatusOK)
	if body["navigation"].(map[string]any)["logged_in"] != false {
		t.Error("idle client kept its session")
	}
}

func TestPointerFlow(t *testing.T) {
	srv, _ := newServer(t)
	b := &browser{t: t, srv: srv}

	b.expect(http.MethodPost, "/auth/signup",
		`{"name":"Grace Hopper","email":"grace@example.com","password":"cobol60","confirm_password":"cobol60"}`,
		http.StatusCreated)

	body := b.expect(http.MethodPut, "/ui/layout", `{"elements":[
		{"id":"card-5","product_id":"5","bounds":{"x":0,"y":0,"width":200,"height":300}},
		{"id":"add-5","parent_id":"card-5","role":"add-to-cart","product_id":"5","bounds":{"x":10,"y":250,"width":180,"height":40},"z":1}
	]}`, http.StatusOK)
	icons := body["favorite_icons"].(map[string]any)
	if len(icons) != 1 || icons["5"] != false {
		t.Errorf("favorite_icons = %v, want {5:false}", icons)
	}

	body = b.expect(http.MethodPost, "/ui/pointer", `{"point":{"x":50,"y":260}}`, http.StatusOK)
	if body["cart_count"] != float64(1) {
		t.Errorf("cart_count = %v, want 1", body["cart_count"])
	}
	if s := body["action"].(map[string]any)["strategy"]; s != "bounds" {
		t.Errorf("strategy = %v, want bounds", s)
	}
}
