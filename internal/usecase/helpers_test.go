package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/ErlanBelekov/voltforge-storefront/internal/catalog"
	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
	"github.com/ErlanBelekov/voltforge-storefront/internal/infrastructure/memory"
	"github.com/ErlanBelekov/voltforge-storefront/internal/store"
	"github.com/ErlanBelekov/voltforge-storefront/internal/usecase"
)

// ---- fakes ----

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.send == nil {
		return nil
	}
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

const (
	testSigninPage  = "signin.html"
	testLandingPage = "index.html"
	testShippingFee = 9.99
	testClientID    = "client-1"
	testProductURL  = "http://shop.test/product-details.html?id=1"
)

type fixture struct {
	store     *store.Store
	catalog   *usecase.CatalogUsecase
	session   *usecase.SessionUsecase
	cart      *usecase.CartUsecase
	favorites *usecase.FavoritesUsecase
	emails    *fakeEmailSender
}

func newFixture(t *testing.T, favoritesRequireLogin bool) *fixture {
	t.Helper()
	ctx := context.Background()

	st := store.New(memory.NewKV())
	cat := usecase.NewCatalogUsecase(st)
	if _, err := cat.Seed(ctx, catalog.Products()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := st.InitClient(ctx, testClientID); err != nil {
		t.Fatalf("init client: %v", err)
	}

	emails := &fakeEmailSender{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := usecase.NewSessionUsecase(st, emails, logger, testSigninPage, testLandingPage)

	return &fixture{
		store:     st,
		catalog:   cat,
		session:   session,
		cart:      usecase.NewCartUsecase(st, session, cat, testShippingFee),
		favorites: usecase.NewFavoritesUsecase(st, session, cat, favoritesRequireLogin),
		emails:    emails,
	}
}

func visitor(url string) domain.Visitor {
	return domain.Visitor{ClientID: testClientID, CurrentURL: url}
}

// login signs up a user on the test client.
func (f *fixture) login(t *testing.T) *domain.User {
	t.Helper()
	res, err := f.session.SignUp(context.Background(), visitor("http://shop.test/signup.html"), usecase.SignUpInput{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	return res.User
}

func (f *fixture) returnURL(t *testing.T) (string, bool) {
	t.Helper()
	v, found, err := f.store.Client(testClientID).GetRaw(context.Background(), store.KeyReturnURL)
	if err != nil {
		t.Fatalf("get return url: %v", err)
	}
	return v, found
}
