package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
	"github.com/ErlanBelekov/voltforge-storefront/internal/email"
	"github.com/ErlanBelekov/voltforge-storefront/internal/metrics"
	"github.com/ErlanBelekov/voltforge-storefront/internal/store"
)

const (
	signUpRedirectDelay = 1500 * time.Millisecond
	signInRedirectDelay = 1000 * time.Millisecond
)

type SessionUsecase struct {
	store       *store.Store
	email       email.Sender
	logger      *slog.Logger
	signinPage  string
	landingPage string
	now         func() time.Time
}

func NewSessionUsecase(s *store.Store, emailSender email.Sender, logger *slog.Logger, signinPage, landingPage string) *SessionUsecase {
	return &SessionUsecase{
		store:       s,
		email:       emailSender,
		logger:      logger.With("component", "session"),
		signinPage:  signinPage,
		landingPage: landingPage,
		now:         time.Now,
	}
}

type SignUpInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthResult tells the renderer where to go once Message has been shown for
// RedirectAfter.
type AuthResult struct {
	User          *domain.User
	Message       string
	Redirect      string
	RedirectAfter time.Duration
}

func (u *SessionUsecase) SignUp(ctx context.Context, v domain.Visitor, in SignUpInput) (*AuthResult, error) {
	if in.Password != in.ConfirmPassword {
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "mismatch").Inc()
		return nil, domain.ErrPasswordMismatch
	}
	if utf8.RuneCountInString(in.Password) < domain.MinPasswordLength {
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "too_short").Inc()
		return nil, domain.ErrPasswordTooShort
	}

	shared := u.store.Shared()
	var users []domain.User
	if _, err := shared.Get(ctx, store.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, existing := range users {
		if existing.Email == in.Email {
			metrics.AuthAttemptsTotal.WithLabelValues("signup", "email_taken").Inc()
			return nil, domain.ErrEmailTaken
		}
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  in.Password,
		CreatedAt: u.now().UTC(),
	}
	users = append(users, user)
	if err := shared.Set(ctx, store.KeyUsers, users); err != nil {
		return nil, fmt.Errorf("save users: %w", err)
	}

	redirect, err := u.establish(ctx, v, &user)
	if err != nil {
		return nil, err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("signup", "ok").Inc()

	u.sendWelcome(ctx, &user)

	return &AuthResult{
		User:          &user,
		Message:       "Account created successfully! Redirecting...",
		Redirect:      redirect,
		RedirectAfter: signUpRedirectDelay,
	}, nil
}

func (u *SessionUsecase) SignIn(ctx context.Context, v domain.Visitor, emailAddr, password string) (*AuthResult, error) {
	var users []domain.User
	if _, err := u.store.Shared().Get(ctx, store.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	var match *domain.User
	for i := range users {
		if users[i].Email == emailAddr && users[i].Password == password {
			match = &users[i]
			break
		}
	}
	if match == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signin", "invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	redirect, err := u.establish(ctx, v, match)
	if err != nil {
		return nil, err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("signin", "ok").Inc()

	return &AuthResult{
		User:          match,
		Message:       "Login successful! Redirecting...",
		Redirect:      redirect,
		RedirectAfter: signInRedirectDelay,
	}, nil
}

// establish stores the session and consumes the pending return URL.
func (u *SessionUsecase) establish(ctx context.Context, v domain.Visitor, user *domain.User) (string, error) {
	client := u.store.Client(v.ClientID)
	if err := client.Set(ctx, store.KeyCurrentUser, user); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	returnURL, _, err := client.GetRaw(ctx, store.KeyReturnURL)
	if err != nil {
		return "", fmt.Errorf("load return url: %w", err)
	}
	if err := client.Remove(ctx, store.KeyReturnURL); err != nil {
		return "", fmt.Errorf("clear return url: %w", err)
	}

	if returnURL != "" && returnURL != v.CurrentURL {
		return returnURL, nil
	}
	return u.landingPage, nil
}

func (u *SessionUsecase) sendWelcome(ctx context.Context, user *domain.User) {
	subject, body := email.Welcome(firstName(user.Name))
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		u.logger.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "error", err)
	}
}

// SignOut clears the session and returns the landing page.
func (u *SessionUsecase) SignOut(ctx context.Context, clientID string) (string, error) {
	if err := u.store.Client(clientID).Remove(ctx, store.KeyCurrentUser); err != nil {
		return "", fmt.Errorf("clear session: %w", err)
	}
	return u.landingPage, nil
}

func (u *SessionUsecase) CurrentUser(ctx context.Context, clientID string) (*domain.User, error) {
	var user *domain.User
	if _, err := u.store.Client(clientID).Get(ctx, store.KeyCurrentUser, &user); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return user, nil
}

// RequireLogin runs action only when the visitor has a session. Otherwise it
// remembers the visitor's page and returns a *domain.LoginRequiredError
// pointing at the sign-in page.
func (u *SessionUsecase) RequireLogin(ctx context.Context, v domain.Visitor, action func(user *domain.User) error) error {
	user, err := u.CurrentUser(ctx, v.ClientID)
	if err != nil {
		return err
	}
	if user == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("gate", "redirect").Inc()
		if err := u.store.Client(v.ClientID).SetRaw(ctx, store.KeyReturnURL, v.CurrentURL); err != nil {
			return fmt.Errorf("save return url: %w", err)
		}
		return &domain.LoginRequiredError{Redirect: u.signinPage}
	}
	if action == nil {
		return nil
	}
	return action(user)
}

func (u *SessionUsecase) Navigation(ctx context.Context, clientID string) (domain.Navigation, error) {
	user, err := u.CurrentUser(ctx, clientID)
	if err != nil {
		return domain.Navigation{}, err
	}
	if user == nil {
		return domain.Navigation{LoginText: "Login", LoginHref: u.signinPage}, nil
	}
	return domain.Navigation{
		LoggedIn:    true,
		DisplayName: firstName(user.Name),
		LoginText:   "Logout",
		LoginHref:   "#",
	}, nil
}

func firstName(name string) string {
	first, _, _ := strings.Cut(name, " ")
	return first
}
