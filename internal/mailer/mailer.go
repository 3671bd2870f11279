package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/mailcraft/pkg/apperr"
	"github.com/dmitrymomot/mailcraft/pkg/async"
	"github.com/dmitrymomot/mailcraft/pkg/auth"
	"github.com/dmitrymomot/mailcraft/pkg/gmail"
	"github.com/dmitrymomot/mailcraft/pkg/logger"
	"github.com/dmitrymomot/mailcraft/pkg/metrics"
	"github.com/dmitrymomot/mailcraft/pkg/session"
)

// Provider runs the Google OAuth flow. *auth.GoogleProvider satisfies it.
type Provider interface {
	AuthURL(ctx context.Context) (string, error)
	Exchange(ctx context.Context, code, state string) (*auth.Identity, error)
	AccessToken(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// Sessions stores Gmail connections. *session.Manager satisfies it.
type Sessions interface {
	Create(ctx context.Context, email, refreshToken string) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) (bool, error)
	RefreshToken(s *session.Session) (string, error)
}

// Transport delivers a raw RFC 5322 message. *gmail.Sender satisfies it.
type Transport interface {
	Send(ctx context.Context, ts oauth2.TokenSource, raw []byte) (string, error)
}

// Archiver keeps a copy of sent email. *templates.AutoSaver satisfies it.
type Archiver interface {
	Save(ctx context.Context, subject, html, sender string) error
}

// Service owns the Gmail connection life-cycle.
type Service struct {
	provider  Provider
	sessions  Sessions
	transport Transport
	archiver  Archiver
	runner    *async.Runner
	metrics   *metrics.Metrics
	log       *slog.Logger
}

type Option func(*Service)

// WithProvider enables the OAuth routes. Without it they fail with a
// configuration error.
func WithProvider(p Provider) Option {
	return func(s *Service) { s.provider = p }
}

func WithTransport(t Transport) Option {
	return func(s *Service) {
		if t != nil {
			s.transport = t
		}
	}
}

// WithArchiver stores every sent email through a. Archiving needs a runner.
func WithArchiver(a Archiver, runner *async.Runner) Option {
	return func(s *Service) {
		s.archiver = a
		s.runner = runner
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Service over sessions.
func New(sessions Sessions, opts ...Option) *Service {
	s := &Service{
		sessions:  sessions,
		transport: gmail.NewSender(),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("mailer"))
	return s
}

// ConnectURL returns the Google consent URL.
func (s *Service) ConnectURL(ctx context.Context) (string, error) {
	if s.provider == nil {
		return "", oauthNotConfigured()
	}
	u, err := s.provider.AuthURL(ctx)
	if err != nil {
		return "", apperr.Internal(err, "oauth_start_failed", "Failed to start Google sign-in")
	}
	return u, nil
}

// Callback completes the OAuth flow and opens a session for the account.
func (s *Service) Callback(ctx context.Context, code, state string) (*session.Session, error) {
	if s.provider == nil {
		return nil, oauthNotConfigured()
	}

	id, err := s.provider.Exchange(ctx, code, state)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidState), errors.Is(err, auth.ErrInvalidCode):
			return nil, apperr.Wrap(err, apperr.KindUnauthorized, "oauth_failed", "Google sign-in failed")
		case errors.Is(err, auth.ErrNoEmail):
			return nil, apperr.Wrap(err, apperr.KindValidation, "no_email", "Could not retrieve user email from Google")
		default:
			return nil, apperr.Provider(err, "oauth_failed", "Google sign-in failed")
		}
	}

	sess, err := s.sessions.Create(ctx, id.Email, id.RefreshToken)
	if err != nil {
		return nil, apperr.Internal(err, "session_create_failed", "Failed to create session")
	}
	return sess, nil
}

// Status reports a session's connection.
type Status struct {
	IsConnected bool    `json:"is_connected"`
	Email       *string `json:"email"`
}

// Status never fails for unknown or expired sessions; they are reported as
// not connected.
func (s *Service) Status(ctx context.Context, id string) (*Status, error) {
	sess, err := s.sessions.Get(ctx, id)
	switch {
	case err == nil:
		email := sess.Email
		return &Status{IsConnected: true, Email: &email}, nil
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrSessionExpired):
		return &Status{}, nil
	default:
		return nil, apperr.Internal(err, "session_lookup_failed", "Failed to check connection")
	}
}

// Disconnect deletes a session. Unknown ids are not found.
func (s *Service) Disconnect(ctx context.Context, id string) error {
	deleted, err := s.sessions.Delete(ctx, id)
	if err != nil {
		return apperr.Internal(err, "session_delete_failed", "Failed to disconnect")
	}
	if !deleted {
		return sessionNotFound()
	}
	return nil
}

// SendInput is one outgoing email. Cc is a comma separated list.
type SendInput struct {
	SessionID string
	To        string
	Cc        string
	Subject   string
	HTML      string
}

// SendResult confirms a delivered email.
type SendResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	From      string `json:"from"`
	MessageID string `json:"message_id,omitempty"`
}

// Send delivers in.HTML from the session's Gmail account.
func (s *Service) Send(ctx context.Context, in SendInput) (res *SendResult, err error) {
	defer func() { s.metrics.ObserveEmailSent(err) }()

	sess, err := s.sessions.Get(ctx, strings.TrimSpace(in.SessionID))
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrSessionExpired) {
			return nil, invalidSession()
		}
		return nil, apperr.Internal(err, "session_lookup_failed", "Failed to load session")
	}
	if !sess.HasToken() {
		return nil, missingToken()
	}
	if s.provider == nil {
		return nil, oauthNotConfigured()
	}

	refresh, err := s.sessions.RefreshToken(sess)
	if err != nil {
		s.log.ErrorContext(ctx, "refresh token unreadable", logger.SessionID(sess.ID), logger.Error(err))
		return nil, apperr.Wrap(err, apperr.KindUnauthorized, "token_invalid",
			"Stored credentials are invalid. Please reconnect with Google.")
	}

	token, err := s.provider.AccessToken(ctx, refresh)
	if err != nil {
		s.log.WarnContext(ctx, "access token refresh failed", logger.SessionID(sess.ID), logger.Error(err))
		return nil, apperr.Wrap(err, apperr.KindUnauthorized, "token_refresh_failed",
			"Google rejected the stored credentials. Please reconnect with Google.")
	}

	raw, err := gmail.Build(gmail.Message{
		From:    sess.Email,
		To:      in.To,
		Cc:      in.Cc,
		Subject: in.Subject,
		HTML:    in.HTML,
	})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindValidation, "invalid_message", err.Error())
	}

	id, err := s.transport.Send(ctx, oauth2.StaticTokenSource(token), raw)
	if err != nil {
		s.log.ErrorContext(ctx, "gmail send failed", logger.SessionID(sess.ID), logger.Error(err))
		if errors.Is(err, gmail.ErrUnauthorized) {
			return nil, apperr.Wrap(err, apperr.KindUnauthorized, "gmail_unauthorized",
				"Gmail rejected the credentials. Please reconnect with Google.")
		}
		return nil, apperr.Provider(err, "send_failed", "Email sending failed")
	}

	s.log.InfoContext(ctx, "email sent", logger.SessionID(sess.ID), slog.String("message_id", id))
	s.archive(ctx, in.Subject, in.HTML, sess.Email)

	return &SendResult{
		Status:    "sent",
		Message:   fmt.Sprintf("Email sent successfully to %s", in.To),
		From:      sess.Email,
		MessageID: id,
	}, nil
}

func (s *Service) archive(ctx context.Context, subject, html, sender string) {
	if s.archiver == nil || s.runner == nil {
		return
	}
	s.runner.Go(ctx, "auto_save_template", func(ctx context.Context) error {
		return s.archiver.Save(ctx, subject, html, sender)
	})
}
