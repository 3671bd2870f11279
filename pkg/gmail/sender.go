package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Sender posts raw messages to users.messages.send as the token's owner.
type Sender struct {
	endpoint   string
	httpClient *http.Client
}

type Option func(*Sender)

// WithEndpoint points the client at a different API root, mainly for tests.
func WithEndpoint(endpoint string) Option {
	return func(s *Sender) { s.endpoint = endpoint }
}

// WithHTTPClient sets the transport the OAuth client is layered on.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Sender) {
		if client != nil {
			s.httpClient = client
		}
	}
}

func NewSender(opts ...Option) *Sender {
	s := &Sender{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send delivers raw and returns the Gmail message id. A 401 or 403 from
// Gmail is reported as ErrUnauthorized.
func (s *Sender) Send(ctx context.Context, ts oauth2.TokenSource, raw []byte) (string, error) {
	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, s.httpClient), ts)

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if s.endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.endpoint))
	}

	svc, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return "", errors.Join(ErrSendFailed, err)
	}

	sent, err := svc.Users.Messages.Send("me", &gmailapi.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden) {
			return "", errors.Join(ErrUnauthorized, err)
		}
		return "", errors.Join(ErrSendFailed, err)
	}

	return sent.Id, nil
}
