package api

import (
	"log/slog"
	"net/url"

	"github.com/dmitrymomot/mailcraft/internal/mailer"
	"github.com/dmitrymomot/mailcraft/pkg/apperr"
	"github.com/dmitrymomot/mailcraft/pkg/handler"
	"github.com/dmitrymomot/mailcraft/pkg/logger"
)

func (a *API) connectGoogle(ctx handler.Context, _ empty) handler.Response {
	if a.Mailer == nil {
		return handler.JSONError(mailerMissing())
	}
	u, err := a.Mailer.ConnectURL(ctx)
	if err != nil {
		return handler.JSONError(err)
	}
	return handler.Redirect(u)
}

type callbackRequest struct {
	Code  string `query:"code"`
	State string `query:"state"`
	Error string `query:"error"`
}

// googleCallback always redirects to the frontend settings page, carrying the
// new session id on success and error=oauth_failed otherwise.
func (a *API) googleCallback(ctx handler.Context, req callbackRequest) handler.Response {
	if a.Mailer == nil {
		return handler.Redirect(a.settingsURL(url.Values{"error": {"oauth_failed"}}))
	}
	if req.Error != "" {
		a.Log.WarnContext(ctx, "google consent denied", logger.Event("oauth_callback"), slog.String("reason", req.Error))
		return handler.Redirect(a.settingsURL(url.Values{"error": {"oauth_failed"}}))
	}

	sess, err := a.Mailer.Callback(ctx, req.Code, req.State)
	if err != nil {
		a.Log.WarnContext(ctx, "oauth callback failed", logger.Event("oauth_callback"), logger.Error(err))
		return handler.Redirect(a.settingsURL(url.Values{"error": {"oauth_failed"}}))
	}
	return handler.Redirect(a.settingsURL(url.Values{
		"connected":  {"true"},
		"session_id": {sess.ID},
	}))
}

func (a *API) settingsURL(q url.Values) string {
	return a.FrontendURL + "/settings?" + q.Encode()
}

type sessionRequest struct {
	SessionID string `path:"session_id" validate:"required"`
}

func (a *API) checkConnection(ctx handler.Context, req sessionRequest) handler.Response {
	if a.Mailer == nil {
		return handler.JSON(mailer.Status{})
	}
	st, err := a.Mailer.Status(ctx, req.SessionID)
	if err != nil {
		return handler.JSONError(err)
	}
	return handler.JSON(st)
}

func (a *API) disconnect(ctx handler.Context, req sessionRequest) handler.Response {
	if a.Mailer == nil {
		return handler.JSONError(mailerMissing())
	}
	if err := a.Mailer.Disconnect(ctx, req.SessionID); err != nil {
		return handler.JSONError(err)
	}
	return handler.JSON(map[string]string{"status": "disconnected"})
}

type sendEmailRequest struct {
	SessionID string `form:"session_id" json:"session_id" validate:"required"`
	To        string `form:"to" json:"to" validate:"required"`
	Subject   string `form:"subject" json:"subject" validate:"required"`
	HTMLBody  string `form:"html_body" json:"html_body" validate:"required"`
	Cc        string `form:"cc" json:"cc"`
}

func (a *API) sendEmail(ctx handler.Context, req sendEmailRequest) handler.Response {
	if a.Mailer == nil {
		return handler.JSONError(mailerMissing())
	}
	res, err := a.Mailer.Send(ctx, mailer.SendInput{
		SessionID: req.SessionID,
		To:        req.To,
		Cc:        req.Cc,
		Subject:   req.Subject,
		HTML:      req.HTMLBody,
	})
	if err != nil {
		return handler.JSONError(err)
	}
	return handler.JSON(res)
}

func mailerMissing() error {
	return apperr.Configuration("gmail_not_configured", "Gmail integration is not configured")
}
