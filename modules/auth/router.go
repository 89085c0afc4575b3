// Package auth implements signup with email verification, login, and
// logout for volunteer and organisation accounts.
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/volunhub/volunhub/binder"
	"github.com/volunhub/volunhub/handler"
)

// RouterOptions configures HTTP wiring for the auth routes. All fields are
// optional.
type RouterOptions struct {
	// ErrorHandler receives bind and render failures. Defaults to the
	// handler package's bare error handler when nil.
	ErrorHandler handler.ErrorHandler[handler.Context]

	// SignupRateLimit throttles POST /signup and the resend route.
	SignupRateLimit func(http.Handler) http.Handler

	// LoginRateLimit throttles POST /login.
	LoginRateLimit func(http.Handler) http.Handler
}

// Handle returns the auth router. Mount it under /api/users.
func (s *Service) Handle(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	signup := handler.Wrap(s.handleSignup,
		handler.WithBinders[handler.Context, SignupRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, SignupRequest](opts.ErrorHandler),
	)
	verify := handler.Wrap(s.handleVerify,
		handler.WithBinders[handler.Context, VerifyRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, VerifyRequest](opts.ErrorHandler),
	)
	resend := handler.Wrap(s.handleResend,
		handler.WithBinders[handler.Context, VerifyRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, VerifyRequest](opts.ErrorHandler),
	)
	login := handler.Wrap(s.handleLogin,
		handler.WithBinders[handler.Context, LoginRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, LoginRequest](opts.ErrorHandler),
	)
	logout := handler.Wrap(s.handleLogout,
		handler.WithErrorHandler[handler.Context, struct{}](opts.ErrorHandler),
	)

	limited := func(mw func(http.Handler) http.Handler, h http.Handler) http.Handler {
		if mw == nil {
			return h
		}
		return mw(h)
	}

	r.Method(http.MethodPost, "/signup", limited(opts.SignupRateLimit, signup))
	r.Method(http.MethodPost, "/verify-signup", verify)
	// PUT on the same path requests a fresh code.
	r.Method(http.MethodPut, "/verify-signup", limited(opts.SignupRateLimit, resend))
	r.Method(http.MethodPost, "/login", limited(opts.LoginRateLimit, login))
	r.Method(http.MethodPost, "/logout", logout)

	return r
}
