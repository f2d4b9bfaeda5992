package http

import (
	"errors"
	"net/http"
	"time"

	"pennywise/internal/auth"
	"pennywise/internal/core"
	"pennywise/internal/log"
	"pennywise/internal/services"
	"pennywise/internal/store"
)

// errorStatus maps a service or auth error to a status and a message safe to
// show. Unknown errors are logged and hidden behind a generic message.
func errorStatus(r *http.Request, err error) (int, string) {
	switch {
	case services.IsValidation(err):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrPasswordTooLong),
		errors.Is(err, auth.ErrInvalidEmail):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, store.ErrUserExists):
		return http.StatusConflict, "An account with this email already exists"
	}
	log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
		log.FieldPath, r.URL.Path, log.FieldError, err)
	return http.StatusInternalServerError, "Something went wrong, please try again"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(r, err)
	ErrorResponse(status, msg).Write(w)
}

// currentUser resolves the session token on r, if any.
func (s *Server) currentUser(r *http.Request) (core.User, error) {
	return s.auth.CurrentUser(r.Context(), auth.TokenFromRequest(r))
}

// requireUser rejects unauthenticated API calls with a JSON 401.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := s.currentUser(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		ctx := auth.WithUser(r.Context(), u)
		ctx = log.WithLogger(ctx, log.FromContext(ctx).With(log.FieldUserID, u.ID))
		next(w, r.WithContext(ctx))
	}
}

func mustUser(r *http.Request) core.User {
	u, _ := auth.UserFromContext(r.Context())
	return u
}

func sessionCookie(r *http.Request, sess auth.Session) *http.Cookie {
	return &http.Cookie{
		Name:     auth.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
}

func clearedCookie(r *http.Request) *http.Cookie {
	return &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
}

// credentials reads email and password from a JSON or form body.
func credentials(r *http.Request) (email, password string, err error) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		return "", "", err
	}
	return p.Get("email"), p.GetRaw("password"), nil
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	email, password, err := credentials(r)
	if err != nil {
		BadRequestError("Invalid request body").Write(w)
		return
	}
	u, err := s.auth.SignUp(r.Context(), email, password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "User signed up", log.FieldUserID, u.ID)
	NewResponse().Status(http.StatusCreated).JSON(newUserView(u)).Write(w)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	email, password, err := credentials(r)
	if err != nil {
		BadRequestError("Invalid request body").Write(w)
		return
	}
	sess, err := s.auth.SignIn(r.Context(), email, password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Cookie(sessionCookie(r, sess)).JSON(newSessionView(sess)).Write(w)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.SignOut(r.Context(), auth.TokenFromRequest(r)); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusNoContent).Cookie(clearedCookie(r)).Write(w)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(newUserView(mustUser(r))).Write(w)
}
