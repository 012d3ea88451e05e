package handlers

import (
	"errors"
	"net/http"

	"github.com/hugh/raid-finder/internal/api/forms"
	"github.com/hugh/raid-finder/internal/api/middleware"
	"github.com/hugh/raid-finder/internal/auth"
	"github.com/hugh/raid-finder/internal/store"
)

const (
	msgRegistered    = "You have successfully registered!"
	msgLoggedIn      = "Login successful."
	msgBadLogin      = "Invalid email or password."
	msgInactive      = "This account has been deactivated."
	msgEmailTaken    = "This email is already registered."
	msgUsernameTaken = "This username is already in use."
	msgAccountTaken  = "This email or username is already in use."
)

type AuthHandler struct {
	*View
	authService *auth.Service
	sessions    *auth.Sessions
}

func NewAuthHandler(view *View, authService *auth.Service, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{View: view, authService: authService, sessions: sessions}
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, "register.html", map[string]interface{}{
		"Title": "Register",
		"Form":  forms.RegisterForm{},
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	form := forms.ParseRegister(r.PostForm)
	reg, err := form.Validate()
	if errs, ok := formErrors(err); ok {
		h.Render(w, r, http.StatusUnprocessableEntity, "register.html", map[string]interface{}{
			"Title":  "Register",
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	_, err = h.authService.Register(r.Context(), auth.RegisterInput{
		Username: reg.Username,
		Email:    reg.Email,
		Password: reg.Password,
	})
	var conflict *store.ConflictError
	if errors.As(err, &conflict) {
		h.Flash(w, r, auth.FlashDanger, conflictMessage(conflict))
		h.Redirect(w, r, "/register")
		return
	}
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashSuccess, msgRegistered)
	h.Redirect(w, r, "/login")
}

// conflictMessage names the taken field. A race lost at insert time cannot
// tell which one it was.
func conflictMessage(err *store.ConflictError) string {
	switch err.Field {
	case "email":
		return msgEmailTaken
	case "username":
		return msgUsernameTaken
	default:
		return msgAccountTaken
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if middleware.CurrentUser(r.Context()) != nil {
		http.Redirect(w, r, middleware.SafeNext(next), http.StatusFound)
		return
	}
	h.renderLogin(w, r, http.StatusOK, forms.LoginForm{}, nil, "")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	form := forms.ParseLogin(r.PostForm)
	creds, err := form.Validate()
	if errs, ok := formErrors(err); ok {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form, errs, "")
		return
	}

	user, err := h.authService.Authenticate(r.Context(), creds.Email, creds.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.renderLogin(w, r, http.StatusUnauthorized, form, nil, msgBadLogin)
		return
	case errors.Is(err, auth.ErrInactiveUser):
		h.renderLogin(w, r, http.StatusForbidden, form, nil, msgInactive)
		return
	case err != nil:
		h.ServerError(w, r, err)
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		h.ServerError(w, r, err)
		return
	}
	h.Flash(w, r, auth.FlashSuccess, msgLoggedIn)
	h.Redirect(w, r, middleware.SafeNext(r.URL.Query().Get("next")))
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, form forms.LoginForm, errs forms.Errors, notice string) {
	if errs == nil {
		errs = forms.Errors{}
	}
	// The password is never echoed back.
	form.Password = ""

	next := r.URL.Query().Get("next")
	if middleware.SafeNext(next) != next {
		next = ""
	}

	h.Render(w, r, status, "login.html", map[string]interface{}{
		"Title":  "Log In",
		"Form":   form,
		"Errors": errs,
		"Notice": notice,
		"Next":   next,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		h.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, middleware.DefaultLanding, http.StatusFound)
}
