package handlers

import (
	"net/http"

	"github.com/hugh/raid-finder/internal/api/forms"
	"github.com/hugh/raid-finder/internal/api/middleware"
	"github.com/hugh/raid-finder/internal/auth"
	"github.com/hugh/raid-finder/internal/database/models"
	"github.com/hugh/raid-finder/internal/store"
)

type ProfileHandler struct {
	*View
	store *store.Store
}

func NewProfileHandler(view *View, st *store.Store) *ProfileHandler {
	return &ProfileHandler{View: view, store: st}
}

func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.CurrentUser(ctx)

	accounts, err := h.accounts(r)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	characters, err := h.store.ListCharactersForUser(ctx, user.ID, false)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	events, err := h.store.ListEventsByLeader(ctx, user.ID)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.Render(w, r, http.StatusOK, "profile.html", map[string]interface{}{
		"Title":      user.Username,
		"User":       user,
		"Accounts":   accounts,
		"Characters": characters,
		"Events":     events,
	})
}

func (h *ProfileHandler) AccountsPage(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts(r)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	h.Render(w, r, http.StatusOK, "accounts.html", map[string]interface{}{
		"Title": "Linked accounts",
		"Form":  forms.AccountsFormFrom(accounts),
	})
}

func (h *ProfileHandler) SaveAccounts(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	form := forms.ParseAccounts(r.PostForm)
	accounts, err := form.Validate()
	if errs, ok := formErrors(err); ok {
		h.Render(w, r, http.StatusUnprocessableEntity, "accounts.html", map[string]interface{}{
			"Title":  "Linked accounts",
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	accounts.UserID = middleware.GetUserID(r.Context())
	err = h.store.Transaction(r.Context(), func(tx *store.Store) error {
		return tx.SaveUserAccounts(r.Context(), &accounts)
	})
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashSuccess, "Your accounts have been updated.")
	h.Redirect(w, r, "/profile")
}

func (h *ProfileHandler) accounts(r *http.Request) (*models.UserAccounts, error) {
	return h.store.GetUserAccounts(r.Context(), middleware.GetUserID(r.Context()))
}
