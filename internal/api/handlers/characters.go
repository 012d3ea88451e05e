package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/hugh/raid-finder/internal/api/forms"
	"github.com/hugh/raid-finder/internal/api/middleware"
	"github.com/hugh/raid-finder/internal/auth"
	"github.com/hugh/raid-finder/internal/database/models"
	"github.com/hugh/raid-finder/internal/store"
)

type CharacterHandler struct {
	*View
	store *store.Store
}

func NewCharacterHandler(view *View, st *store.Store) *CharacterHandler {
	return &CharacterHandler{View: view, store: st}
}

// ownedCharacter loads a character linked to userID. Characters owned by
// someone else report errNotOwner.
func ownedCharacter(ctx context.Context, st *store.Store, userID, id uuid.UUID) (*models.Character, error) {
	owns, err := st.UserOwnsCharacter(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, errNotOwner
	}
	return st.GetCharacter(ctx, id)
}

func (h *CharacterHandler) load(r *http.Request) (*models.Character, error) {
	id, err := idParam(r, "id")
	if err != nil {
		return nil, err
	}
	return ownedCharacter(r.Context(), h.store, middleware.GetUserID(r.Context()), id)
}

func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	chars, err := h.store.ListCharactersForUser(r.Context(), middleware.GetUserID(r.Context()), true)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	h.Render(w, r, http.StatusOK, "characters.html", map[string]interface{}{
		"Title":      "My characters",
		"Characters": chars,
	})
}

func (h *CharacterHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, nil, forms.CharacterForm{}, nil)
}

func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	form := forms.ParseCharacter(r.PostForm)
	char, err := form.Validate()
	if errs, ok := formErrors(err); ok {
		h.renderForm(w, r, http.StatusUnprocessableEntity, nil, form, errs)
		return
	}

	ctx := r.Context()
	err = h.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.CreateCharacter(ctx, &char); err != nil {
			return err
		}
		_, err := tx.LinkUserCharacter(ctx, middleware.GetUserID(ctx), char.ID)
		return err
	})
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashSuccess, "Character created.")
	h.Redirect(w, r, "/characters/"+char.ID.String())
}

func (h *CharacterHandler) Show(w http.ResponseWriter, r *http.Request) {
	char, err := h.load(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	jobs, err := h.store.ListJobsForCharacter(r.Context(), char.ID, false)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.Render(w, r, http.StatusOK, "character.html", map[string]interface{}{
		"Title":     char.Name,
		"Character": char,
		"Jobs":      jobs,
	})
}

func (h *CharacterHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	char, err := h.load(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, char, forms.CharacterFormFrom(char), nil)
}

func (h *CharacterHandler) Update(w http.ResponseWriter, r *http.Request) {
	char, err := h.load(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	if !h.parseForm(w, r) {
		return
	}

	form := forms.ParseCharacter(r.PostForm)
	changes, err := form.Validate()
	if errs, ok := formErrors(err); ok {
		h.renderForm(w, r, http.StatusUnprocessableEntity, char, form, errs)
		return
	}

	changes.ID = char.ID
	err = h.store.Transaction(r.Context(), func(tx *store.Store) error {
		return tx.UpdateCharacter(r.Context(), &changes)
	})
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashSuccess, "Character updated.")
	h.Redirect(w, r, "/characters/"+char.ID.String())
}

func (h *CharacterHandler) Retire(w http.ResponseWriter, r *http.Request) {
	char, err := h.load(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	err = h.store.Transaction(r.Context(), func(tx *store.Store) error {
		return tx.SetCharacterStatus(r.Context(), char.ID, models.StatusInactive)
	})
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashInfo, char.Name+" has been retired.")
	h.Redirect(w, r, "/characters")
}

// Unlink removes the character from the user's profile. The character row
// itself is kept.
func (h *CharacterHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	char, err := h.load(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	err = h.store.Transaction(r.Context(), func(tx *store.Store) error {
		return tx.UnlinkUserCharacter(r.Context(), middleware.GetUserID(r.Context()), char.ID)
	})
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashInfo, char.Name+" was removed from your profile.")
	h.Redirect(w, r, "/characters")
}

func (h *CharacterHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, char *models.Character, form forms.CharacterForm, errs forms.Errors) {
	data := map[string]interface{}{
		"Title":  "New character",
		"Action": "/characters/new",
		"Form":   form,
	}
	if char != nil {
		data["Title"] = "Edit " + char.Name
		data["Action"] = "/characters/" + char.ID.String() + "/edit"
		data["Character"] = char
	}
	if errs != nil {
		data["Errors"] = errs
	}
	h.Render(w, r, status, "character_form.html", data)
}
