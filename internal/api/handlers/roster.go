package handlers

import (
	"errors"
	"net/http"

	"github.com/hugh/raid-finder/internal/api/forms"
	"github.com/hugh/raid-finder/internal/api/middleware"
	"github.com/hugh/raid-finder/internal/auth"
	"github.com/hugh/raid-finder/internal/database/models"
	"github.com/hugh/raid-finder/internal/store"
)

// Roster policy: any signed-in player may take one seat in an open event
// with their own character. The seat holder edits role and comments and may
// withdraw. The leader sets player status and may remove any seat. Every
// change records the acting user in updated_by.

// loadEntry returns an event and one of its roster entries.
func (h *EventHandler) loadEntry(r *http.Request) (*models.Event, *models.EventRoster, error) {
	event, err := h.load(r)
	if err != nil {
		return nil, nil, err
	}
	entryID, err := idParam(r, "entryID")
	if err != nil {
		return nil, nil, err
	}
	entry, err := h.store.GetRosterEntry(r.Context(), entryID)
	if err != nil {
		return nil, nil, err
	}
	if entry.EventID != event.ID {
		return nil, nil, store.ErrNotFound
	}
	return event, entry, nil
}

func (h *EventHandler) Join(w http.ResponseWriter, r *http.Request) {
	event, err := h.load(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	back := "/events/" + event.ID.String()
	if !event.IsOpen() {
		h.Flash(w, r, auth.FlashDanger, "This event is not accepting sign-ups.")
		h.Redirect(w, r, back)
		return
	}
	if !h.parseForm(w, r) {
		return
	}

	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	form := forms.ParseRoster(r.PostForm)
	entry, err := form.ValidateJoin()
	if errs, ok := formErrors(err); ok {
		h.renderEvent(w, r, http.StatusUnprocessableEntity, event, form, errs)
		return
	}

	owns, err := h.store.UserOwnsCharacter(ctx, userID, entry.CharacterID)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	if !owns {
		h.renderEvent(w, r, http.StatusUnprocessableEntity, event, form, forms.Errors{"character_id": forms.MsgID})
		return
	}

	if errs, err := h.retiredSelection(r, entry); err != nil {
		h.ServerError(w, r, err)
		return
	} else if errs != nil {
		h.renderEvent(w, r, http.StatusUnprocessableEntity, event, form, errs)
		return
	}

	entry.EventID = event.ID
	entry.UserID = userID
	entry.UpdatedBy = &userID
	err = h.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.CreateRosterEntry(ctx, &entry)
	})

	var conflict *store.ConflictError
	var refErr *store.ReferenceError
	switch {
	case errors.As(err, &conflict):
		h.Flash(w, r, auth.FlashDanger, "You are already on this roster.")
	case errors.As(err, &refErr):
		h.Flash(w, r, auth.FlashDanger, "That job does not belong to the selected character.")
	case err != nil:
		h.ServerError(w, r, err)
		return
	default:
		h.Flash(w, r, auth.FlashSuccess, "You have joined the roster.")
	}
	h.Redirect(w, r, back)
}

// retiredSelection flags a retired or missing character or job. Retired
// characters and jobs cannot take a seat.
func (h *EventHandler) retiredSelection(r *http.Request, entry models.EventRoster) (forms.Errors, error) {
	ctx := r.Context()

	char, err := h.store.GetCharacter(ctx, entry.CharacterID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return forms.Errors{"character_id": forms.MsgID}, nil
	case err != nil:
		return nil, err
	}
	if char.Status != models.StatusActive {
		return forms.Errors{"character_id": forms.MsgID}, nil
	}

	link, err := h.store.GetCharacterJob(ctx, entry.CharacterJobID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return forms.Errors{"character_job_id": forms.MsgID}, nil
	case err != nil:
		return nil, err
	}
	if link.Job == nil || link.Job.Status != models.StatusActive {
		return forms.Errors{"character_job_id": forms.MsgID}, nil
	}
	return nil, nil
}

func (h *EventHandler) EditEntryPage(w http.ResponseWriter, r *http.Request) {
	event, entry, err := h.loadEntry(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	if entry.UserID != middleware.GetUserID(r.Context()) {
		h.Forbidden(w, r)
		return
	}
	h.renderEntry(w, r, http.StatusOK, event, entry, forms.RosterFormFrom(entry), nil)
}

func (h *EventHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	event, entry, err := h.loadEntry(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	userID := middleware.GetUserID(r.Context())
	if entry.UserID != userID {
		h.Forbidden(w, r)
		return
	}
	if !h.parseForm(w, r) {
		return
	}

	form := forms.ParseRoster(r.PostForm)
	seat, err := form.ValidateEdit()
	if errs, ok := formErrors(err); ok {
		h.renderEntry(w, r, http.StatusUnprocessableEntity, event, entry, form, errs)
		return
	}

	entry.Role = seat.Role
	entry.SecondaryRole = seat.SecondaryRole
	entry.Comments = seat.Comments
	entry.UpdatedBy = &userID
	if err := h.saveEntry(r, entry); err != nil {
		h.Error(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashSuccess, "Your seat has been updated.")
	h.Redirect(w, r, "/events/"+event.ID.String())
}

// SetStatus lets the leader confirm or decline a player.
func (h *EventHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	event, entry, err := h.loadEntry(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	userID := middleware.GetUserID(r.Context())
	if event.LeaderID != userID {
		h.Forbidden(w, r)
		return
	}
	if !h.parseForm(w, r) {
		return
	}

	back := "/events/" + event.ID.String()
	status, err := forms.ParseRosterStatus(r.PostForm).Validate()
	if errs, ok := formErrors(err); ok {
		h.Flash(w, r, auth.FlashDanger, errs["player_status"])
		h.Redirect(w, r, back)
		return
	}

	entry.PlayerStatus = status
	entry.UpdatedBy = &userID
	if err := h.saveEntry(r, entry); err != nil {
		h.Error(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashSuccess, "Player status updated.")
	h.Redirect(w, r, back)
}

// Withdraw removes a seat. Allowed for the seat holder and the leader.
func (h *EventHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	event, entry, err := h.loadEntry(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	userID := middleware.GetUserID(r.Context())
	if entry.UserID != userID && event.LeaderID != userID {
		h.Forbidden(w, r)
		return
	}

	err = h.store.Transaction(r.Context(), func(tx *store.Store) error {
		return tx.DeleteRosterEntry(r.Context(), entry.ID)
	})
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashInfo, "The seat has been released.")
	h.Redirect(w, r, "/events/"+event.ID.String())
}

func (h *EventHandler) saveEntry(r *http.Request, entry *models.EventRoster) error {
	return h.store.Transaction(r.Context(), func(tx *store.Store) error {
		return tx.UpdateRosterEntry(r.Context(), entry)
	})
}

func (h *EventHandler) renderEntry(w http.ResponseWriter, r *http.Request, status int, event *models.Event, entry *models.EventRoster, form forms.RosterForm, errs forms.Errors) {
	data := map[string]interface{}{
		"Title": "Edit my seat",
		"Event": event,
		"Entry": entry,
		"Form":  form,
	}
	if errs != nil {
		data["Errors"] = errs
	}
	h.Render(w, r, status, "roster_form.html", data)
}
