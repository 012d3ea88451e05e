package handlers

import (
	"net/http"

	"github.com/hugh/raid-finder/internal/api/forms"
	"github.com/hugh/raid-finder/internal/api/middleware"
	"github.com/hugh/raid-finder/internal/auth"
	"github.com/hugh/raid-finder/internal/database/models"
	"github.com/hugh/raid-finder/internal/store"
)

type EventHandler struct {
	*View
	store *store.Store
}

func NewEventHandler(view *View, st *store.Store) *EventHandler {
	return &EventHandler{View: view, store: st}
}

func (h *EventHandler) load(r *http.Request) (*models.Event, error) {
	id, err := idParam(r, "id")
	if err != nil {
		return nil, err
	}
	return h.store.GetEvent(r.Context(), id)
}

// loadLed returns the event only when the current user leads it.
func (h *EventHandler) loadLed(r *http.Request) (*models.Event, error) {
	event, err := h.load(r)
	if err != nil {
		return nil, err
	}
	if event.LeaderID != middleware.GetUserID(r.Context()) {
		return nil, errNotLeader
	}
	return event, nil
}

// Index is the landing page.
func (h *EventHandler) Index(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ListEvents(r.Context(), models.EventStatusOpen)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	h.Render(w, r, http.StatusOK, "index.html", map[string]interface{}{
		"Events": events,
	})
}

// List shows every event. An unknown status filter is ignored.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	status := models.EventStatus(r.URL.Query().Get("status"))
	if !status.Valid() {
		status = ""
	}

	events, err := h.store.ListEvents(r.Context(), status)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	h.Render(w, r, http.StatusOK, "events.html", map[string]interface{}{
		"Title":  "Events",
		"Events": events,
		"Status": status,
	})
}

func (h *EventHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	form := forms.EventForm{
		StartTimezone: "UTC",
		EventStatus:   string(models.EventStatusOpen),
	}
	h.renderForm(w, r, http.StatusOK, nil, form, nil)
}

// Create schedules an event led by the current user.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	form := forms.ParseEvent(r.PostForm)
	event, err := form.Validate()
	if errs, ok := formErrors(err); ok {
		h.renderForm(w, r, http.StatusUnprocessableEntity, nil, form, errs)
		return
	}

	event.LeaderID = middleware.GetUserID(r.Context())
	err = h.store.Transaction(r.Context(), func(tx *store.Store) error {
		return tx.CreateEvent(r.Context(), &event)
	})
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashSuccess, "Event created.")
	h.Redirect(w, r, "/events/"+event.ID.String())
}

func (h *EventHandler) Show(w http.ResponseWriter, r *http.Request) {
	event, err := h.load(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.renderEvent(w, r, http.StatusOK, event, forms.RosterForm{}, nil)
}

func (h *EventHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	event, err := h.loadLed(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, event, forms.EventFormFrom(event), nil)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	event, err := h.loadLed(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	if !h.parseForm(w, r) {
		return
	}

	form := forms.ParseEvent(r.PostForm)
	changes, err := form.Validate()
	if errs, ok := formErrors(err); ok {
		h.renderForm(w, r, http.StatusUnprocessableEntity, event, form, errs)
		return
	}

	changes.ID = event.ID
	err = h.store.Transaction(r.Context(), func(tx *store.Store) error {
		return tx.UpdateEvent(r.Context(), &changes)
	})
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashSuccess, "Event updated.")
	h.Redirect(w, r, "/events/"+event.ID.String())
}

func (h *EventHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	event, err := h.loadLed(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	err = h.store.Transaction(r.Context(), func(tx *store.Store) error {
		return tx.SetEventStatus(r.Context(), event.ID, models.EventStatusCancelled)
	})
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashInfo, "Event cancelled.")
	h.Redirect(w, r, "/events/"+event.ID.String())
}

// renderEvent shows the event with its roster and, when the user may still
// join, a join form over their active characters and jobs.
func (h *EventHandler) renderEvent(w http.ResponseWriter, r *http.Request, status int, event *models.Event, form forms.RosterForm, errs forms.Errors) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	roster, err := h.store.ListRoster(ctx, event.ID)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	seated := false
	for _, entry := range roster {
		if entry.UserID == userID {
			seated = true
			break
		}
	}

	chars, err := h.store.ListCharactersForUser(ctx, userID, false)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	links, err := h.store.ListJobsForUser(ctx, userID)
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	var options []models.CharacterJob
	for _, link := range links {
		if link.Job != nil && link.Job.Status == models.StatusActive &&
			link.Character != nil && link.Character.Status == models.StatusActive {
			options = append(options, link)
		}
	}

	data := map[string]interface{}{
		"Title":         "Event on " + event.FormatDate(),
		"Event":         event,
		"IsLeader":      event.LeaderID == userID,
		"Roster":        roster,
		"CurrentUserID": userID,
		"CanJoin":       event.IsOpen() && !seated,
		"Characters":    chars,
		"Options":       options,
		"Form":          form,
	}
	if errs != nil {
		data["Errors"] = errs
	}
	h.Render(w, r, status, "event.html", data)
}

func (h *EventHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, event *models.Event, form forms.EventForm, errs forms.Errors) {
	data := map[string]interface{}{
		"Title":  "New event",
		"Action": "/events/new",
		"Form":   form,
	}
	if event != nil {
		data["Title"] = "Edit event"
		data["Action"] = "/events/" + event.ID.String() + "/edit"
		data["Event"] = event
	}
	if errs != nil {
		data["Errors"] = errs
	}
	h.Render(w, r, status, "event_form.html", data)
}
