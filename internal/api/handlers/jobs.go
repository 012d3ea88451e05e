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

type JobHandler struct {
	*View
	store *store.Store
}

func NewJobHandler(view *View, st *store.Store) *JobHandler {
	return &JobHandler{View: view, store: st}
}

// load returns a job reachable through one of the user's characters.
func (h *JobHandler) load(r *http.Request) (*models.Job, error) {
	id, err := idParam(r, "id")
	if err != nil {
		return nil, err
	}
	owns, err := h.store.UserOwnsJob(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, errNotOwner
	}
	return h.store.GetJob(r.Context(), id)
}

func (h *JobHandler) character(r *http.Request) (*models.Character, error) {
	id, err := idParam(r, "id")
	if err != nil {
		return nil, err
	}
	return ownedCharacter(r.Context(), h.store, middleware.GetUserID(r.Context()), id)
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.store.ListJobsForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.ServerError(w, r, err)
		return
	}
	h.Render(w, r, http.StatusOK, "jobs.html", map[string]interface{}{
		"Title": "My jobs",
		"Jobs":  jobs,
	})
}

func (h *JobHandler) Show(w http.ResponseWriter, r *http.Request) {
	job, err := h.load(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.Render(w, r, http.StatusOK, "job.html", map[string]interface{}{
		"Title": job.Job,
		"Job":   job,
	})
}

// NewPage shows the form for adding a job to a character.
func (h *JobHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	char, err := h.character(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.renderNew(w, r, http.StatusOK, char, forms.JobForm{}, nil)
}

// Create adds a job and links it to the character in one transaction.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	char, err := h.character(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	if !h.parseForm(w, r) {
		return
	}

	form := forms.ParseJob(r.PostForm)
	job, err := form.Validate()
	if errs, ok := formErrors(err); ok {
		h.renderNew(w, r, http.StatusUnprocessableEntity, char, form, errs)
		return
	}

	ctx := r.Context()
	err = h.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.CreateJob(ctx, &job); err != nil {
			return err
		}
		_, err := tx.LinkCharacterJob(ctx, char.ID, job.ID)
		return err
	})
	if err != nil {
		h.ServerError(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashSuccess, job.Job+" added to "+char.Name+".")
	h.Redirect(w, r, "/characters/"+char.ID.String())
}

// Unlink detaches a job from a character. Jobs still seated on a roster
// stay linked.
func (h *JobHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	char, err := h.character(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	jobID, err := idParam(r, "jobID")
	if err != nil {
		h.Error(w, r, err)
		return
	}

	err = h.store.Transaction(r.Context(), func(tx *store.Store) error {
		return tx.UnlinkCharacterJob(r.Context(), char.ID, jobID)
	})
	var refErr *store.ReferenceError
	switch {
	case errors.As(err, &refErr):
		h.Flash(w, r, auth.FlashDanger, "This job is signed up for an event and cannot be removed.")
	case err != nil:
		h.Error(w, r, err)
		return
	default:
		h.Flash(w, r, auth.FlashInfo, "Job removed.")
	}
	h.Redirect(w, r, "/characters/"+char.ID.String())
}

func (h *JobHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	job, err := h.load(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	h.renderEdit(w, r, http.StatusOK, job, forms.JobFormFrom(job), nil)
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	job, err := h.load(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	if !h.parseForm(w, r) {
		return
	}

	form := forms.ParseJob(r.PostForm)
	changes, err := form.Validate()
	if errs, ok := formErrors(err); ok {
		h.renderEdit(w, r, http.StatusUnprocessableEntity, job, form, errs)
		return
	}

	changes.ID = job.ID
	err = h.store.Transaction(r.Context(), func(tx *store.Store) error {
		return tx.UpdateJob(r.Context(), &changes)
	})
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashSuccess, "Job updated.")
	h.Redirect(w, r, "/jobs/"+job.ID.String())
}

func (h *JobHandler) Retire(w http.ResponseWriter, r *http.Request) {
	job, err := h.load(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}
	err = h.store.Transaction(r.Context(), func(tx *store.Store) error {
		return tx.SetJobStatus(r.Context(), job.ID, models.StatusInactive)
	})
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.Flash(w, r, auth.FlashInfo, job.Job+" has been retired.")
	h.Redirect(w, r, "/jobs")
}

func (h *JobHandler) renderNew(w http.ResponseWriter, r *http.Request, status int, char *models.Character, form forms.JobForm, errs forms.Errors) {
	data := map[string]interface{}{
		"Title":     "New job",
		"Action":    "/characters/" + char.ID.String() + "/jobs/new",
		"Character": char,
		"Form":      form,
	}
	if errs != nil {
		data["Errors"] = errs
	}
	h.Render(w, r, status, "job_form.html", data)
}

func (h *JobHandler) renderEdit(w http.ResponseWriter, r *http.Request, status int, job *models.Job, form forms.JobForm, errs forms.Errors) {
	data := map[string]interface{}{
		"Title":  "Edit " + job.Job,
		"Action": "/jobs/" + job.ID.String() + "/edit",
		"Job":    job,
		"Form":   form,
	}
	if errs != nil {
		data["Errors"] = errs
	}
	h.Render(w, r, status, "job_form.html", data)
}
