// SPDX-License-Identifier: MIT

package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aircheck-dev/aircheck/internal/metrics"
	"github.com/aircheck-dev/aircheck/internal/store"
	"github.com/aircheck-dev/aircheck/internal/validate"
)

type showsIndexData struct {
	baseData
	Keys    []string
	Shows   store.Shows
	Unknown map[string]bool
}

type showFormData struct {
	baseData
	Editing    bool
	OrigKey    string
	Key        string
	Show       store.Show
	StationIDs []string
	Errors     []string
}

func (s *Server) handleShowsIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shows, err := s.store.LoadShows(ctx)
	if err != nil {
		s.renderStoreError(w, r, "Could not read the shows file.", err)
		return
	}
	stations, err := s.store.LoadStations(ctx)
	if err != nil {
		s.renderStoreError(w, r, "Could not read the stations file.", err)
		return
	}

	data := showsIndexData{
		baseData: s.newBase(w, r, "Shows"),
		Keys:     shows.SortedKeys(),
		Shows:    shows,
		Unknown:  shows.UnknownStations(stations),
	}
	s.render(w, r, http.StatusOK, "shows_index.html", data)
}

func (s *Server) handleShowNew(w http.ResponseWriter, r *http.Request) {
	stations, err := s.store.LoadStations(r.Context())
	if err != nil {
		s.renderStoreError(w, r, "Could not read the stations file.", err)
		return
	}

	data := showFormData{
		baseData:   s.newBase(w, r, "New Show"),
		StationIDs: stations.SortedIDs(),
	}
	s.render(w, r, http.StatusOK, "show_form.html", data)
}

func (s *Server) handleShowCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key, show := parseShowForm(r)

	errs := validateShowSubmission(key, show)
	if len(errs) == 0 {
		shows, err := s.store.LoadShows(ctx)
		if err != nil {
			s.renderStoreError(w, r, "Could not read the shows file.", err)
			return
		}

		if _, exists := shows[key]; exists {
			errs = append(errs, fmt.Sprintf("A show with key '%s' already exists.", key))
		} else {
			shows[key] = show
			if err := s.store.SaveShows(ctx, shows); err != nil {
				s.renderStoreError(w, r, "Could not save the shows file.", err)
				return
			}
			setFlash(w, "success", fmt.Sprintf("Show '%s' saved successfully.", key))
			http.Redirect(w, r, "/shows", http.StatusSeeOther)
			return
		}
	}

	s.rerenderShowForm(w, r, showFormData{
		baseData: s.newBase(w, r, "New Show"),
		Key:      key,
		Show:     show,
		Errors:   errs,
	})
}

func (s *Server) handleShowEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "key")

	shows, err := s.store.LoadShows(ctx)
	if err != nil {
		s.renderStoreError(w, r, "Could not read the shows file.", err)
		return
	}
	show, ok := shows[key]
	if !ok {
		setFlash(w, "error", fmt.Sprintf("Show '%s' was not found.", key))
		http.Redirect(w, r, "/shows", http.StatusSeeOther)
		return
	}

	stations, err := s.store.LoadStations(ctx)
	if err != nil {
		s.renderStoreError(w, r, "Could not read the stations file.", err)
		return
	}

	data := showFormData{
		baseData:   s.newBase(w, r, "Edit Show"),
		Editing:    true,
		OrigKey:    key,
		Key:        key,
		Show:       show,
		StationIDs: stations.SortedIDs(),
	}
	s.render(w, r, http.StatusOK, "show_form.html", data)
}

func (s *Server) handleShowUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	origKey := chi.URLParam(r, "key")
	newKey, show := parseShowForm(r)

	shows, err := s.store.LoadShows(ctx)
	if err != nil {
		s.renderStoreError(w, r, "Could not read the shows file.", err)
		return
	}
	if _, ok := shows[origKey]; !ok {
		setFlash(w, "error", fmt.Sprintf("Show '%s' was not found.", origKey))
		http.Redirect(w, r, "/shows", http.StatusSeeOther)
		return
	}

	errs := validateShowSubmission(newKey, show)
	if len(errs) == 0 && newKey != origKey {
		if _, exists := shows[newKey]; exists {
			errs = append(errs, fmt.Sprintf("A show with key '%s' already exists.", newKey))
		}
	}

	if len(errs) == 0 {
		delete(shows, origKey)
		shows[newKey] = show
		if err := s.store.SaveShows(ctx, shows); err != nil {
			s.renderStoreError(w, r, "Could not save the shows file.", err)
			return
		}
		setFlash(w, "success", fmt.Sprintf("Show '%s' saved successfully.", newKey))
		http.Redirect(w, r, "/shows", http.StatusSeeOther)
		return
	}

	s.rerenderShowForm(w, r, showFormData{
		baseData: s.newBase(w, r, "Edit Show"),
		Editing:  true,
		OrigKey:  origKey,
		Key:      newKey,
		Show:     show,
		Errors:   errs,
	})
}

func (s *Server) handleShowDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "key")

	shows, err := s.store.LoadShows(ctx)
	if err != nil {
		s.renderStoreError(w, r, "Could not read the shows file.", err)
		return
	}
	if _, ok := shows[key]; !ok {
		setFlash(w, "error", fmt.Sprintf("Show '%s' was not found.", key))
		http.Redirect(w, r, "/shows", http.StatusSeeOther)
		return
	}

	delete(shows, key)
	if err := s.store.SaveShows(ctx, shows); err != nil {
		s.renderStoreError(w, r, "Could not save the shows file.", err)
		return
	}

	setFlash(w, "success", fmt.Sprintf("Show '%s' deleted.", key))
	http.Redirect(w, r, "/shows", http.StatusSeeOther)
}

// rerenderShowForm answers a rejected submission: 422 with the submitted
// values echoed back. Nothing on disk has changed at this point.
func (s *Server) rerenderShowForm(w http.ResponseWriter, r *http.Request, data showFormData) {
	metrics.IncFormRejection("show")

	stations, err := s.store.LoadStations(r.Context())
	if err != nil {
		s.renderStoreError(w, r, "Could not read the stations file.", err)
		return
	}
	data.StationIDs = stations.SortedIDs()

	s.render(w, r, http.StatusUnprocessableEntity, "show_form.html", data)
}

// parseShowForm reads the submitted fields, trimmed. Field names follow
// the recorder host's vocabulary.
func parseShowForm(r *http.Request) (string, store.Show) {
	get := func(name string) string {
		return strings.TrimSpace(r.PostFormValue(name))
	}
	return get("show_key"), store.Show{
		Name:            get("show"),
		Station:         get("station"),
		ArtworkFile:     get("artwork_file"),
		RemoteDirectory: get("remote_directory"),
		Frequency:       get("frequency"),
		PlaylistDBSlug:  get("playlist_db_slug"),
	}
}

// validateShowSubmission collects every problem with a submission so the
// form can show them all at once.
func validateShowSubmission(key string, show store.Show) []string {
	var errs []string
	if key == "" {
		errs = append(errs, "A slug is required for the show.")
	}

	if err := show.Validate(); err != nil {
		var verr validate.ValidationError
		if errors.As(err, &verr) {
			for _, fieldErr := range verr.Errors() {
				errs = append(errs, fmt.Sprintf("Field '%s' is required.", fieldErr.Field))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}
	return errs
}
