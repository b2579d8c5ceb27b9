// SPDX-License-Identifier: MIT

package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aircheck-dev/aircheck/internal/log"
	"github.com/aircheck-dev/aircheck/internal/metrics"
	"github.com/aircheck-dev/aircheck/internal/store"
)

type stationsIndexData struct {
	baseData
	IDs      []string
	Stations store.Stations
}

type stationFormData struct {
	baseData
	Editing bool
	OrigID  string
	ID      string
	URL     string
	Errors  []string
}

func (s *Server) handleStationsIndex(w http.ResponseWriter, r *http.Request) {
	stations, err := s.store.LoadStations(r.Context())
	if err != nil {
		s.renderStoreError(w, r, "Could not read the stations file.", err)
		return
	}

	data := stationsIndexData{
		baseData: s.newBase(w, r, "Stations"),
		IDs:      stations.SortedIDs(),
		Stations: stations,
	}
	s.render(w, r, http.StatusOK, "stations_index.html", data)
}

func (s *Server) handleStationNew(w http.ResponseWriter, r *http.Request) {
	data := stationFormData{
		baseData: s.newBase(w, r, "New Station"),
	}
	s.render(w, r, http.StatusOK, "station_form.html", data)
}

func (s *Server) handleStationCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, streamURL := parseStationForm(r)

	var errs []string
	if id == "" || streamURL == "" {
		errs = append(errs, "Both station ID and stream URL are required.")
	}

	if len(errs) == 0 {
		stations, err := s.store.LoadStations(ctx)
		if err != nil {
			s.renderStoreError(w, r, "Could not read the stations file.", err)
			return
		}

		if _, exists := stations[id]; exists {
			errs = append(errs, fmt.Sprintf("Station '%s' already exists.", id))
		} else {
			stations[id] = streamURL
			if err := s.store.SaveStations(ctx, stations); err != nil {
				s.renderStoreError(w, r, "Could not save the stations file.", err)
				return
			}
			setFlash(w, "success", fmt.Sprintf("Station '%s' saved successfully.", id))
			http.Redirect(w, r, "/stations", http.StatusSeeOther)
			return
		}
	}

	metrics.IncFormRejection("station")
	s.render(w, r, http.StatusUnprocessableEntity, "station_form.html", stationFormData{
		baseData: s.newBase(w, r, "New Station"),
		ID:       id,
		URL:      streamURL,
		Errors:   errs,
	})
}

func (s *Server) handleStationEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	stations, err := s.store.LoadStations(r.Context())
	if err != nil {
		s.renderStoreError(w, r, "Could not read the stations file.", err)
		return
	}
	streamURL, ok := stations[id]
	if !ok {
		setFlash(w, "error", fmt.Sprintf("Station '%s' was not found.", id))
		http.Redirect(w, r, "/stations", http.StatusSeeOther)
		return
	}

	data := stationFormData{
		baseData: s.newBase(w, r, "Edit Station"),
		Editing:  true,
		OrigID:   id,
		ID:       id,
		URL:      streamURL,
	}
	s.render(w, r, http.StatusOK, "station_form.html", data)
}

func (s *Server) handleStationUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	origID := chi.URLParam(r, "id")
	newID, streamURL := parseStationForm(r)

	stations, err := s.store.LoadStations(ctx)
	if err != nil {
		s.renderStoreError(w, r, "Could not read the stations file.", err)
		return
	}
	if _, ok := stations[origID]; !ok {
		setFlash(w, "error", fmt.Sprintf("Station '%s' was not found.", origID))
		http.Redirect(w, r, "/stations", http.StatusSeeOther)
		return
	}

	var errs []string
	if newID == "" || streamURL == "" {
		errs = append(errs, "Both station ID and stream URL are required.")
	}
	renamed := newID != origID
	if len(errs) == 0 && renamed {
		if _, exists := stations[newID]; exists {
			errs = append(errs, fmt.Sprintf("Station '%s' already exists.", newID))
		}
	}

	if len(errs) == 0 {
		// Renames cascade: load the shows before writing anything so a
		// broken shows file aborts the whole operation.
		var shows store.Shows
		var retargeted int
		if renamed {
			shows, err = s.store.LoadShows(ctx)
			if err != nil {
				s.renderStoreError(w, r, "Could not read the shows file.", err)
				return
			}
			retargeted = shows.RetargetStation(origID, newID)
		}

		delete(stations, origID)
		stations[newID] = streamURL
		if err := s.store.SaveStations(ctx, stations); err != nil {
			s.renderStoreError(w, r, "Could not save the stations file.", err)
			return
		}

		if retargeted > 0 {
			if err := s.store.SaveShows(ctx, shows); err != nil {
				s.renderStoreError(w, r, "Could not update the shows file after the station rename.", err)
				return
			}
			log.WithComponentFromContext(ctx, "web").Info().
				Str("event", "station.renamed").
				Str("old_id", origID).
				Str("new_id", newID).
				Int("shows", retargeted).
				Msg("station renamed, referencing shows rewritten")
		}

		setFlash(w, "success", fmt.Sprintf("Station '%s' saved successfully.", newID))
		http.Redirect(w, r, "/stations", http.StatusSeeOther)
		return
	}

	metrics.IncFormRejection("station")
	s.render(w, r, http.StatusUnprocessableEntity, "station_form.html", stationFormData{
		baseData: s.newBase(w, r, "Edit Station"),
		Editing:  true,
		OrigID:   origID,
		ID:       newID,
		URL:      streamURL,
		Errors:   errs,
	})
}

func (s *Server) handleStationDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	stations, err := s.store.LoadStations(ctx)
	if err != nil {
		s.renderStoreError(w, r, "Could not read the stations file.", err)
		return
	}
	if _, ok := stations[id]; !ok {
		setFlash(w, "error", fmt.Sprintf("Station '%s' was not found.", id))
		http.Redirect(w, r, "/stations", http.StatusSeeOther)
		return
	}

	// Shows keep their reference; the list view marks it as unknown.
	delete(stations, id)
	if err := s.store.SaveStations(ctx, stations); err != nil {
		s.renderStoreError(w, r, "Could not save the stations file.", err)
		return
	}

	setFlash(w, "success", fmt.Sprintf("Station '%s' deleted.", id))
	http.Redirect(w, r, "/stations", http.StatusSeeOther)
}

func parseStationForm(r *http.Request) (string, string) {
	return strings.TrimSpace(r.PostFormValue("station_id")),
		strings.TrimSpace(r.PostFormValue("stream_url"))
}
