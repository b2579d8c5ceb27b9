// SPDX-License-Identifier: MIT

package store

import (
	"sort"
	"strings"

	"github.com/aircheck-dev/aircheck/internal/validate"
)

// Show is one scheduled recording. Field names on the wire are fixed by the
// recorder host; struct fields are declared in key order so marshaling yields
// fully sorted documents.
type Show struct {
	ArtworkFile     string `json:"artwork-file"`
	Frequency       string `json:"frequency"`
	PlaylistDBSlug  string `json:"playlist-db-slug"`
	RemoteDirectory string `json:"remote-directory"`
	Name            string `json:"show"`
	Station         string `json:"station"`
}

// Shows is the shows document, keyed by show slug.
type Shows map[string]Show

// Stations is the stations document: station id to stream URL.
type Stations map[string]string

// Validate reports every empty field. Values are checked after trimming;
// the recorder host treats all six fields as mandatory.
func (s Show) Validate() error {
	v := validate.New()
	v.NotEmpty("show", s.Name)
	v.NotEmpty("station", s.Station)
	v.NotEmpty("artwork-file", s.ArtworkFile)
	v.NotEmpty("remote-directory", s.RemoteDirectory)
	v.NotEmpty("frequency", s.Frequency)
	v.NotEmpty("playlist-db-slug", s.PlaylistDBSlug)
	return v.Err()
}

// SortedKeys returns the show slugs in case-insensitive order.
func (s Shows) SortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sortFold(keys)
	return keys
}

// SortedIDs returns the station ids in case-insensitive order.
func (s Stations) SortedIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sortFold(ids)
	return ids
}

// UnknownStations returns the station ids referenced by shows but absent from
// the stations document. References are not enforced at save time; the UI uses
// this to mark dangling ones.
func (s Shows) UnknownStations(stations Stations) map[string]bool {
	unknown := make(map[string]bool)
	for _, show := range s {
		if show.Station == "" {
			continue
		}
		if _, ok := stations[show.Station]; !ok {
			unknown[show.Station] = true
		}
	}
	return unknown
}

// RetargetStation rewrites every show referencing oldID to newID and reports
// how many shows changed. Used when a station is renamed.
func (s Shows) RetargetStation(oldID, newID string) int {
	changed := 0
	for key, show := range s {
		if show.Station == oldID {
			show.Station = newID
			s[key] = show
			changed++
		}
	}
	return changed
}

// sortFold orders case-insensitively with a byte-order tie break so equal
// folded keys still sort deterministically.
func sortFold(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		li, lj := strings.ToLower(keys[i]), strings.ToLower(keys[j])
		if li == lj {
			return keys[i] < keys[j]
		}
		return li < lj
	})
}
