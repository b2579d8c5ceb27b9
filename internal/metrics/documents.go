// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for document and form activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for the file dimension.
const (
	FileShows    = "shows"
	FileStations = "stations"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeMissing = "missing"
	OutcomeFailure = "failure"
)

var (
	documentLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aircheck_document_loads_total",
		Help: "Document load attempts by file and outcome",
	}, []string{"file", "outcome"}) // outcome=success|missing|failure

	documentSavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aircheck_document_saves_total",
		Help: "Document save attempts by file and outcome",
	}, []string{"file", "outcome"}) // outcome=success|failure

	formRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aircheck_form_rejections_total",
		Help: "Form submissions rejected by validation",
	}, []string{"form"}) // form=show|station

	externalChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aircheck_external_changes_total",
		Help: "Document changes detected on disk that were not made through the editor",
	}, []string{"file"})

	showsCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aircheck_shows",
		Help: "Number of scheduled shows in the last loaded document",
	})

	stationsCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aircheck_stations",
		Help: "Number of stations in the last loaded document",
	})
)

func RecordDocumentLoad(file, outcome string) {
	documentLoadsTotal.WithLabelValues(file, outcome).Inc()
}

func RecordDocumentSave(file, outcome string) {
	documentSavesTotal.WithLabelValues(file, outcome).Inc()
}

func IncFormRejection(form string) { formRejectionsTotal.WithLabelValues(form).Inc() }

func IncExternalChange(file string) { externalChangesTotal.WithLabelValues(file).Inc() }

func RecordShowCount(n int)    { showsCount.Set(float64(n)) }
func RecordStationCount(n int) { stationsCount.Set(float64(n)) }
