package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	consoleNavigations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "unihealth",
		Subsystem: "console",
		Name:      "navigations_total",
		Help:      "Category navigation requests broken down by outcome.",
	}, []string{"outcome"})

	affiliationDialogSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "unihealth",
		Subsystem: "affiliation_dialog",
		Name:      "saves_total",
		Help:      "Affiliation dialog save attempts broken down by mode and result.",
	}, []string{"mode", "result"})
)

// RecordNavigation counts a console navigation by its outcome
func RecordNavigation(outcome string) {
	consoleNavigations.WithLabelValues(outcome).Inc()
}

// RecordDialogSave counts an affiliation dialog save attempt
func RecordDialogSave(mode string, result string) {
	affiliationDialogSaves.WithLabelValues(mode, result).Inc()
}
