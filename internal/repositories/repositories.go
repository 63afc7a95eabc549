// Package repositories holds one repository per Mongo collection. Query
// durations and errors feed the shared Prometheus metrics; storage-level
// duplicate-key violations are remapped to the Conflict taxonomy here so
// services never see raw driver errors for uniqueness races.
package repositories

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"

	"unihub/internal/apperrors"
	"unihub/internal/utils"
)

// timeQuery starts a Prometheus timer for a repository query. The returned
// function observes the duration and counts the error, if any.
func timeQuery(queryType, repository string) func(err error) {
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, "success").Observe(v)
	}))
	return func(err error) {
		timer.ObserveDuration()
		if err != nil {
			utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		}
	}
}

// mapDuplicate turns a Mongo duplicate-key error into a Conflict with the
// given message; other errors pass through.
func mapDuplicate(err error, message string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.Conflict(message).WithErr(err)
	}
	return err
}
