// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

func init() {
	ctrlmetrics.Registry.MustRegister(
		Reconciliations,
		ReconciliationDuration,
		ManagedEntries,
		SkippedIngressRules,
		PodRestarts,
		ConfigMapConflicts,
		WatchReconnects,
		WatchActive,
	)
}

const (
	// ResultSuccess is the result label value for successful operations.
	ResultSuccess = "success"
	// ResultError is the result label value for failed operations.
	ResultError = "error"
)

var (
	// Reconciliations tracks the number of Corefile reconciliations by result.
	Reconciliations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cert_fixer_reconciliations_total",
			Help: "Total number of Corefile reconciliations by result",
		},
		[]string{"result"},
	)

	// ReconciliationDuration tracks the duration of Corefile reconciliations.
	ReconciliationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cert_fixer_reconciliation_duration_seconds",
			Help:    "Duration of Corefile reconciliations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ManagedEntries tracks the number of rewrite entries written by the last successful reconciliation.
	ManagedEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cert_fixer_managed_entries",
			Help: "Number of rewrite entries managed in the Corefile",
		},
	)

	// SkippedIngressRules counts ingress rules which could not be used, by reason.
	SkippedIngressRules = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cert_fixer_skipped_ingress_rules_total",
			Help: "Number of skipped ingresses or ingress rules by reason",
		},
		[]string{"reason"},
	)

	// PodRestarts counts deletions of CoreDNS pods by result.
	PodRestarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cert_fixer_pod_restarts_total",
			Help: "Number of CoreDNS pod deletions by result",
		},
		[]string{"result"},
	)

	// ConfigMapConflicts counts optimistic concurrency conflicts on updating the CoreDNS config map.
	ConfigMapConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cert_fixer_configmap_conflicts_total",
			Help: "Number of conflicts on updating the CoreDNS config map",
		},
	)

	// WatchReconnects counts the number of times the ingress watch has been re-opened.
	WatchReconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cert_fixer_watch_reconnects_total",
			Help: "Number of times the ingress watch has been re-opened",
		},
	)

	// WatchActive is 1 while the ingress watch is open and 0 while reconnecting.
	WatchActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cert_fixer_watch_active",
			Help: "Whether the ingress watch is currently open",
		},
	)
)
