// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reconciler

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/gardener/cert-fixer/pkg/apis/config/v1alpha1"
	"github.com/gardener/cert-fixer/pkg/controller/common"
	"github.com/gardener/cert-fixer/pkg/controller/configmap"
	"github.com/gardener/cert-fixer/pkg/controller/ingress"
	"github.com/gardener/cert-fixer/pkg/controller/restart"
	"github.com/gardener/cert-fixer/pkg/metrics"
)

// ControllerName is the name used for logging.
const ControllerName = "corefile-reconciler"

// HostnameCollector returns the hostnames to be rewritten.
type HostnameCollector interface {
	Collect(ctx context.Context) ([]string, error)
}

// ConfigApplier writes the rewrite entries for the given hostnames.
type ConfigApplier interface {
	Apply(ctx context.Context, hostnames []string) (configmap.Result, error)
}

// ServiceRestarter restarts the DNS server.
type ServiceRestarter interface {
	Restart(ctx context.Context) (int, error)
}

// Reconciler brings the Corefile in line with the current ingress hostnames and restarts CoreDNS.
type Reconciler struct {
	Collector HostnameCollector
	Applier   ConfigApplier
	Restarter ServiceRestarter

	// DeduplicateHostnames removes repeated hostnames before they are applied.
	DeduplicateHostnames bool
	// RestartOnlyOnChange skips the restart if the Corefile has not been modified.
	RestartOnlyOnChange bool
}

// New creates a Reconciler with the components configured by the given configuration.
func New(c client.Client, recorder common.RecorderWithDeduplication, cfg *v1alpha1.CertFixerConfiguration) (*Reconciler, error) {
	restarter, err := restart.New(c, cfg.CoreDNS.Namespace, cfg.CoreDNS.PodLabelSelector)
	if err != nil {
		return nil, err
	}

	return &Reconciler{
		Collector: &ingress.Collector{
			Client:   c,
			Recorder: recorder,
		},
		Applier: &configmap.Applier{
			Client:          c,
			Recorder:        recorder,
			Namespace:       cfg.CoreDNS.Namespace,
			Name:            cfg.CoreDNS.ConfigMapName,
			Key:             cfg.CoreDNS.CorefileKey,
			Target:          cfg.IngressService,
			ConflictRetries: ptr.Deref(cfg.Controllers.Corefile.ConflictRetries, 5),
		},
		Restarter:            restarter,
		DeduplicateHostnames: ptr.Deref(cfg.Controllers.Corefile.DeduplicateHostnames, false),
		RestartOnlyOnChange:  ptr.Deref(cfg.Controllers.Corefile.RestartOnlyOnChange, false),
	}, nil
}

// Reconcile performs one reconciliation: collect the hostnames, patch the Corefile and restart CoreDNS.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	start := time.Now()
	err := r.reconcile(ctx)
	metrics.ReconciliationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.Reconciliations.WithLabelValues(metrics.ResultError).Inc()
		return err
	}
	metrics.Reconciliations.WithLabelValues(metrics.ResultSuccess).Inc()
	return nil
}

func (r *Reconciler) reconcile(ctx context.Context) error {
	log := logf.FromContext(ctx).WithName(ControllerName)
	ctx = logf.IntoContext(ctx, log)

	hostnames, err := r.Collector.Collect(ctx)
	if err != nil {
		return err
	}
	if r.DeduplicateHostnames {
		hostnames = deduplicate(hostnames)
	}

	result, err := r.Applier.Apply(ctx, hostnames)
	if err != nil {
		return fmt.Errorf("failed applying %d hostnames: %w", len(hostnames), err)
	}
	metrics.ManagedEntries.Set(float64(result.Entries))

	if r.RestartOnlyOnChange && !result.Changed {
		log.Info("Corefile unchanged, skipping restart", "hostnames", len(hostnames))
		return nil
	}

	restarted, err := r.Restarter.Restart(ctx)
	if err != nil {
		return fmt.Errorf("failed restarting DNS server (%d pods restarted): %w", restarted, err)
	}
	log.Info("Reconciled", "hostnames", len(hostnames), "changed", result.Changed, "restartedPods", restarted)
	return nil
}

func deduplicate(hostnames []string) []string {
	seen := sets.New[string]()
	result := make([]string, 0, len(hostnames))
	for _, hostname := range hostnames {
		if seen.Has(hostname) {
			continue
		}
		seen.Insert(hostname)
		result = append(result, hostname)
	}
	return result
}
