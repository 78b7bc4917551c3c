// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package restart

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/labels"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/gardener/cert-fixer/pkg/metrics"
)

const defaultMaxConcurrentDeletions = 5

// ControllerName is the name used for logging.
const ControllerName = "coredns-restarter"

// Restarter restarts the CoreDNS pods by deleting them, so that their deployment recreates them
// with the current Corefile.
type Restarter struct {
	Client    client.Client
	Namespace string
	Selector  labels.Selector
	// MaxConcurrentDeletions limits the number of parallel pod deletions. Defaults to 5.
	MaxConcurrentDeletions int
}

// New creates a Restarter for the pods in the given namespace matching the label selector.
func New(c client.Client, namespace, selector string) (*Restarter, error) {
	parsed, err := labels.Parse(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid pod label selector %q: %w", selector, err)
	}
	if parsed.Empty() {
		return nil, fmt.Errorf("pod label selector must not be empty")
	}
	return &Restarter{Client: c, Namespace: namespace, Selector: parsed}, nil
}

// Restart deletes all selected pods and returns the number of deleted pods.
// Pods which are already gone count as deleted. A failed deletion does not stop
// the remaining ones, all failures are returned together.
func (r *Restarter) Restart(ctx context.Context) (int, error) {
	log := logf.FromContext(ctx).WithName(ControllerName).WithValues("namespace", r.Namespace, "selector", r.Selector.String())

	podList := &corev1.PodList{}
	if err := r.Client.List(ctx, podList, client.InNamespace(r.Namespace), client.MatchingLabelsSelector{Selector: r.Selector}); err != nil {
		return 0, fmt.Errorf("failed listing pods: %w", err)
	}
	if len(podList.Items) == 0 {
		log.Info("No pods to restart")
		return 0, nil
	}

	var (
		g      errgroup.Group
		failed = make([]error, len(podList.Items))
	)
	g.SetLimit(r.maxConcurrentDeletions())
	for i := range podList.Items {
		pod := &podList.Items[i]
		g.Go(func() error {
			if err := r.Client.Delete(ctx, pod); err != nil && !apierrors.IsNotFound(err) {
				metrics.PodRestarts.WithLabelValues(metrics.ResultError).Inc()
				failed[i] = fmt.Errorf("failed deleting pod %s: %w", client.ObjectKeyFromObject(pod), err)
				return nil
			}
			metrics.PodRestarts.WithLabelValues(metrics.ResultSuccess).Inc()
			log.V(1).Info("Deleted pod", "pod", pod.Name)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, err := range failed {
		if err != nil {
			errs = append(errs, err)
		}
	}
	deleted := len(podList.Items) - len(errs)

	log.Info("Restarted pods", "deleted", deleted, "failed", len(errs))
	return deleted, errors.Join(errs...)
}

func (r *Restarter) maxConcurrentDeletions() int {
	if r.MaxConcurrentDeletions > 0 {
		return r.MaxConcurrentDeletions
	}
	return defaultMaxConcurrentDeletions
}
