// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package configmap

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/tools/record"
	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/gardener/cert-fixer/pkg/corefile"
	"github.com/gardener/cert-fixer/pkg/metrics"
)

// ControllerName is the name used for logging.
const ControllerName = "corefile-applier"

// ReasonCorefileUpdated is the event reason recorded on the config map after the Corefile was written.
const ReasonCorefileUpdated = "CorefileUpdated"

// Applier writes the managed rewrite entries into the Corefile stored in a config map.
type Applier struct {
	Client   client.Client
	Recorder record.EventRecorder

	// Namespace and Name identify the config map.
	Namespace string
	Name      string
	// Key is the data key of the Corefile.
	Key string
	// Target is the rewrite target of all entries.
	Target string
	// ConflictRetries is the maximum number of update attempts.
	ConflictRetries int
}

// Result describes the outcome of Apply.
type Result struct {
	// Changed is true if the config map has been updated.
	Changed bool
	// Entries is the number of managed rewrite entries in the Corefile.
	Entries int
}

// Apply patches the Corefile with one rewrite entry per hostname and updates the config map
// if the document changed. Concurrent modifications are retried with the re-fetched document.
func (a *Applier) Apply(ctx context.Context, hostnames []string) (Result, error) {
	key := client.ObjectKey{Namespace: a.Namespace, Name: a.Name}
	log := logf.FromContext(ctx).WithName(ControllerName).WithValues("configMap", key)

	var (
		result   Result
		attempts int
	)
	err := retry.RetryOnConflict(a.backoff(), func() error {
		attempts++
		var err error
		result, err = a.applyOnce(ctx, log, key, hostnames)
		if apierrors.IsConflict(err) {
			metrics.ConfigMapConflicts.Inc()
			log.Info("Config map was modified concurrently", "attempt", attempts)
		}
		return err
	})
	if err != nil {
		if apierrors.IsConflict(err) {
			return Result{}, &ConflictError{Key: key, Attempts: attempts, Err: err}
		}
		return Result{}, err
	}
	return result, nil
}

func (a *Applier) applyOnce(ctx context.Context, log logr.Logger, key client.ObjectKey, hostnames []string) (Result, error) {
	configMap := &corev1.ConfigMap{}
	if err := a.Client.Get(ctx, key, configMap); err != nil {
		if apierrors.IsNotFound(err) {
			return Result{}, &MissingError{Key: key, Err: err}
		}
		return Result{}, fmt.Errorf("failed reading config map %s: %w", key, err)
	}

	current, ok := configMap.Data[a.Key]
	if !ok {
		return Result{}, &corefile.FormatError{Reason: fmt.Sprintf("config map %s has no data key %q", key, a.Key)}
	}
	patched, err := corefile.Patch(current, hostnames, a.Target)
	if err != nil {
		return Result{}, err
	}

	result := Result{Entries: len(hostnames)}
	if patched == current {
		log.V(1).Info("Corefile is up to date", "entries", result.Entries)
		return result, nil
	}

	configMap.Data[a.Key] = patched
	if err := a.Client.Update(ctx, configMap); err != nil {
		return Result{}, fmt.Errorf("failed updating config map %s: %w", key, err)
	}
	result.Changed = true

	log.Info("Updated Corefile", "entries", result.Entries, "resourceVersion", configMap.ResourceVersion)
	if a.Recorder != nil {
		a.Recorder.Eventf(configMap, corev1.EventTypeNormal, ReasonCorefileUpdated, "Corefile updated with %d rewrite entries to %s", result.Entries, a.Target)
	}
	return result, nil
}

func (a *Applier) backoff() wait.Backoff {
	backoff := retry.DefaultRetry
	backoff.Steps = max(a.ConflictRetries, 1)
	return backoff
}
