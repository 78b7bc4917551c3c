// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"go.uber.org/atomic"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/manager"

	"github.com/gardener/cert-fixer/pkg/apis/config/v1alpha1"
	"github.com/gardener/cert-fixer/pkg/metrics"
)

// ControllerName is the name of this controller.
const ControllerName = "ingress-watcher"

const defaultMinHealthyDuration = 30 * time.Second

// State is the state of the ingress watch.
type State string

const (
	// StateWatching means a watch subscription is open.
	StateWatching State = "Watching"
	// StateReconnecting means the last subscription has ended and a new one is being opened.
	StateReconnecting State = "Reconnecting"
)

var errWatchClosed = errors.New("watch channel closed")

// Reconciler is triggered whenever an ingress has been touched.
type Reconciler interface {
	Reconcile(ctx context.Context) error
}

// Watcher watches ingresses in all namespaces and runs a reconciliation for every touched ingress.
// Ended subscriptions are re-opened with exponential backoff, the watcher never gives up.
// A re-opened subscription resumes at the last observed resource version. Only if that version
// has expired the ingresses are listed again, followed by one reconciliation.
type Watcher struct {
	Client     client.WithWatch
	Reconciler Reconciler
	Config     v1alpha1.WatchControllerConfig
	// ReconciliationTimeout limits the duration of a single reconciliation. Zero means no limit.
	ReconciliationTimeout time.Duration
	// MinHealthyDuration is the time a subscription must stay open to reset the backoff.
	// Defaults to 30 seconds.
	MinHealthyDuration time.Duration

	state atomic.String

	// only accessed by the watch loop
	resourceVersion string
	known           map[client.ObjectKey]string
	resync          bool
}

var _ manager.Runnable = &Watcher{}

// AddToManager adds the watcher as runnable and its state as readiness check to the given manager.
func (w *Watcher) AddToManager(mgr manager.Manager) error {
	if err := mgr.Add(w); err != nil {
		return err
	}
	return mgr.AddReadyzCheck(ControllerName, w.ReadyzCheck)
}

// State returns the current state. Before the first subscription is opened the watcher is reconnecting.
func (w *Watcher) State() State {
	if s := w.state.Load(); s != "" {
		return State(s)
	}
	return StateReconnecting
}

// ReadyzCheck fails if no watch subscription is open.
func (w *Watcher) ReadyzCheck(_ *http.Request) error {
	if state := w.State(); state != StateWatching {
		return fmt.Errorf("ingress watch is %s", state)
	}
	return nil
}

// Start runs the watch loop until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	log := logf.FromContext(ctx).WithName(ControllerName)
	ctx = logf.IntoContext(ctx, log)

	w.known = map[client.ObjectKey]string{}
	backoff := w.newBackoff()
	for {
		healthy, err := w.watch(ctx, log)
		if ctx.Err() != nil {
			w.setState(StateReconnecting)
			log.Info("Stopped watching ingresses")
			return nil
		}

		w.setState(StateReconnecting)
		metrics.WatchReconnects.Inc()
		if healthy {
			backoff = w.newBackoff()
		}
		delay := backoff.Step()
		log.Info("Ingress watch ended, reconnecting", "reason", err.Error(), "delay", delay, "resourceVersion", w.resourceVersion)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("Stopped watching ingresses")
			return nil
		case <-timer.C:
		}
	}
}

// watch opens one subscription and consumes it until it ends. It reports whether the
// subscription was healthy, i.e. delivered at least one event or stayed open long enough.
func (w *Watcher) watch(ctx context.Context, log logr.Logger) (bool, error) {
	watcher, err := w.Client.Watch(ctx, &networkingv1.IngressList{}, &client.ListOptions{
		Raw: &metav1.ListOptions{ResourceVersion: w.resourceVersion, AllowWatchBookmarks: true},
	})
	if err != nil {
		w.checkExpired(err)
		return false, fmt.Errorf("failed opening ingress watch: %w", err)
	}
	defer watcher.Stop()

	opened := time.Now()
	w.setState(StateWatching)
	log.Info("Watching ingresses", "resourceVersion", w.resourceVersion)

	delivered := false
	healthy := func() bool {
		return delivered || time.Since(opened) >= w.minHealthyDuration()
	}

	if w.resync {
		w.resync = false
		log.Info("Resource version expired, resynchronizing")
		w.reconcile(ctx, log, 0)
	}

	for {
		select {
		case <-ctx.Done():
			return healthy(), ctx.Err()
		case event, ok := <-watcher.ResultChan():
			if !ok {
				return healthy(), errWatchClosed
			}
			touched, endErr := w.handle(event)
			if touched == 0 && endErr == nil {
				continue
			}
			delivered = delivered || touched > 0
			if touched > 0 && ptr.Deref(w.Config.CoalesceEvents, true) {
				var more int
				more, endErr = w.drain(watcher, endErr)
				touched += more
			}
			if touched > 0 {
				w.reconcile(ctx, log, touched)
			}
			if endErr != nil {
				return healthy(), endErr
			}
		}
	}
}

// handle classifies a single event and records the resource version it carries. It returns 1 if
// the event touched an ingress, or an error if the event ends the subscription.
// Ingresses replayed at a resource version which has already been seen are not counted.
func (w *Watcher) handle(event watch.Event) (int, error) {
	if event.Type == watch.Error {
		err := apierrors.FromObject(event.Object)
		w.checkExpired(err)
		return 0, fmt.Errorf("watch error: %w", err)
	}

	obj, ok := event.Object.(client.Object)
	if !ok {
		return 0, nil
	}
	key := client.ObjectKeyFromObject(obj)
	rv := obj.GetResourceVersion()

	switch event.Type {
	case watch.Added, watch.Modified:
		if rv != "" && w.known[key] == rv {
			return 0, nil
		}
		w.known[key] = rv
	case watch.Deleted:
		delete(w.known, key)
	case watch.Bookmark:
		w.observe(rv)
		return 0, nil
	default:
		return 0, nil
	}
	w.observe(rv)
	return 1, nil
}

func (w *Watcher) observe(resourceVersion string) {
	if resourceVersion != "" {
		w.resourceVersion = resourceVersion
	}
}

// checkExpired drops the resource version if the server cannot resume from it anymore.
func (w *Watcher) checkExpired(err error) {
	if w.resourceVersion != "" && (apierrors.IsResourceExpired(err) || apierrors.IsGone(err)) {
		w.resourceVersion = ""
		w.resync = true
	}
}

// drain consumes all events already queued without blocking.
func (w *Watcher) drain(watcher watch.Interface, endErr error) (int, error) {
	touched := 0
	for endErr == nil {
		select {
		case event, ok := <-watcher.ResultChan():
			if !ok {
				return touched, errWatchClosed
			}
			n, err := w.handle(event)
			touched += n
			endErr = err
		default:
			return touched, nil
		}
	}
	return touched, endErr
}

func (w *Watcher) reconcile(ctx context.Context, log logr.Logger, events int) {
	if w.ReconciliationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.ReconciliationTimeout)
		defer cancel()
	}

	log.V(1).Info("Ingresses touched, reconciling", "events", events)
	if err := w.Reconciler.Reconcile(ctx); err != nil {
		log.Error(err, "Reconciliation failed", "events", events)
	}
}

func (w *Watcher) setState(state State) {
	if State(w.state.Swap(string(state))) == state {
		return
	}
	if state == StateWatching {
		metrics.WatchActive.Set(1)
	} else {
		metrics.WatchActive.Set(0)
	}
}

func (w *Watcher) minHealthyDuration() time.Duration {
	if w.MinHealthyDuration > 0 {
		return w.MinHealthyDuration
	}
	return defaultMinHealthyDuration
}

func (w *Watcher) newBackoff() wait.Backoff {
	backoff := wait.Backoff{
		Duration: time.Second,
		Factor:   ptr.Deref(w.Config.BackoffFactor, 2.0),
		Jitter:   ptr.Deref(w.Config.BackoffJitter, 0.2),
		Steps:    math.MaxInt32,
		Cap:      5 * time.Minute,
	}
	if w.Config.InitialBackoff != nil {
		backoff.Duration = w.Config.InitialBackoff.Duration
	}
	if w.Config.MaxBackoff != nil {
		backoff.Cap = w.Config.MaxBackoff.Duration
	}
	return backoff
}
