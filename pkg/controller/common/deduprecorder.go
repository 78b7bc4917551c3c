// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// RecorderWithDeduplication is an event recorder with deduplication capabilities.
type RecorderWithDeduplication interface {
	record.EventRecorder
	// DedupEventf records an event only if the same event has not been recorded
	// for the given object within the deduplication TTL.
	DedupEventf(obj client.Object, eventtype, reason, messageFmt string, args ...interface{})
}

type eventKey struct {
	objectType string
	key        client.ObjectKey
	reason     string
}

type dedupRecorder struct {
	recorder   record.EventRecorder
	eventCache *ttlcache.Cache[eventKey, string]
}

// NewDedupRecorder creates a new RecorderWithDeduplication with the given TTL for deduplication.
func NewDedupRecorder(recorder record.EventRecorder, ttl time.Duration) RecorderWithDeduplication {
	return &dedupRecorder{
		recorder: recorder,
		eventCache: ttlcache.New[eventKey, string](
			ttlcache.WithTTL[eventKey, string](ttl),
			ttlcache.WithDisableTouchOnHit[eventKey, string]()),
	}
}

func (d *dedupRecorder) Event(object runtime.Object, eventtype, reason, message string) {
	d.recorder.Event(object, eventtype, reason, message)
}

func (d *dedupRecorder) Eventf(object runtime.Object, eventtype, reason, messageFmt string, args ...interface{}) {
	d.recorder.Event(object, eventtype, reason, fmt.Sprintf(messageFmt, args...))
}

func (d *dedupRecorder) AnnotatedEventf(object runtime.Object, annotations map[string]string, eventtype, reason, messageFmt string, args ...interface{}) {
	d.recorder.AnnotatedEventf(object, annotations, eventtype, reason, messageFmt, args...)
}

func (d *dedupRecorder) DedupEventf(obj client.Object, eventtype, reason, messageFmt string, args ...interface{}) {
	msg := fmt.Sprintf(messageFmt, args...)
	key := eventKey{
		objectType: fmt.Sprintf("%T", obj),
		key:        client.ObjectKeyFromObject(obj),
		reason:     reason,
	}
	if item := d.eventCache.Get(key); item == nil || item.Value() != msg {
		d.recorder.Event(obj, eventtype, reason, msg)
		d.eventCache.Set(key, msg, ttlcache.DefaultTTL)
		d.eventCache.DeleteExpired()
	}
}
