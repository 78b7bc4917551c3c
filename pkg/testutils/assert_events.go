// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package testutils

import (
	"fmt"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// AssertEvents checks that the recorder emitted exactly the expected events in the given order.
// An expected event matches if the recorded event starts with it, e.g. "Warning MissingHost ".
func AssertEvents(actual <-chan string, expectedList ...string) {
	GinkgoHelper()

	timeout := time.After(1 * time.Second)
	for _, e := range expectedList {
		select {
		case a := <-actual:
			if !strings.HasPrefix(a, e) {
				Expect(a).To(HavePrefix(e))
				return
			}
		case <-timeout:
			Fail(fmt.Sprintf("Expected event %q, got nothing", e))
		}
	}
	AssertNoEvents(actual)
}

// AssertNoEvents checks that no further events have been recorded.
func AssertNoEvents(actual <-chan string) {
	GinkgoHelper()

	for {
		select {
		case a := <-actual:
			Fail(fmt.Sprintf("Unexpected event: %q", a))
		default:
			return
		}
	}
}
