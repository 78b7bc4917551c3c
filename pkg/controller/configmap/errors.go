// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package configmap

import (
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/client"
)

// MissingError is returned if the config map holding the Corefile does not exist.
type MissingError struct {
	Key client.ObjectKey
	Err error
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("config map %s not found: %s", e.Key, e.Err)
}

func (e *MissingError) Unwrap() error {
	return e.Err
}

// ConflictError is returned if the config map could not be updated because it was
// modified concurrently in every attempt.
type ConflictError struct {
	Key      client.ObjectKey
	Attempts int
	Err      error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("config map %s still modified concurrently after %d attempts: %s", e.Key, e.Attempts, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}
