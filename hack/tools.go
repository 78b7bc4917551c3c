//go:build tools
// +build tools

// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package tools imports the code generators used by hack/update-codegen.sh so that they are versioned in go.mod.
package tools

import (
	_ "k8s.io/code-generator"
)
