// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// +k8s:deepcopy-gen=package
// +k8s:defaulter-gen=TypeMeta
// +groupName=config.cert-fixer.gardener.cloud

// Package v1alpha1 contains the configuration API of the cert-fixer.
package v1alpha1 // import "github.com/gardener/cert-fixer/pkg/apis/config/v1alpha1"
