// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	kubernetesscheme "k8s.io/client-go/kubernetes/scheme"

	configv1alpha1 "github.com/gardener/cert-fixer/pkg/apis/config/v1alpha1"
)

var (
	// ClusterScheme is the scheme used for the cluster containing the ingresses and the CoreDNS deployment.
	ClusterScheme = runtime.NewScheme()

	// ConfigScheme is the scheme of the component configuration.
	ConfigScheme = runtime.NewScheme()
	// ConfigDecoder decodes and defaults the component configuration.
	ConfigDecoder runtime.Decoder
)

func init() {
	clusterSchemeBuilder := runtime.NewSchemeBuilder(
		kubernetesscheme.AddToScheme,
	)
	utilruntime.Must(clusterSchemeBuilder.AddToScheme(ClusterScheme))

	configSchemeBuilder := runtime.NewSchemeBuilder(
		configv1alpha1.AddToScheme,
	)
	utilruntime.Must(configSchemeBuilder.AddToScheme(ConfigScheme))
	ConfigDecoder = serializer.NewCodecFactory(ConfigScheme).UniversalDecoder(configv1alpha1.SchemeGroupVersion)
}
