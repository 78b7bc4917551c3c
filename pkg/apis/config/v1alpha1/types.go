// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	componentbaseconfigv1alpha1 "k8s.io/component-base/config/v1alpha1"
)

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// CertFixerConfiguration defines the configuration for the cert-fixer.
type CertFixerConfiguration struct {
	metav1.TypeMeta `json:",inline"`
	// ClientConnection specifies the kubeconfig file and the client connection settings for the cluster
	// containing the ingresses and the CoreDNS deployment.
	ClientConnection *ClientConnection `json:"clientConnection,omitempty"`
	// LeaderElection defines the configuration of leader election client.
	LeaderElection componentbaseconfigv1alpha1.LeaderElectionConfiguration `json:"leaderElection"`
	// LogLevel is the level/severity for the logs. Must be one of [info,debug,error].
	LogLevel string `json:"logLevel"`
	// LogFormat is the output format for the logs. Must be one of [text,json].
	LogFormat string `json:"logFormat"`
	// Server defines the configuration of the HTTP server.
	Server ServerConfiguration `json:"server"`
	// Debugging holds configuration for Debugging related features.
	// +optional
	Debugging *componentbaseconfigv1alpha1.DebuggingConfiguration `json:"debugging,omitempty"`
	// IngressService is the DNS name all ingress hostnames are rewritten to.
	// It is overwritten by the environment variable INGRESS_SERVICE if set.
	// Defaults to "ingress-nginx-controller.ingress-nginx.svc.cluster.local".
	IngressService string `json:"ingressService"`
	// CoreDNS defines where the CoreDNS configuration and pods are found.
	CoreDNS CoreDNSConfiguration `json:"coreDNS"`
	// Controllers defines the configuration of the controllers.
	Controllers ControllerConfiguration `json:"controllers"`
}

// ClientConnection contains client connection configurations.
type ClientConnection struct {
	componentbaseconfigv1alpha1.ClientConnectionConfiguration
}

// ServerConfiguration contains details for the HTTP(S) servers.
type ServerConfiguration struct {
	// HealthProbes is the configuration for serving the healthz and readyz endpoints.
	HealthProbes *Server `json:"healthProbes,omitempty"`
	// Metrics is the configuration for serving the metrics endpoint.
	Metrics *Server `json:"metrics,omitempty"`
}

// Server contains information for HTTP(S) server configuration.
type Server struct {
	// BindAddress is the IP address on which to listen for the specified port.
	BindAddress string `json:"bindAddress"`
	// Port is the port on which to serve requests.
	Port int `json:"port"`
}

// CoreDNSConfiguration identifies the CoreDNS resources managed by the cert-fixer.
type CoreDNSConfiguration struct {
	// Namespace is the namespace of the CoreDNS config map and pods.
	// Defaults to "kube-system".
	Namespace string `json:"namespace"`
	// ConfigMapName is the name of the config map containing the Corefile.
	// Defaults to "coredns".
	ConfigMapName string `json:"configMapName"`
	// CorefileKey is the data key of the Corefile in the config map.
	// Defaults to "Corefile".
	CorefileKey string `json:"corefileKey"`
	// PodLabelSelector selects the CoreDNS pods to restart after the Corefile has been updated.
	// Defaults to "k8s-app=kube-dns".
	PodLabelSelector string `json:"podLabelSelector"`
}

// ControllerConfiguration defines the configuration of the controllers.
type ControllerConfiguration struct {
	// Corefile is the configuration for the Corefile reconciliation.
	Corefile CorefileControllerConfig `json:"corefile"`
	// Watch is the configuration for the ingress watch.
	Watch WatchControllerConfig `json:"watch"`
}

// CorefileControllerConfig is the configuration for the Corefile reconciliation.
type CorefileControllerConfig struct {
	// ConflictRetries is the number of attempts to update the config map if it was modified concurrently.
	// Defaults to 5.
	// +optional
	ConflictRetries *int `json:"conflictRetries,omitempty"`
	// ReconciliationTimeout is the maximum duration a single reconciliation is allowed to take.
	// Defaults to 2 minutes.
	// +optional
	ReconciliationTimeout *metav1.Duration `json:"reconciliationTimeout,omitempty"`
	// DeduplicateHostnames removes duplicate hostnames before the rewrite entries are generated.
	// Defaults to false.
	// +optional
	DeduplicateHostnames *bool `json:"deduplicateHostnames,omitempty"`
	// RestartOnlyOnChange skips restarting the CoreDNS pods if the Corefile was not modified.
	// Defaults to false.
	// +optional
	RestartOnlyOnChange *bool `json:"restartOnlyOnChange,omitempty"`
}

// WatchControllerConfig is the configuration for the ingress watch.
type WatchControllerConfig struct {
	// InitialBackoff is the delay before the first attempt to re-open a terminated watch.
	// Defaults to 1 second.
	// +optional
	InitialBackoff *metav1.Duration `json:"initialBackoff,omitempty"`
	// MaxBackoff is the upper bound of the delay between attempts to re-open the watch.
	// Defaults to 5 minutes.
	// +optional
	MaxBackoff *metav1.Duration `json:"maxBackoff,omitempty"`
	// BackoffFactor is the multiplier applied to the delay after each failed attempt.
	// Defaults to 2.
	// +optional
	BackoffFactor *float64 `json:"backoffFactor,omitempty"`
	// BackoffJitter is the maximum relative jitter added to each delay.
	// Defaults to 0.2.
	// +optional
	BackoffJitter *float64 `json:"backoffJitter,omitempty"`
	// CoalesceEvents folds ingress events which are already queued into a single reconciliation.
	// Defaults to true.
	// +optional
	CoalesceEvents *bool `json:"coalesceEvents,omitempty"`
}

const (
	// DefaultIngressService is the default rewrite target.
	DefaultIngressService = "ingress-nginx-controller.ingress-nginx.svc.cluster.local"
	// DefaultCoreDNSNamespace is the default namespace of the CoreDNS deployment.
	DefaultCoreDNSNamespace = "kube-system"
	// DefaultConfigMapName is the default name of the CoreDNS config map.
	DefaultConfigMapName = "coredns"
	// DefaultCorefileKey is the default data key of the Corefile.
	DefaultCorefileKey = "Corefile"
	// DefaultPodLabelSelector is the default label selector of the CoreDNS pods.
	DefaultPodLabelSelector = "k8s-app=kube-dns"

	// DefaultLockObjectNamespace is the default lock namespace for leader election.
	DefaultLockObjectNamespace = "kube-system"
	// DefaultLockObjectName is the default lock name for leader election.
	DefaultLockObjectName = "cert-fixer-leader-election"
)
