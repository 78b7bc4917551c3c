// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package v1alpha1

import (
	"os"
	"time"

	"github.com/gardener/gardener/pkg/logger"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	componentbaseconfigv1alpha1 "k8s.io/component-base/config/v1alpha1"
	"k8s.io/utils/ptr"
)

func addDefaultingFuncs(scheme *runtime.Scheme) error {
	return RegisterDefaults(scheme)
}

// SetDefaults_CertFixerConfiguration sets defaults for the configuration of the cert-fixer.
func SetDefaults_CertFixerConfiguration(obj *CertFixerConfiguration) {
	if obj.LogLevel == "" {
		obj.LogLevel = logger.InfoLevel
	}
	if obj.LogFormat == "" {
		obj.LogFormat = logger.FormatJSON
	}
	if obj.ClientConnection == nil {
		obj.ClientConnection = &ClientConnection{}
	}
	if obj.IngressService == "" {
		obj.IngressService = DefaultIngressService
	}
}

// SetDefaults_ClientConnection sets defaults for the client connection.
func SetDefaults_ClientConnection(obj *ClientConnection) {
	if obj.QPS == 0.0 {
		obj.QPS = 20.0
	}
	if obj.Burst == 0 {
		obj.Burst = 30
	}
}

// SetDefaults_LeaderElectionConfiguration sets defaults for the leader election of the cert-fixer.
func SetDefaults_LeaderElectionConfiguration(obj *componentbaseconfigv1alpha1.LeaderElectionConfiguration) {
	if obj.LeaderElect == nil {
		obj.LeaderElect = ptr.To(false)
	}
	if obj.ResourceLock == "" {
		// Don't use a constant from the client-go resourcelock package here (resourcelock is not an API package, pulls
		// in some other dependencies and is thereby not suitable to be used in this API package).
		obj.ResourceLock = "leases"
	}

	componentbaseconfigv1alpha1.RecommendedDefaultLeaderElectionConfiguration(obj)

	if obj.ResourceNamespace == "" {
		obj.ResourceNamespace = getDefaultNamespace()
	}
	if obj.ResourceName == "" {
		obj.ResourceName = DefaultLockObjectName
	}
}

// SetDefaults_ServerConfiguration sets defaults for the server configuration.
func SetDefaults_ServerConfiguration(obj *ServerConfiguration) {
	if obj.HealthProbes == nil {
		obj.HealthProbes = &Server{}
	}
	if obj.HealthProbes.Port == 0 {
		obj.HealthProbes.Port = 2761
	}

	if obj.Metrics == nil {
		obj.Metrics = &Server{}
	}
	if obj.Metrics.Port == 0 {
		obj.Metrics.Port = 2763
	}
}

// SetDefaults_CoreDNSConfiguration sets defaults for the CoreDNS resource references.
func SetDefaults_CoreDNSConfiguration(obj *CoreDNSConfiguration) {
	if obj.Namespace == "" {
		obj.Namespace = DefaultCoreDNSNamespace
	}
	if obj.ConfigMapName == "" {
		obj.ConfigMapName = DefaultConfigMapName
	}
	if obj.CorefileKey == "" {
		obj.CorefileKey = DefaultCorefileKey
	}
	if obj.PodLabelSelector == "" {
		obj.PodLabelSelector = DefaultPodLabelSelector
	}
}

// SetDefaults_CorefileControllerConfig sets defaults for the CorefileControllerConfig object.
func SetDefaults_CorefileControllerConfig(obj *CorefileControllerConfig) {
	if obj.ConflictRetries == nil {
		obj.ConflictRetries = ptr.To(5)
	}
	if obj.ReconciliationTimeout == nil {
		obj.ReconciliationTimeout = &metav1.Duration{Duration: 2 * time.Minute}
	}
	if obj.DeduplicateHostnames == nil {
		obj.DeduplicateHostnames = ptr.To(false)
	}
	if obj.RestartOnlyOnChange == nil {
		obj.RestartOnlyOnChange = ptr.To(false)
	}
}

// SetDefaults_WatchControllerConfig sets defaults for the WatchControllerConfig object.
func SetDefaults_WatchControllerConfig(obj *WatchControllerConfig) {
	if obj.InitialBackoff == nil {
		obj.InitialBackoff = &metav1.Duration{Duration: time.Second}
	}
	if obj.MaxBackoff == nil {
		obj.MaxBackoff = &metav1.Duration{Duration: 5 * time.Minute}
	}
	if obj.BackoffFactor == nil {
		obj.BackoffFactor = ptr.To(2.0)
	}
	if obj.BackoffJitter == nil {
		obj.BackoffJitter = ptr.To(0.2)
	}
	if obj.CoalesceEvents == nil {
		obj.CoalesceEvents = ptr.To(true)
	}
}

func getDefaultNamespace() string {
	if ns := os.Getenv("POD_NAMESPACE"); ns != "" {
		return ns
	}
	return DefaultLockObjectNamespace
}
