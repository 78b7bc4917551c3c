// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/gardener/cert-fixer/pkg/apis/config/v1alpha1"
)

// Config is the configuration of the functional tests, read from the environment.
type Config struct {
	// KubeConfig is the kubeconfig of a cluster with a running cert-fixer.
	KubeConfig string
	// Namespace is the namespace the test ingresses are created in.
	Namespace string
	// BaseDomain is the domain the test hosts are created under. The domain must not be resolvable in-cluster.
	BaseDomain string
	// IngressService is the rewrite target cert-fixer has been configured with.
	IngressService string
	// DNSServer is the address of the CoreDNS service. If empty, no DNS lookups are done.
	DNSServer string
	// CoreDNSNamespace is the namespace of the CoreDNS config map.
	CoreDNSNamespace string
}

// FromEnv reads the configuration from the environment.
func FromEnv() (*Config, error) {
	cfg := &Config{
		KubeConfig:       os.Getenv("KUBECONFIG"),
		Namespace:        getEnv("NAMESPACE", "default"),
		BaseDomain:       os.Getenv("BASE_DOMAIN"),
		IngressService:   getEnv("INGRESS_SERVICE", v1alpha1.DefaultIngressService),
		DNSServer:        os.Getenv("DNS_SERVER"),
		CoreDNSNamespace: getEnv("COREDNS_NAMESPACE", v1alpha1.DefaultCoreDNSNamespace),
	}
	if cfg.KubeConfig == "" {
		return nil, fmt.Errorf("KUBECONFIG not set")
	}
	if cfg.BaseDomain == "" {
		return nil, fmt.Errorf("BASE_DOMAIN not set")
	}
	cfg.BaseDomain = strings.TrimSuffix(cfg.BaseDomain, ".")
	return cfg, nil
}

// String returns the configuration in environment variable notation.
func (c *Config) String() string {
	return fmt.Sprintf("KUBECONFIG=%s NAMESPACE=%s BASE_DOMAIN=%s INGRESS_SERVICE=%s DNS_SERVER=%s COREDNS_NAMESPACE=%s",
		c.KubeConfig, c.Namespace, c.BaseDomain, c.IngressService, c.DNSServer, c.CoreDNSNamespace)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
