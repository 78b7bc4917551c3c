// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ingress

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/miekg/dns"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/gardener/cert-fixer/pkg/controller/common"
	"github.com/gardener/cert-fixer/pkg/metrics"
)

// ControllerName is the name used for logging.
const ControllerName = "hostname-collector"

const (
	// ReasonMissingRules is the event reason for ingresses without rules.
	ReasonMissingRules = "MissingRules"
	// ReasonMissingHost is the event reason for ingress rules without host.
	ReasonMissingHost = "MissingHost"
	// ReasonInvalidHost is the event reason for ingress rules with a host which cannot be written to the Corefile.
	ReasonInvalidHost = "InvalidHost"
)

// Collector collects the hostnames of all ingress rules in the cluster.
type Collector struct {
	Client   client.Reader
	Recorder common.RecorderWithDeduplication
}

// Collect lists the ingresses of all namespaces and returns the hosts of their rules
// in ingress-then-rule order. Ingresses without rules and rules without a usable host
// are skipped with a warning.
func (c *Collector) Collect(ctx context.Context) ([]string, error) {
	log := logf.FromContext(ctx).WithName(ControllerName)

	ingressList := &networkingv1.IngressList{}
	if err := c.Client.List(ctx, ingressList); err != nil {
		return nil, fmt.Errorf("failed listing ingresses: %w", err)
	}

	var hostnames []string
	for i := range ingressList.Items {
		hostnames = append(hostnames, c.hostnamesOf(log, &ingressList.Items[i])...)
	}
	log.V(1).Info("Collected hostnames", "ingresses", len(ingressList.Items), "hostnames", len(hostnames))
	return hostnames, nil
}

func (c *Collector) hostnamesOf(log logr.Logger, ingress *networkingv1.Ingress) []string {
	log = log.WithValues("ingress", client.ObjectKeyFromObject(ingress))

	if len(ingress.Spec.Rules) == 0 {
		c.skip(log, ingress, ReasonMissingRules, "ingress has no rules, no hostnames are rewritten")
		return nil
	}

	var hostnames []string
	for i, rule := range ingress.Spec.Rules {
		switch {
		case rule.Host == "":
			c.skip(log, ingress, ReasonMissingHost, fmt.Sprintf("rule %d has no host", i))
		case !isUsableHost(rule.Host):
			c.skip(log, ingress, ReasonInvalidHost, fmt.Sprintf("host %q of rule %d is not a valid domain name", rule.Host, i))
		default:
			hostnames = append(hostnames, rule.Host)
		}
	}
	return hostnames
}

func (c *Collector) skip(log logr.Logger, ingress *networkingv1.Ingress, reason, msg string) {
	log.Info("Skipping ingress rule", "reason", reason, "message", msg)
	metrics.SkippedIngressRules.WithLabelValues(reason).Inc()
	if c.Recorder != nil {
		c.Recorder.DedupEventf(ingress, corev1.EventTypeWarning, reason, "%s", msg)
	}
}

// isUsableHost checks if the host can be written as a single token into a Corefile rewrite rule.
func isUsableHost(host string) bool {
	if strings.ContainsAny(host, " \t\r\n#") {
		return false
	}
	_, ok := dns.IsDomainName(host)
	return ok
}
