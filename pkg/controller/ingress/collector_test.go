// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ingress_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	fakeclient "sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	certfixerclient "github.com/gardener/cert-fixer/pkg/client"
	"github.com/gardener/cert-fixer/pkg/controller/common"
	. "github.com/gardener/cert-fixer/pkg/controller/ingress"
	"github.com/gardener/cert-fixer/pkg/metrics"
	"github.com/gardener/cert-fixer/pkg/testutils"
)

var _ = Describe("Collector", func() {
	var (
		ctx          = context.Background()
		fakeClient   client.Client
		fakeRecorder *record.FakeRecorder
		collector    *Collector

		newIngress = func(namespace, name string, hosts ...string) *networkingv1.Ingress {
			ingress := &networkingv1.Ingress{
				ObjectMeta: metav1.ObjectMeta{
					Namespace: namespace,
					Name:      name,
				},
			}
			for _, host := range hosts {
				ingress.Spec.Rules = append(ingress.Spec.Rules, networkingv1.IngressRule{Host: host})
			}
			return ingress
		}
	)

	BeforeEach(func() {
		fakeClient = fakeclient.NewClientBuilder().WithScheme(certfixerclient.ClusterScheme).Build()
		fakeRecorder = record.NewFakeRecorder(32)
		collector = &Collector{
			Client:   fakeClient,
			Recorder: common.NewDedupRecorder(fakeRecorder, time.Minute),
		}
	})

	AfterEach(func() {
		close(fakeRecorder.Events)
	})

	It("should return nothing if there are no ingresses", func() {
		hostnames, err := collector.Collect(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(hostnames).To(BeEmpty())
	})

	It("should return the hosts of a single ingress in rule order", func() {
		Expect(fakeClient.Create(ctx, newIngress("default", "web", "c.example.com", "a.example.com", "b.example.com"))).To(Succeed())

		hostnames, err := collector.Collect(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(hostnames).To(Equal([]string{"c.example.com", "a.example.com", "b.example.com"}))
		testutils.AssertNoEvents(fakeRecorder.Events)
	})

	It("should collect the hosts of all namespaces without deduplication", func() {
		Expect(fakeClient.Create(ctx, newIngress("default", "web", "a.example.com"))).To(Succeed())
		Expect(fakeClient.Create(ctx, newIngress("shop", "web", "shop.example.com", "a.example.com"))).To(Succeed())
		Expect(fakeClient.Create(ctx, newIngress("blog", "wildcard", "*.blog.example.com"))).To(Succeed())

		hostnames, err := collector.Collect(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(hostnames).To(ConsistOf("a.example.com", "a.example.com", "shop.example.com", "*.blog.example.com"))
	})

	It("should skip an ingress without rules and keep the well-formed one", func() {
		skipped := testutil.ToFloat64(metrics.SkippedIngressRules.WithLabelValues(ReasonMissingRules))
		Expect(fakeClient.Create(ctx, newIngress("default", "backend-only"))).To(Succeed())
		Expect(fakeClient.Create(ctx, newIngress("default", "web", "a.example.com"))).To(Succeed())

		hostnames, err := collector.Collect(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(hostnames).To(Equal([]string{"a.example.com"}))
		Expect(testutil.ToFloat64(metrics.SkippedIngressRules.WithLabelValues(ReasonMissingRules))).To(Equal(skipped + 1))
		testutils.AssertEvents(fakeRecorder.Events, "Warning MissingRules ingress has no rules")
	})

	It("should skip rules without host", func() {
		Expect(fakeClient.Create(ctx, newIngress("default", "web", "", "a.example.com", ""))).To(Succeed())

		hostnames, err := collector.Collect(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(hostnames).To(Equal([]string{"a.example.com"}))
		testutils.AssertEvents(fakeRecorder.Events,
			"Warning MissingHost rule 0 has no host",
			"Warning MissingHost rule 2 has no host",
		)
	})

	It("should skip hosts which would break the Corefile", func() {
		Expect(fakeClient.Create(ctx, newIngress("default", "web", "a.example.com", "bad..example.com"))).To(Succeed())

		hostnames, err := collector.Collect(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(hostnames).To(Equal([]string{"a.example.com"}))
		testutils.AssertEvents(fakeRecorder.Events, `Warning InvalidHost host "bad..example.com" of rule 1 is not a valid domain name`)
	})

	It("should not repeat warnings for the same ingress", func() {
		Expect(fakeClient.Create(ctx, newIngress("default", "backend-only"))).To(Succeed())

		for range 3 {
			_, err := collector.Collect(ctx)
			Expect(err).NotTo(HaveOccurred())
		}
		testutils.AssertEvents(fakeRecorder.Events, "Warning MissingRules ")
	})

	It("should work without event recorder", func() {
		collector.Recorder = nil
		Expect(fakeClient.Create(ctx, newIngress("default", "backend-only"))).To(Succeed())

		hostnames, err := collector.Collect(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(hostnames).To(BeEmpty())
	})

	It("should return list errors", func() {
		collector.Client = fakeclient.NewClientBuilder().
			WithScheme(certfixerclient.ClusterScheme).
			WithInterceptorFuncs(interceptor.Funcs{
				List: func(_ context.Context, _ client.WithWatch, _ client.ObjectList, _ ...client.ListOption) error {
					return fmt.Errorf("connection refused")
				},
			}).
			Build()

		_, err := collector.Collect(ctx)
		Expect(err).To(MatchError("failed listing ingresses: connection refused"))
	})
})
