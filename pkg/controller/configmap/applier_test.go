// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package configmap_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	fakeclient "sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	certfixerclient "github.com/gardener/cert-fixer/pkg/client"
	. "github.com/gardener/cert-fixer/pkg/controller/configmap"
	"github.com/gardener/cert-fixer/pkg/corefile"
	"github.com/gardener/cert-fixer/pkg/metrics"
	"github.com/gardener/cert-fixer/pkg/testutils"
)

var _ = Describe("Applier", func() {
	const (
		target   = "ingress.svc"
		document = ".:53 {\n    errors\n    cache 30\n}\n"
	)

	var (
		ctx          = context.Background()
		configMapKey = client.ObjectKey{Namespace: "kube-system", Name: "coredns"}

		fakeClient   client.Client
		fakeRecorder *record.FakeRecorder
		configMap    *corev1.ConfigMap
		applier      *Applier

		conflict = func() error {
			return apierrors.NewConflict(schema.GroupResource{Resource: "configmaps"}, configMapKey.Name, errors.New("the object has been modified"))
		}

		newApplier = func(c client.Client) *Applier {
			return &Applier{
				Client:          c,
				Recorder:        fakeRecorder,
				Namespace:       configMapKey.Namespace,
				Name:            configMapKey.Name,
				Key:             "Corefile",
				Target:          target,
				ConflictRetries: 3,
			}
		}

		currentCorefile = func() string {
			GinkgoHelper()
			cm := &corev1.ConfigMap{}
			Expect(fakeClient.Get(ctx, configMapKey, cm)).To(Succeed())
			return cm.Data["Corefile"]
		}
	)

	BeforeEach(func() {
		configMap = &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Namespace: configMapKey.Namespace,
				Name:      configMapKey.Name,
			},
			Data: map[string]string{"Corefile": document},
		}
		fakeRecorder = record.NewFakeRecorder(8)
	})

	JustBeforeEach(func() {
		if fakeClient == nil {
			fakeClient = fakeclient.NewClientBuilder().WithScheme(certfixerclient.ClusterScheme).WithObjects(configMap).Build()
		}
		applier = newApplier(fakeClient)
	})

	AfterEach(func() {
		fakeClient = nil
	})

	It("should write the managed entries", func() {
		result, err := applier.Apply(ctx, []string{"a.example.com", "b.example.com"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(Result{Changed: true, Entries: 2}))
		Expect(currentCorefile()).To(Equal(".:53 {\n" +
			"    rewrite name a.example.com ingress.svc  # Added by cert-fixer\n" +
			"    rewrite name b.example.com ingress.svc  # Added by cert-fixer\n" +
			"    errors\n" +
			"    cache 30\n" +
			"}\n"))
		testutils.AssertEvents(fakeRecorder.Events, "Normal CorefileUpdated Corefile updated with 2 rewrite entries")
	})

	It("should skip the update if the Corefile is up to date", func() {
		_, err := applier.Apply(ctx, []string{"a.example.com"})
		Expect(err).NotTo(HaveOccurred())
		testutils.AssertEvents(fakeRecorder.Events, "Normal CorefileUpdated ")

		before := &corev1.ConfigMap{}
		Expect(fakeClient.Get(ctx, configMapKey, before)).To(Succeed())

		result, err := applier.Apply(ctx, []string{"a.example.com"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(Result{Changed: false, Entries: 1}))

		after := &corev1.ConfigMap{}
		Expect(fakeClient.Get(ctx, configMapKey, after)).To(Succeed())
		Expect(after.ResourceVersion).To(Equal(before.ResourceVersion))
		testutils.AssertNoEvents(fakeRecorder.Events)
	})

	It("should remove all managed entries if there are no hostnames", func() {
		_, err := applier.Apply(ctx, []string{"a.example.com"})
		Expect(err).NotTo(HaveOccurred())

		result, err := applier.Apply(ctx, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(Result{Changed: true, Entries: 0}))
		Expect(currentCorefile()).To(Equal(document))
	})

	Context("config map is missing", func() {
		BeforeEach(func() {
			fakeClient = fakeclient.NewClientBuilder().WithScheme(certfixerclient.ClusterScheme).Build()
		})

		It("should return a missing error", func() {
			_, err := applier.Apply(ctx, []string{"a.example.com"})
			var missingErr *MissingError
			Expect(errors.As(err, &missingErr)).To(BeTrue())
			Expect(missingErr.Key).To(Equal(configMapKey))
			Expect(apierrors.IsNotFound(err)).To(BeTrue())
		})
	})

	Context("Corefile key is missing", func() {
		BeforeEach(func() {
			configMap.Data = map[string]string{"other": "value"}
		})

		It("should return a format error", func() {
			_, err := applier.Apply(ctx, []string{"a.example.com"})
			var formatErr *corefile.FormatError
			Expect(errors.As(err, &formatErr)).To(BeTrue())
			Expect(formatErr.Reason).To(ContainSubstring(`no data key "Corefile"`))
		})
	})

	Context("anchor is missing", func() {
		BeforeEach(func() {
			configMap.Data["Corefile"] = "example.org:53 {\n    errors\n}\n"
		})

		It("should return a format error and leave the config map untouched", func() {
			_, err := applier.Apply(ctx, []string{"a.example.com"})
			Expect(err).To(BeAssignableToTypeOf(&corefile.FormatError{}))
			Expect(currentCorefile()).To(Equal("example.org:53 {\n    errors\n}\n"))
			testutils.AssertNoEvents(fakeRecorder.Events)
		})
	})

	Context("config map is modified concurrently", func() {
		BeforeEach(func() {
			updates := 0
			fakeClient = fakeclient.NewClientBuilder().
				WithScheme(certfixerclient.ClusterScheme).
				WithObjects(configMap).
				WithInterceptorFuncs(interceptor.Funcs{
					Update: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.UpdateOption) error {
						updates++
						if updates == 1 {
							// a user edits the Corefile between our read and write
							edited := &corev1.ConfigMap{}
							if err := c.Get(ctx, configMapKey, edited); err != nil {
								return err
							}
							edited.Data["Corefile"] = ".:53 {\n    errors\n    log\n    cache 30\n}\n"
							if err := c.Update(ctx, edited); err != nil {
								return err
							}
						}
						return c.Update(ctx, obj, opts...)
					},
				}).
				Build()
		})

		It("should retry with the re-fetched document", func() {
			conflicts := testutil.ToFloat64(metrics.ConfigMapConflicts)

			result, err := applier.Apply(ctx, []string{"a.example.com"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Changed).To(BeTrue())
			Expect(currentCorefile()).To(Equal(".:53 {\n" +
				"    rewrite name a.example.com ingress.svc  # Added by cert-fixer\n" +
				"    errors\n" +
				"    log\n" +
				"    cache 30\n" +
				"}\n"))
			Expect(testutil.ToFloat64(metrics.ConfigMapConflicts)).To(Equal(conflicts + 1))
		})
	})

	Context("config map is always modified concurrently", func() {
		var updates int

		BeforeEach(func() {
			updates = 0
			fakeClient = fakeclient.NewClientBuilder().
				WithScheme(certfixerclient.ClusterScheme).
				WithObjects(configMap).
				WithInterceptorFuncs(interceptor.Funcs{
					Update: func(_ context.Context, _ client.WithWatch, _ client.Object, _ ...client.UpdateOption) error {
						updates++
						return conflict()
					},
				}).
				Build()
		})

		It("should give up after the configured number of attempts", func() {
			_, err := applier.Apply(ctx, []string{"a.example.com"})
			var conflictErr *ConflictError
			Expect(errors.As(err, &conflictErr)).To(BeTrue())
			Expect(conflictErr.Attempts).To(Equal(3))
			Expect(apierrors.IsConflict(err)).To(BeTrue())
			Expect(updates).To(Equal(3))
			Expect(currentCorefile()).To(Equal(document))
		})
	})

	Context("update fails", func() {
		BeforeEach(func() {
			fakeClient = fakeclient.NewClientBuilder().
				WithScheme(certfixerclient.ClusterScheme).
				WithObjects(configMap).
				WithInterceptorFuncs(interceptor.Funcs{
					Update: func(_ context.Context, _ client.WithWatch, _ client.Object, _ ...client.UpdateOption) error {
						return fmt.Errorf("connection reset by peer")
					},
				}).
				Build()
		})

		It("should return the error without retrying", func() {
			_, err := applier.Apply(ctx, []string{"a.example.com"})
			Expect(err).To(MatchError("failed updating config map kube-system/coredns: connection reset by peer"))
			Expect(err).NotTo(BeAssignableToTypeOf(&ConflictError{}))
		})
	})
})
