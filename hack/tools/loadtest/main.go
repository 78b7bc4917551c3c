// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0
//
//
// This small tool creates a given number of ingresses to load test the Corefile reconciliation:
//
// Usage:
//	go run main.go
//
//  Command line options:
//     -base-domain string
//     		base domain for the ingress hosts (mandatory)
//     -count int
//     		number of ingresses to create (default 10)
//     -hosts int
//     		number of rules per ingress (default 1)
//     -namespace string
//     		namespace of the ingresses (default "default")
//     -kubeconfig string
//     		absolute path to the kubeconfig file (defaults to the env variable `KUBECONFIG`)
//     -label string
//     		label value for label 'loadtest' to set on the ingresses (default "true")
//
// You may use `kubectl delete ingress -A -l loadtest=<label-value>` to delete them all at once.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gardener/gardener/pkg/controllerutils"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	certfixerclient "github.com/gardener/cert-fixer/pkg/client"
)

var (
	kubeconfig string
	baseDomain string
	namespace  string
	labelValue string
	count      int
	hosts      int
)

func main() {
	flag.StringVar(&kubeconfig, "kubeconfig", os.Getenv("KUBECONFIG"), "absolute path to the kubeconfig file")
	flag.IntVar(&count, "count", 10, "number of ingresses to create")
	flag.IntVar(&hosts, "hosts", 1, "number of rules per ingress")
	flag.StringVar(&baseDomain, "base-domain", "", "base domain for the ingress hosts")
	flag.StringVar(&namespace, "namespace", "default", "namespace of the ingresses")
	flag.StringVar(&labelValue, "label", "true", "label value for label 'loadtest' to set on the ingresses")
	flag.Parse()

	if baseDomain == "" {
		fmt.Fprintf(os.Stderr, "-base-domain is required\n")
		os.Exit(1)
	}

	c, err := createClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create client: %s\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	fmt.Fprintf(os.Stdout, "Creating %d ingresses with %d hosts each - please wait\n", count, hosts)

	if err := createIngresses(ctx, c, count, "i%05d", baseDomain, "loadtest", labelValue); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create ingresses: %s\n", err)
		os.Exit(2)
	}

	fmt.Fprintf(os.Stdout, "Done - all %d ingresses created\n", count)
}

func createIngresses(ctx context.Context, c client.Client, count int, nameTemplate, baseDomain, labelKey, labelValue string) error {
	for i := 0; i < count; i++ {
		name := fmt.Sprintf(nameTemplate, i)
		ingress := &networkingv1.Ingress{
			ObjectMeta: metav1.ObjectMeta{
				Namespace: namespace,
				Name:      name,
			},
		}
		if _, err := controllerutils.CreateOrGetAndMergePatch(ctx, c, ingress, func() error {
			ingress.Labels = map[string]string{
				labelKey: labelValue,
			}
			ingress.Spec = networkingv1.IngressSpec{
				IngressClassName: ptr.To("nginx"),
			}
			for h := 0; h < hosts; h++ {
				ingress.Spec.Rules = append(ingress.Spec.Rules, networkingv1.IngressRule{
					Host: fmt.Sprintf("h%d.%s.%s", h, name, baseDomain),
				})
			}
			return nil
		}); err != nil {
			return fmt.Errorf("failed to create/update ingress %s: %w", ingress.Name, err)
		}
		if i > 0 && i%100 == 0 {
			fmt.Fprintf(os.Stdout, "%d/%d ingresses created...\n", i, count)
		}
	}

	return nil
}

func createClient() (client.Client, error) {
	if kubeconfig == "" {
		return nil, fmt.Errorf("-kubeconfig or KUBECONFIG env var is required")
	}

	cfg, err := clientcmd.LoadFromFile(kubeconfig)
	if err != nil {
		return nil, err
	}
	clientConfig := clientcmd.NewDefaultClientConfig(*cfg, &clientcmd.ConfigOverrides{})
	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, err
	}

	return client.New(restConfig, client.Options{Scheme: certfixerclient.ClusterScheme})
}
