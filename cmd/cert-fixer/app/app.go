// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	goruntime "runtime"
	"strconv"
	"time"

	cmdutils "github.com/gardener/gardener/cmd/utils/initrun"
	"github.com/gardener/gardener/pkg/client/kubernetes"
	"github.com/gardener/gardener/pkg/controllerutils/routes"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/component-base/version/verflag"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
	"sigs.k8s.io/yaml"

	"github.com/gardener/cert-fixer/pkg/apis/config/v1alpha1"
	"github.com/gardener/cert-fixer/pkg/apis/config/validation"
	certfixerclient "github.com/gardener/cert-fixer/pkg/client"
	"github.com/gardener/cert-fixer/pkg/controller/common"
	"github.com/gardener/cert-fixer/pkg/controller/reconciler"
	"github.com/gardener/cert-fixer/pkg/controller/watcher"
)

const (
	// Name is the name of the cert-fixer.
	Name = "cert-fixer"
	// IngressServiceEnv is the environment variable overwriting the rewrite target.
	IngressServiceEnv = "INGRESS_SERVICE"

	eventDeduplicationTTL = 5 * time.Minute
)

// NewCommand returns a new cert-fixer command.
func NewCommand() *cobra.Command {
	o := newOptions()
	cmd := &cobra.Command{
		Use:   Name,
		Short: "Launch the " + Name,
		Long: Name + " rewrites the hostnames of all ingresses to the ingress controller service in the CoreDNS " +
			"configuration, so that in-cluster clients reach the ingress controller directly.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := cmdutils.InitRun(cmd, o, Name)
			if err != nil {
				return err
			}

			if err := o.run(cmd.Context(), log); err != nil {
				log.Error(err, "Launching "+Name+" failed")
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	o.addFlags(flags)
	verflag.AddFlags(flags)

	return cmd
}

// options is a struct to support packages command.
type options struct {
	configFile string
	verbose    bool
	config     *v1alpha1.CertFixerConfiguration
}

// newOptions returns initialized options.
func newOptions() *options {
	return &options{}
}

// addFlags binds the command options to a given flagset.
func (o *options) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.configFile, "config", o.configFile, "Path to configuration file. Defaults are used if not set.")
	flags.BoolVar(&o.verbose, "v", o.verbose, "If true, overwrites log level in config with value 'debug'.")
}

// Complete loads and defaults the configuration and applies the environment overrides.
func (o *options) Complete() error {
	o.config = &v1alpha1.CertFixerConfiguration{}

	if len(o.configFile) > 0 {
		data, err := os.ReadFile(o.configFile)
		if err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		if err := runtime.DecodeInto(certfixerclient.ConfigDecoder, data, o.config); err != nil {
			return fmt.Errorf("error decoding config: %w", err)
		}
	} else {
		certfixerclient.ConfigScheme.Default(o.config)
	}

	if target := os.Getenv(IngressServiceEnv); target != "" {
		o.config.IngressService = target
	}
	return nil
}

// Validate validates the provided command options.
func (o *options) Validate() error {
	if errs := validation.ValidateCertFixerConfiguration(o.config); len(errs) > 0 {
		return errs.ToAggregate()
	}
	return nil
}

// LogConfig returns the logging config.
func (o *options) LogConfig() (logLevel, logFormat string) {
	logLevel = o.config.LogLevel
	logFormat = o.config.LogFormat
	if o.verbose {
		logLevel = "debug"
	}
	return
}

// run does the actual work of the command.
func (o *options) run(ctx context.Context, log logr.Logger) error {
	cfg := o.config

	if data, err := yaml.Marshal(cfg); err == nil {
		log.V(1).Info("Effective configuration\n" + string(data))
	}
	log.Info("Using rewrite target", "ingressService", cfg.IngressService)

	log.Info("Getting rest config")
	if cfg.ClientConnection.Kubeconfig == "" {
		if kubeconfig := os.Getenv("KUBECONFIG"); kubeconfig != "" {
			log.Info("Using kubeconfig from environment variable KUBECONFIG", "KUBECONFIG", kubeconfig)
			cfg.ClientConnection.Kubeconfig = kubeconfig
		} else {
			log.Info("No kubeconfig specified, assuming in-cluster configuration")
		}
	}

	restConfig, err := kubernetes.RESTConfigFromClientConnectionConfiguration(&cfg.ClientConnection.ClientConnectionConfiguration, nil, kubernetes.AuthTokenFile)
	if err != nil {
		return err
	}

	log.Info("Creating client")
	c, err := client.NewWithWatch(restConfig, client.Options{Scheme: certfixerclient.ClusterScheme})
	if err != nil {
		return fmt.Errorf("could not create client: %w", err)
	}
	if err := checkConnectivity(ctx, c); err != nil {
		return err
	}

	var extraHandlers map[string]http.Handler
	if cfg.Debugging != nil && cfg.Debugging.EnableProfiling {
		extraHandlers = routes.ProfilingHandlers
		if cfg.Debugging.EnableContentionProfiling {
			goruntime.SetBlockProfileRate(1)
		}
	}

	log.Info("Setting up manager")
	mgr, err := manager.New(restConfig, manager.Options{
		Logger:                  log,
		Scheme:                  certfixerclient.ClusterScheme,
		GracefulShutdownTimeout: ptr.To(5 * time.Second),

		HealthProbeBindAddress: net.JoinHostPort(cfg.Server.HealthProbes.BindAddress, strconv.Itoa(cfg.Server.HealthProbes.Port)),
		Metrics: metricsserver.Options{
			BindAddress:   net.JoinHostPort(cfg.Server.Metrics.BindAddress, strconv.Itoa(cfg.Server.Metrics.Port)),
			ExtraHandlers: extraHandlers,
		},

		LeaderElection:                ptr.Deref(cfg.LeaderElection.LeaderElect, false),
		LeaderElectionResourceLock:    cfg.LeaderElection.ResourceLock,
		LeaderElectionID:              cfg.LeaderElection.ResourceName,
		LeaderElectionNamespace:       cfg.LeaderElection.ResourceNamespace,
		LeaderElectionReleaseOnCancel: true,
		LeaseDuration:                 &cfg.LeaderElection.LeaseDuration.Duration,
		RenewDeadline:                 &cfg.LeaderElection.RenewDeadline.Duration,
		RetryPeriod:                   &cfg.LeaderElection.RetryPeriod.Duration,
	})
	if err != nil {
		return err
	}

	if err := mgr.AddHealthzCheck("ping", healthz.Ping); err != nil {
		return err
	}

	recorder := common.NewDedupRecorder(mgr.GetEventRecorderFor(Name), eventDeduplicationTTL)
	r, err := reconciler.New(c, recorder, cfg)
	if err != nil {
		return fmt.Errorf("failed creating reconciler: %w", err)
	}

	if err := (&watcher.Watcher{
		Client:                c,
		Reconciler:            r,
		Config:                cfg.Controllers.Watch,
		ReconciliationTimeout: cfg.Controllers.Corefile.ReconciliationTimeout.Duration,
	}).AddToManager(mgr); err != nil {
		return fmt.Errorf("failed adding ingress watcher: %w", err)
	}

	log.Info("Starting manager")
	return mgr.Start(ctx)
}

// checkConnectivity fails if the API server cannot be reached or ingresses cannot be listed.
func checkConnectivity(ctx context.Context, c client.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := c.List(ctx, &networkingv1.IngressList{}, client.Limit(1)); err != nil {
		return fmt.Errorf("cannot list ingresses, check API server connectivity and permissions: %w", err)
	}
	return nil
}
