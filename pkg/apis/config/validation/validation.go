// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"slices"
	"strings"

	"github.com/gardener/gardener/pkg/logger"
	"github.com/miekg/dns"
	"k8s.io/apimachinery/pkg/labels"
	apivalidation "k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/utils/ptr"

	"github.com/gardener/cert-fixer/pkg/apis/config/v1alpha1"
)

var (
	supportedLogLevels  = []string{logger.DebugLevel, logger.InfoLevel, logger.ErrorLevel}
	supportedLogFormats = []string{logger.FormatJSON, logger.FormatText}
)

// ValidateCertFixerConfiguration validates the given defaulted configuration.
func ValidateCertFixerConfiguration(cfg *v1alpha1.CertFixerConfiguration) field.ErrorList {
	allErrs := field.ErrorList{}

	if !slices.Contains(supportedLogLevels, cfg.LogLevel) {
		allErrs = append(allErrs, field.NotSupported(field.NewPath("logLevel"), cfg.LogLevel, supportedLogLevels))
	}
	if !slices.Contains(supportedLogFormats, cfg.LogFormat) {
		allErrs = append(allErrs, field.NotSupported(field.NewPath("logFormat"), cfg.LogFormat, supportedLogFormats))
	}

	allErrs = append(allErrs, ValidateIngressService(cfg.IngressService, field.NewPath("ingressService"))...)
	allErrs = append(allErrs, validateServer(cfg.Server.HealthProbes, field.NewPath("server", "healthProbes"))...)
	allErrs = append(allErrs, validateServer(cfg.Server.Metrics, field.NewPath("server", "metrics"))...)
	allErrs = append(allErrs, validateCoreDNS(&cfg.CoreDNS, field.NewPath("coreDNS"))...)
	allErrs = append(allErrs, validateCorefileController(&cfg.Controllers.Corefile, field.NewPath("controllers", "corefile"))...)
	allErrs = append(allErrs, validateWatchController(&cfg.Controllers.Watch, field.NewPath("controllers", "watch"))...)

	return allErrs
}

// ValidateIngressService validates the rewrite target. It must be a single token domain name,
// as it is written verbatim into the Corefile.
func ValidateIngressService(target string, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}

	if target == "" {
		return append(allErrs, field.Required(fldPath, "rewrite target must be set"))
	}
	if strings.ContainsAny(target, " \t\r\n#") {
		allErrs = append(allErrs, field.Invalid(fldPath, target, "must not contain whitespace or comment characters"))
	} else if _, ok := dns.IsDomainName(target); !ok {
		allErrs = append(allErrs, field.Invalid(fldPath, target, "must be a valid domain name"))
	}
	return allErrs
}

func validateServer(server *v1alpha1.Server, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}

	if server == nil {
		return allErrs
	}
	for _, msg := range apivalidation.IsValidPortNum(server.Port) {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("port"), server.Port, msg))
	}
	return allErrs
}

func validateCoreDNS(cfg *v1alpha1.CoreDNSConfiguration, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}

	for _, msg := range apivalidation.IsDNS1123Label(cfg.Namespace) {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("namespace"), cfg.Namespace, msg))
	}
	for _, msg := range apivalidation.IsDNS1123Subdomain(cfg.ConfigMapName) {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("configMapName"), cfg.ConfigMapName, msg))
	}
	for _, msg := range apivalidation.IsConfigMapKey(cfg.CorefileKey) {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("corefileKey"), cfg.CorefileKey, msg))
	}
	if cfg.PodLabelSelector == "" {
		allErrs = append(allErrs, field.Required(fldPath.Child("podLabelSelector"), "an empty selector would restart all pods of the namespace"))
	} else if _, err := labels.Parse(cfg.PodLabelSelector); err != nil {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("podLabelSelector"), cfg.PodLabelSelector, err.Error()))
	}
	return allErrs
}

func validateCorefileController(cfg *v1alpha1.CorefileControllerConfig, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}

	if retries := ptr.Deref(cfg.ConflictRetries, 0); retries < 1 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("conflictRetries"), retries, "must be at least 1"))
	}
	if cfg.ReconciliationTimeout == nil || cfg.ReconciliationTimeout.Duration <= 0 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("reconciliationTimeout"), cfg.ReconciliationTimeout, "must be positive"))
	}
	return allErrs
}

func validateWatchController(cfg *v1alpha1.WatchControllerConfig, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}

	if cfg.InitialBackoff == nil || cfg.InitialBackoff.Duration <= 0 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("initialBackoff"), cfg.InitialBackoff, "must be positive"))
	}
	if cfg.MaxBackoff == nil || cfg.MaxBackoff.Duration <= 0 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("maxBackoff"), cfg.MaxBackoff, "must be positive"))
	} else if cfg.InitialBackoff != nil && cfg.MaxBackoff.Duration < cfg.InitialBackoff.Duration {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("maxBackoff"), cfg.MaxBackoff, "must not be smaller than initialBackoff"))
	}
	if factor := ptr.Deref(cfg.BackoffFactor, 0); factor < 1 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("backoffFactor"), factor, "must be at least 1"))
	}
	if jitter := ptr.Deref(cfg.BackoffJitter, 0); jitter < 0 || jitter > 1 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("backoffJitter"), jitter, "must be between 0 and 1"))
	}
	return allErrs
}
