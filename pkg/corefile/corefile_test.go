// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package corefile_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/gardener/cert-fixer/pkg/corefile"
)

var _ = Describe("Corefile", func() {
	const (
		target = "ctl.svc"

		defaultCorefile = `.:53 {
    errors
    health {
       lameduck 5s
    }
    ready
    kubernetes cluster.local in-addr.arpa ip6.arpa {
       pods insecure
       fallthrough in-addr.arpa ip6.arpa
       ttl 30
    }
    prometheus :9153
    forward . /etc/resolv.conf {
       max_concurrent 1000
    }
    cache 30
    loop
    reload
    loadbalance
}
`
	)

	Describe("#ManagedEntry", func() {
		It("should render the exact line format", func() {
			Expect(ManagedEntry("a.example.com", target)).To(Equal("    rewrite name a.example.com ctl.svc  # Added by cert-fixer"))
		})
	})

	Describe("#Patch", func() {
		It("should insert the managed block directly after the anchor", func() {
			result, err := Patch(".:53 {\n    log\n}\n", []string{"a.example.com", "b.example.com"}, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(".:53 {\n" +
				"    rewrite name a.example.com ctl.svc  # Added by cert-fixer\n" +
				"    rewrite name b.example.com ctl.svc  # Added by cert-fixer\n" +
				"    log\n" +
				"}\n"))
		})

		It("should be idempotent", func() {
			hostnames := []string{"a.example.com", "b.example.com", "c.example.com"}
			once, err := Patch(defaultCorefile, hostnames, target)
			Expect(err).NotTo(HaveOccurred())
			twice, err := Patch(once, hostnames, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(twice).To(Equal(once))
		})

		It("should be idempotent for documents without trailing newline", func() {
			once, err := Patch(".:53 {\n}", []string{"a.example.com"}, target)
			Expect(err).NotTo(HaveOccurred())
			twice, err := Patch(once, []string{"a.example.com"}, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(twice).To(Equal(once))
			Expect(once).To(Equal(".:53 {\n    rewrite name a.example.com ctl.svc  # Added by cert-fixer\n}\n"))
		})

		It("should drop stale entries and keep the new input order", func() {
			old, err := Patch(defaultCorefile, []string{"a.example.com", "b.example.com"}, target)
			Expect(err).NotTo(HaveOccurred())

			result, err := Patch(old, []string{"c.example.com", "b.example.com"}, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(ManagedHostnames(result)).To(Equal([]string{"c.example.com", "b.example.com"}))
			Expect(result).NotTo(ContainSubstring("a.example.com"))

			expected, err := Patch(defaultCorefile, []string{"c.example.com", "b.example.com"}, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(expected))
		})

		It("should remove all managed entries for empty input", func() {
			old, err := Patch(defaultCorefile, []string{"a.example.com", "b.example.com"}, target)
			Expect(err).NotTo(HaveOccurred())

			result, err := Patch(old, nil, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(defaultCorefile))
			Expect(ManagedHostnames(result)).To(BeEmpty())
		})

		It("should not deduplicate hostnames", func() {
			result, err := Patch(defaultCorefile, []string{"a.example.com", "a.example.com"}, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(ManagedHostnames(result)).To(Equal([]string{"a.example.com", "a.example.com"}))
		})

		It("should remove managed entries wherever they are located", func() {
			document := "# header  # Added by cert-fixer\n" +
				".:53 {\n" +
				"    errors\n" +
				"    rewrite name old.example.com other.svc  # Added by cert-fixer\n" +
				"}\n"
			result, err := Patch(document, []string{"new.example.com"}, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(".:53 {\n" +
				"    rewrite name new.example.com ctl.svc  # Added by cert-fixer\n" +
				"    errors\n" +
				"}\n"))
		})

		It("should only use the first anchor line", func() {
			document := ".:53 {\n    errors\n}\n.:53 {\n    log\n}\n"
			result, err := Patch(document, []string{"a.example.com"}, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Split(result, "\n")).To(Equal([]string{
				".:53 {",
				"    rewrite name a.example.com ctl.svc  # Added by cert-fixer",
				"    errors",
				"}",
				".:53 {",
				"    log",
				"}",
				"",
			}))
		})

		It("should keep user lines with their original order and whitespace", func() {
			document := "example.org:53 {\n\tforward . 8.8.8.8\n}\n\n.:53 {\n  errors\n\n  cache 30\n}\n"
			result, err := Patch(document, []string{"x.example.com"}, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal("example.org:53 {\n\tforward . 8.8.8.8\n}\n\n.:53 {\n" +
				"    rewrite name x.example.com ctl.svc  # Added by cert-fixer\n" +
				"  errors\n\n  cache 30\n}\n"))
		})

		It("should keep user lines mentioning the marker in the middle", func() {
			document := ".:53 {\n" +
				"    # Added by cert-fixer lines below are generated\n" +
				"    errors\n" +
				"}\n"
			result, err := Patch(document, []string{"a.example.com"}, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(".:53 {\n" +
				"    rewrite name a.example.com ctl.svc  # Added by cert-fixer\n" +
				"    # Added by cert-fixer lines below are generated\n" +
				"    errors\n" +
				"}\n"))

			again, err := Patch(result, nil, target)
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(document))
		})

		It("should fail with a format error if the anchor is missing", func() {
			_, err := Patch("example.org:53 {\n    errors\n}\n", []string{"a.example.com"}, target)
			Expect(err).To(HaveOccurred())
			var formatErr *FormatError
			Expect(err).To(BeAssignableToTypeOf(formatErr))
			Expect(err.Error()).To(ContainSubstring(`no line containing ".:53 {" found`))
		})

		It("should fail with a format error for an empty document", func() {
			_, err := Patch("", nil, target)
			Expect(err).To(BeAssignableToTypeOf(&FormatError{}))
		})
	})

	Describe("#IsManaged", func() {
		DescribeTable("should only match lines ending with the marker",
			func(line string, managed bool) {
				Expect(IsManaged(line)).To(Equal(managed))
			},
			Entry("generated entry", ManagedEntry("a.example.com", target), true),
			Entry("trailing whitespace", ManagedEntry("a.example.com", target)+" \t", true),
			Entry("carriage return", ManagedEntry("a.example.com", target)+"\r", true),
			Entry("marker in the middle", "    # Added by cert-fixer is not a plugin, keep this line", false),
			Entry("user line", "    rewrite name user.example.com ctl.svc", false),
		)
	})

	Describe("#ManagedHostnames", func() {
		It("should ignore user authored rewrite rules", func() {
			document := ".:53 {\n" +
				"    rewrite name a.example.com ctl.svc  # Added by cert-fixer\n" +
				"    rewrite name user.example.com ctl.svc\n" +
				"}\n"
			Expect(ManagedHostnames(document)).To(Equal([]string{"a.example.com"}))
		})
	})
})
