// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package corefile

import (
	"fmt"
	"strings"
)

const (
	// Anchor is the token identifying the line after which managed entries are inserted.
	Anchor = ".:53 {"
	// Marker is the suffix identifying lines owned by cert-fixer.
	Marker = "# Added by cert-fixer"

	indent = "    "
)

// FormatError is returned if a Corefile cannot be patched because of its structure.
type FormatError struct {
	// Reason describes what is wrong with the document.
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid corefile: %s", e.Reason)
}

// ManagedEntry returns the rewrite line for the given hostname and target.
func ManagedEntry(hostname, target string) string {
	return fmt.Sprintf("%srewrite name %s %s  %s", indent, hostname, target, Marker)
}

// IsManaged returns true if the line was generated by cert-fixer, i.e. it ends with the marker.
// Trailing whitespace is ignored.
func IsManaged(line string) bool {
	return strings.HasSuffix(strings.TrimRight(line, " \t\r"), Marker)
}

// Patch replaces the managed block of the given Corefile document with one rewrite entry per hostname.
// All previously managed lines are dropped, user authored lines keep their relative order.
// The new entries are inserted directly after the first line containing the anchor token.
// Hostnames are neither sorted nor deduplicated.
func Patch(document string, hostnames []string, target string) (string, error) {
	lines := splitLines(document)

	kept := make([]string, 0, len(lines)+len(hostnames))
	for _, line := range lines {
		if !IsManaged(line) {
			kept = append(kept, line)
		}
	}

	anchor := -1
	for i, line := range kept {
		if strings.Contains(line, Anchor) {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return "", &FormatError{Reason: fmt.Sprintf("no line containing %q found", Anchor)}
	}

	result := make([]string, 0, len(kept)+len(hostnames))
	result = append(result, kept[:anchor+1]...)
	for _, hostname := range hostnames {
		result = append(result, ManagedEntry(hostname, target))
	}
	result = append(result, kept[anchor+1:]...)

	var sb strings.Builder
	for _, line := range result {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// ManagedHostnames returns the hostnames of all managed rewrite entries in document order.
func ManagedHostnames(document string) []string {
	var hostnames []string
	for _, line := range splitLines(document) {
		if !IsManaged(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 3 && fields[0] == "rewrite" && fields[1] == "name" {
			hostnames = append(hostnames, fields[2])
		}
	}
	return hostnames
}

func splitLines(document string) []string {
	if document == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(document, "\n"), "\n")
}
