// SPDX-FileCopyrightText: SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/miekg/dns"
)

const (
	defaultTimeout time.Duration = 5 * time.Second
)

// DNSClient queries a single DNS server.
type DNSClient struct {
	server string
	client *dns.Client
}

// NewDNSClient creates a client for the given server address. A missing port defaults to 53.
func NewDNSClient(server string) *DNSClient {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	return &DNSClient{
		server: server,
		client: &dns.Client{ReadTimeout: defaultTimeout},
	}
}

// LookupHost returns the sorted A record addresses of the given name.
func (c *DNSClient) LookupHost(name string) ([]string, error) {
	response, err := c.lookup(dns.Fqdn(name), dns.TypeA)
	if err != nil {
		return nil, err
	}

	ips := []string{}
	for _, answer := range response.Answer {
		if a, ok := answer.(*dns.A); ok {
			ips = append(ips, a.A.String())
		}
	}
	slices.Sort(ips)
	return ips, nil
}

func (c *DNSClient) lookup(name string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(name, qtype)
	r, _, err := c.client.Exchange(msg, c.server)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("lookup of %s failed", name)
	}
	if r.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("lookup of %s failed with rcode %s", name, dns.RcodeToString[r.Rcode])
	}
	return r, nil
}
