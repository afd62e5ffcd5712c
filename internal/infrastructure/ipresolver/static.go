package ipresolver

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/lite-lake/tenten-ddns/internal/domain"
)

// Static resolves to an address given on the command line. IPv4-mapped
// IPv6 addresses are reduced to their IPv4 form.
type Static string

func (s Static) Resolve(context.Context) (string, error) {
	addr, err := netip.ParseAddr(string(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidIP, string(s))
	}
	return addr.Unmap().String(), nil
}

// IsIPv4 reports whether ip is an IPv4 address, the only family an A
// record can hold.
func IsIPv4(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	return err == nil && addr.Unmap().Is4()
}
