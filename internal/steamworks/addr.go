package steamworks

import (
	"encoding/binary"
	"net/netip"
	"strings"

	apperrors "github.com/louisbranch/steambridge/internal/platform/errors"
)

// ParseIPv4 converts a dotted IPv4 address into the host-order integer the
// vendor server init expects. An empty string means 0, every interface.
func ParseIPv4(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return 0, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			"ip must be an IPv4 address", map[string]string{"ip": s})
	}
	octets := addr.As4()
	return binary.BigEndian.Uint32(octets[:]), nil
}

// FormatIPv4 is the inverse of ParseIPv4.
func FormatIPv4(ip uint32) string {
	var octets [4]byte
	binary.BigEndian.PutUint32(octets[:], ip)
	return netip.AddrFrom4(octets).String()
}
