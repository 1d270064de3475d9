package serverutils

import (
	"fmt"
	"net"
	"strconv"
)

// ResolvePort returns the configured port, or probes upward from probeFrom
// for a free one when no port is configured. The listener is closed again
// before returning; the short race until the server binds is acceptable for
// local and single-instance deployments.
func ResolvePort(configured string, probeFrom int) (string, error) {
	if configured != "" {
		return configured, nil
	}
	for port := probeFrom; port < probeFrom+100; port++ {
		ln, err := net.Listen("tcp", ":"+strconv.Itoa(port))
		if err != nil {
			continue
		}
		ln.Close()
		return strconv.Itoa(port), nil
	}
	return "", fmt.Errorf("no free port found in range %d-%d", probeFrom, probeFrom+99)
}
