package router

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

var clientIPHeaders = []string{"X-Forwarded-For", "X-Real-IP", "Client-IP"}

// ClientIP первый публичный адрес из заголовков прокси, иначе адрес соединения.
func ClientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		for _, candidate := range strings.Split(r.Header.Get(header), ",") {
			addr, err := netip.ParseAddr(strings.TrimSpace(candidate))
			if err != nil {
				continue
			}
			if isPublic(addr) {
				return addr.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isPublic(addr netip.Addr) bool {
	return addr.IsGlobalUnicast() && !addr.IsPrivate()
}
