package tg

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/larriantoniy/pethome_bot/internal/config"
)

const dialTimeout = 5 * time.Second

func isIPv6Literal(host string) bool {
	ip := net.ParseIP(host)
	return ip != nil && ip.To4() == nil // есть IP и это не IPv4 → IPv6
}

// CheckEndpoint dials host:port once and reports the result. IPv6 is tried
// first for hostnames, then IPv4.
func CheckEndpoint(logger *slog.Logger, name, host, port string) error {
	addr := net.JoinHostPort(host, port)

	if ip := net.ParseIP(host); ip != nil {
		network := "tcp4"
		if isIPv6Literal(host) {
			network = "tcp6"
		}
		return dial(logger, name, network, addr)
	}

	if err := dial(logger, name, "tcp6", addr); err == nil {
		return nil
	}
	return dial(logger, name, "tcp4", addr)
}

func dial(logger *slog.Logger, name, network, addr string) error {
	conn, err := net.DialTimeout(network, addr, dialTimeout)
	if err != nil {
		logger.Warn(name+" unreachable", "network", network, "addr", addr, "error", err)
		return fmt.Errorf("%s %s unreachable: %w", name, addr, err)
	}
	_ = conn.Close()
	logger.Info(name+" reachable", "network", network, "addr", addr)
	return nil
}

func checkProxy(logger *slog.Logger, proxy config.ProxyConfig) {
	if !proxy.Enabled {
		logger.Info("proxy disabled, skipping check")
		return
	}
	_ = CheckEndpoint(logger, "proxy", proxy.Server, strconv.Itoa(int(proxy.Port)))
}
