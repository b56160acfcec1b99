package classifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// checkProxyTimeout is the timeout for the SOCKS5 handshake check.
const checkProxyTimeout = 2 * time.Second

// SOCKS5 protocol constants
const (
	socks5Version       = 0x05
	socks5AuthNone      = 0x00
	socks5AuthNoAccept  = 0xFF
	socks5CmdConnect    = 0x01
	socks5AddrTypeDomID = 0x03
)

// isValidProxyAddress checks if the address is in valid "host:port" format.
// The format is very specific (no scheme, no path, just host and port).
func isValidProxyAddress(address string) bool {
	parts := strings.Split(address, ":")
	if len(parts) != 2 {
		return false
	}

	host := parts[0]
	port := parts[1]

	if host == "" || port == "" {
		return false
	}

	portNum := 0
	for _, c := range port {
		if c < '0' || c > '9' {
			return false
		}
		portNum = portNum*10 + int(c-'0')
		if portNum > 65535 {
			return false
		}
	}

	return portNum >= 1
}

// newProxyTransport returns an http.Transport that dials through the
// SOCKS5 proxy at proxyAddress.
func newProxyTransport(proxyAddress string) (*http.Transport, error) {
	if !isValidProxyAddress(proxyAddress) {
		return nil, ErrInvalidProxyAddress
	}

	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	transport.Proxy = nil
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		transport.DialContext = cd.DialContext
	} else {
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}
	transport.MaxIdleConns = 10
	transport.MaxIdleConnsPerHost = 2
	transport.IdleConnTimeout = 30 * time.Second

	return transport, nil
}

// CheckProxy verifies that the proxy at proxyAddress speaks unauthenticated
// SOCKS5 and accepts a CONNECT request for target ("host:port").
//
// The check performs the SOCKS5 handshake by hand so that a plain HTTP
// server listening on the proxy port is reported as ProxyStatusWrongType
// instead of failing later with a confusing request error.
func CheckProxy(ctx context.Context, proxyAddress, target string) ProxyStatus {
	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", proxyAddress)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}

	// Greeting: version + one method (no auth).
	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	authResp := make([]byte, 2)
	if _, err := io.ReadFull(conn, authResp); err != nil {
		if isTimeout(err) {
			return ProxyStatusTimeout
		}
		return ProxyStatusWrongType
	}
	if authResp[0] != socks5Version || authResp[1] == socks5AuthNoAccept || authResp[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}

	host, portStr, err := net.SplitHostPort(target)
	if err != nil || len(host) > 255 {
		return ProxyStatusWrongType
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return ProxyStatusWrongType
	}

	// CONNECT: version + cmd + reserved + addr type + addr + port.
	connectReq := []byte{socks5Version, socks5CmdConnect, 0x00, socks5AddrTypeDomID, byte(len(host))}
	connectReq = append(connectReq, []byte(host)...)
	connectReq = append(connectReq, byte(port>>8), byte(port&0xFF))
	if _, err := conn.Write(connectReq); err != nil {
		return ProxyStatusCannotConnect
	}

	// Any reply code proves the proxy processed the request; an unreachable
	// target is reported later by the real request.
	connectResp := make([]byte, 4)
	if _, err := io.ReadFull(conn, connectResp); err != nil {
		if isTimeout(err) {
			return ProxyStatusTimeout
		}
		return ProxyStatusWrongType
	}
	if connectResp[0] != socks5Version {
		return ProxyStatusWrongType
	}

	return ProxyStatusOK
}

// isTimeout reports whether err is a deadline error.
func isTimeout(err error) bool {
	var ne net.Error
	return errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout())
}
