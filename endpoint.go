package iotstream

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ecotrack/iotstream/transport"
)

const DefaultOrigin = "http://localhost"

// ResolveURL builds the stream URL for path the way a page served from origin would:
// https becomes wss, http becomes ws, and the host comes from origin.
//
// If path is already an absolute URL only its scheme is mapped.
func ResolveURL(origin, path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("iotstream: invalid path: %w", err)
	}
	if ref.IsAbs() {
		ref.Scheme = streamScheme(ref.Scheme)
		return ref, nil
	}

	o, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("iotstream: invalid origin: %w", err)
	}
	scheme := streamScheme(o.Scheme)
	if scheme != "ws" && scheme != "wss" {
		return nil, fmt.Errorf("iotstream: origin %q: %w", origin, &transport.SchemeError{Scheme: o.Scheme, Supported: []string{"http", "https", "ws", "wss"}})
	}
	if o.Host == "" {
		return nil, fmt.Errorf("iotstream: origin %q has no host", origin)
	}

	p := ref.Path
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return &url.URL{
		Scheme:   scheme,
		Host:     o.Host,
		Path:     p,
		RawQuery: ref.RawQuery,
	}, nil
}

func streamScheme(scheme string) string {
	switch strings.ToLower(scheme) {
	case "https", "wss":
		return "wss"
	case "http", "ws":
		return "ws"
	}
	return scheme
}
