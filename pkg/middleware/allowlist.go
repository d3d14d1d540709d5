package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/fredhutch/github-org-manager/pkg/logger"
)

const forwardedForHeader = "X-Forwarded-For"

// CallerIP resolves the IP address a request came from. A forwarded-for
// header takes precedence over the socket address. A forwarded value listing
// more than one hop cannot be trusted and is rejected outright.
func CallerIP(r *http.Request) (string, error) {
	forwarded := r.Header.Get(forwardedForHeader)
	if forwarded != "" {
		if strings.Contains(forwarded, ",") {
			return "", fmt.Errorf("multiple addresses in %s header: %q", forwardedForHeader, forwarded)
		}
		return strings.TrimSpace(forwarded), nil
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr, nil
	}

	return host, nil
}

// RequireApprovedIP Blocks membership-mutating requests from callers outside
// the approved set. The original tooling answered these with a 500 and an
// "unknown ip" status string, and operators grep for that, so the shape is
// kept.
func RequireApprovedIP(approved []string, log logger.Logger) func(next http.Handler) http.Handler {
	approvedSet := make(map[string]bool, len(approved))
	for _, ip := range approved {
		approvedSet[strings.TrimSpace(ip)] = true
	}

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ip, err := CallerIP(r)
			if err != nil {
				log.Warnf("rejecting mutating request: %s", err)
				respondStatus(w, http.StatusBadRequest, err.Error())
				return
			}

			if !approvedSet[ip] {
				log.Warnf("rejecting mutating request from unknown ip %s", ip)
				respondStatus(w, http.StatusInternalServerError, fmt.Sprintf("unknown ip %s, not allowed to modify organization membership", ip))
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

func respondStatus(w http.ResponseWriter, code int, status interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": status})
}
