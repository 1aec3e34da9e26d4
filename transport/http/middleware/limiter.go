package middleware

import (
	"guesthouse/shared"
	"guesthouse/shared/constant"
	"guesthouse/transport/http/response"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"

	headerRetryAfter = "Retry-After"
)

// RateLimit counts requests per client address and user agent in a fixed
// window. A cache outage lets traffic through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	settings := a.config.App.RateLimiter

	return func(next http.Handler) http.Handler {
		if !settings.Enable {
			return next
		}

		limit := strconv.Itoa(settings.MaxRequests)
		window := strconv.Itoa(settings.WindowSeconds)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := shared.BuildCacheKey(cacheKeyRateLimit, clientIP(r), userAgent(r))

			count, err := a.cache.Increment(r.Context(), key, settings.WindowSeconds)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)

				return
			}

			remaining := max(0, settings.MaxRequests-int(count))

			w.Header().Set(constant.RequestHeaderRateLimit, limit)
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(remaining))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, window)

			if int(count) > settings.MaxRequests {
				w.Header().Set(headerRetryAfter, window)
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != "" {
		return ua
	}

	return "unknown"
}

// clientIP prefers the first forwarded hop, then X-Real-IP, then the socket
// peer. Header values that are not addresses are ignored.
func clientIP(r *http.Request) string {
	first, _, _ := strings.Cut(r.Header.Get(constant.RequestHeaderForwardedFor), ",")

	for _, candidate := range []string{first, r.Header.Get(constant.RequestHeaderRealIP)} {
		if ip := net.ParseIP(strings.TrimSpace(candidate)); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
