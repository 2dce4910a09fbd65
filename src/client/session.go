package client

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	uuid2 "github.com/google/uuid"
	"os"
	"strings"
)

const SessionCookieName = "cr00"

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/140.0.0.0 Safari/537.36"
const DefaultReferer = "https://www.binance.com/"
const DefaultAcceptLanguage = "zh,zh-CN;q=0.9,en;q=0.8"

// Session holds the cookie-authenticated identity used on the private
// trading surface. The csrftoken header is either taken from the cookie
// store or derived from the primary session cookie.
type Session struct {
	Cookies      map[string]string
	ExtraHeaders map[string]string
}

func NewSession(cookies map[string]string, extraHeaders map[string]string) (*Session, error) {
	if _, ok := cookies[SessionCookieName]; !ok {
		return nil, errors.New(fmt.Sprintf("cookies must contain the %s cookie", SessionCookieName))
	}

	if extraHeaders == nil {
		extraHeaders = make(map[string]string)
	}

	return &Session{
		Cookies:      cookies,
		ExtraHeaders: extraHeaders,
	}, nil
}

func (s *Session) CsrfToken() string {
	if token, ok := s.Cookies["csrfToken"]; ok && len(token) > 0 {
		return token
	}

	sum := md5.Sum([]byte(s.Cookies[SessionCookieName]))

	return hex.EncodeToString(sum[:])
}

func (s *Session) CookieHeader() string {
	pairs := make([]string, 0, len(s.Cookies))
	for name, value := range s.Cookies {
		pairs = append(pairs, fmt.Sprintf("%s=%s", name, value))
	}

	return strings.Join(pairs, "; ")
}

// GetHeaders computes the full header set for one request, including a fresh
// trace identifier applied to both trace headers.
func (s *Session) GetHeaders() map[string]string {
	headers := map[string]string{
		"Accept":          "*/*",
		"Accept-Language": DefaultAcceptLanguage,
		"Content-Type":    "application/json",
		"User-Agent":      DefaultUserAgent,
		"Referer":         DefaultReferer,
		"clienttype":      "web",
		"csrftoken":       s.CsrfToken(),
	}

	for _, name := range []string{"Accept-Language", "User-Agent", "Referer", "clienttype", "csrftoken"} {
		if value, ok := s.ExtraHeaders[name]; ok {
			headers[name] = value
		}
	}

	for name, value := range s.ExtraHeaders {
		if _, known := headers[name]; !known {
			headers[name] = value
		}
	}

	traceId := uuid2.New().String()
	headers["x-trace-id"] = traceId
	headers["x-ui-request-trace"] = traceId
	headers["Cookie"] = s.CookieHeader()

	return headers
}

type sessionFile struct {
	Cookies map[string]string `json:"cookies"`
	Headers map[string]string `json:"headers"`
}

// LoadSessionData reads a cookie file that is either a JSON object (flat
// cookie map or {cookies, headers}) or a raw Cookie header line.
func LoadSessionData(path string) (map[string]string, map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	text := strings.TrimSpace(strings.TrimPrefix(string(raw), "\ufeff"))
	if len(text) == 0 {
		return nil, nil, errors.New("cookie file is empty")
	}

	if strings.HasPrefix(text, "{") {
		var container map[string]json.RawMessage
		if err := json.Unmarshal([]byte(text), &container); err != nil {
			return nil, nil, err
		}

		_, hasCookies := container["cookies"]
		_, hasHeaders := container["headers"]

		if hasCookies || hasHeaders {
			var file sessionFile
			if err := json.Unmarshal([]byte(text), &file); err != nil {
				return nil, nil, err
			}

			if file.Headers == nil {
				file.Headers = make(map[string]string)
			}

			return file.Cookies, file.Headers, nil
		}

		cookies := make(map[string]string)
		if err := json.Unmarshal([]byte(text), &cookies); err != nil {
			return nil, nil, err
		}

		return cookies, make(map[string]string), nil
	}

	return ParseCookieHeader(text), make(map[string]string), nil
}

func ParseCookieHeader(raw string) map[string]string {
	cookies := make(map[string]string)

	for _, part := range strings.Split(raw, ";") {
		if !strings.Contains(part, "=") {
			continue
		}

		pair := strings.SplitN(strings.TrimSpace(part), "=", 2)
		cookies[pair[0]] = pair[1]
	}

	return cookies
}

// DetectProxies mirrors the browser-style proxy environment resolution:
// scheme specific variables win, all_proxy fills the gaps.
func DetectProxies() map[string]string {
	proxies := make(map[string]string)

	httpProxy := firstEnv("http_proxy", "HTTP_PROXY")
	httpsProxy := firstEnv("https_proxy", "HTTPS_PROXY")
	allProxy := firstEnv("all_proxy", "ALL_PROXY")

	if len(httpProxy) > 0 {
		proxies["http"] = httpProxy
	}

	if len(httpsProxy) > 0 {
		proxies["https"] = httpsProxy
	} else if len(allProxy) > 0 {
		proxies["https"] = allProxy
	}

	if len(allProxy) > 0 {
		if _, ok := proxies["http"]; !ok {
			proxies["http"] = allProxy
		}
	}

	return proxies
}

// ApplyProxyEnvironment exports the detected mapping so that
// http.ProxyFromEnvironment picks it up. An http-only mapping also covers
// https, the exchange endpoints are all TLS.
func ApplyProxyEnvironment(proxies map[string]string) {
	for scheme, value := range proxies {
		lower := fmt.Sprintf("%s_proxy", scheme)
		_ = os.Setenv(lower, value)
		_ = os.Setenv(strings.ToUpper(lower), value)
	}

	if httpProxy, ok := proxies["http"]; ok {
		if _, ok := proxies["https"]; !ok {
			_ = os.Setenv("https_proxy", httpProxy)
			_ = os.Setenv("HTTPS_PROXY", httpProxy)
		}
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if value := os.Getenv(name); len(value) > 0 {
			return value
		}
	}

	return ""
}
