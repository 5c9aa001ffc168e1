package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// ClientInfo describes where a login request came from.
type ClientInfo struct {
	IP          string
	Device      string
	CountryCode string
	UserAgent   string
}

const (
	DeviceMobile = "mobile"
	DevicePC     = "pc"
)

var mobileMarkers = []string{"mobile", "android", "iphone", "ipad", "ipod"}

// DeviceFromUserAgent classifies the client as mobile or pc.
func DeviceFromUserAgent(userAgent string) string {
	ua := strings.ToLower(userAgent)
	for _, marker := range mobileMarkers {
		if strings.Contains(ua, marker) {
			return DeviceMobile
		}
	}
	return DevicePC
}

// GeoResolver maps an IP to a country code.
type GeoResolver interface {
	CountryCode(ctx context.Context, ip string) (string, error)
}

// HTTPGeoResolver asks an external geo API for the country code. Lookups
// are best effort; the pipeline logs failures and carries on with an empty
// code.
type HTTPGeoResolver struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPGeoResolver builds a resolver for an endpoint containing one %s
// placeholder for the IP.
func NewHTTPGeoResolver(endpoint string, timeout time.Duration, logger *slog.Logger) *HTTPGeoResolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPGeoResolver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (r *HTTPGeoResolver) CountryCode(ctx context.Context, ip string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(r.endpoint, ip), nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geo lookup status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}
	var decoded struct {
		CountryCode string `json:"countryCode"`
	}
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return "", err
	}
	return decoded.CountryCode, nil
}

// StaticGeoResolver returns a fixed code; used when no endpoint is
// configured and in tests.
type StaticGeoResolver string

func (s StaticGeoResolver) CountryCode(context.Context, string) (string, error) {
	return string(s), nil
}
