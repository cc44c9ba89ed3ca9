package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
)

const DefaultCloudURL = "https://discovery.meethue.com"

// Cloud asks the Hue cloud discovery service, which lists the bridges that last
// reported from the caller's public address.
type Cloud struct {
	URL    string
	Client *http.Client
}

type cloudBridge struct {
	ID                string  `json:"id"`
	InternalIPAddress *string `json:"internalipaddress"`
	Port              int     `json:"port"`
}

func (c *Cloud) Name() string {
	return "cloud"
}

func (c *Cloud) Discover(ctx context.Context) (netip.Addr, error) {
	url := c.URL
	if url == "" {
		url = DefaultCloudURL
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return netip.Addr{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("error querying %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("error reading %s response: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return netip.Addr{}, fmt.Errorf("%s answered %s", url, resp.Status)
	}

	return parseCloudResponse(body)
}

func parseCloudResponse(body []byte) (netip.Addr, error) {
	var bridges []cloudBridge
	if err := json.Unmarshal(body, &bridges); err != nil {
		return netip.Addr{}, fmt.Errorf("error parsing discovery response: %w", err)
	}
	if len(bridges) == 0 {
		return netip.Addr{}, errors.New("expected non-empty array")
	}

	first := bridges[0]
	if first.InternalIPAddress == nil {
		return netip.Addr{}, errors.New("expected internalipaddress")
	}
	addr, err := netip.ParseAddr(*first.InternalIPAddress)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("invalid internalipaddress: %w", err)
	}
	return addr.Unmap(), nil
}
