package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gramolapp/gramola/internal/common"
)

// DefaultPhotonEndpoint is the public Photon forward-geocoding API.
const DefaultPhotonEndpoint = "https://photon.komoot.io/api/"

// Geocoder resolves a free-form address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lon float64, err error)
}

// PhotonGeocoder queries the Photon API. Photon answers in GeoJSON, where
// coordinates are ordered [longitude, latitude].
type PhotonGeocoder struct {
	endpoint string
	client   *http.Client
}

func NewPhotonGeocoder(endpoint string, client *http.Client) *PhotonGeocoder {
	if endpoint == "" {
		endpoint = DefaultPhotonEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &PhotonGeocoder{endpoint: endpoint, client: client}
}

type photonResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func (g *PhotonGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	if strings.TrimSpace(address) == "" {
		return 0, 0, fmt.Errorf("%w: address must not be blank", common.ErrValidation)
	}

	// Photon resolves country names more reliably in English.
	normalized := strings.TrimSpace(strings.ReplaceAll(address, "España", "Spain"))

	reqURL := fmt.Sprintf("%s?q=%s&limit=1", g.endpoint, url.QueryEscape(normalized))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: geocoding request failed: %v", common.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: geocoding service returned status %d", common.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: reading geocoding response: %v", common.ErrUpstream, err)
	}

	var parsed photonResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, 0, fmt.Errorf("%w: invalid geocoding response: %v", common.ErrUpstream, err)
	}

	if len(parsed.Features) == 0 || len(parsed.Features[0].Geometry.Coordinates) < 2 {
		return 0, 0, fmt.Errorf("%w: no coordinates for address", common.ErrNotFound)
	}

	coords := parsed.Features[0].Geometry.Coordinates
	return coords[1], coords[0], nil
}
