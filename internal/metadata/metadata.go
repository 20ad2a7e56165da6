// Package metadata discovers where the gateway is running (cluster, pod,
// zone) from the GCE metadata server. Discovery is best effort: every field
// degrades to an environment override or "unknown".
package metadata

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const unknown = "unknown"

// Placement describes the gateway's runtime location.
type Placement struct {
	Cluster string
	Pod     string
	Zone    string
}

// Discover queries the metadata server once at startup.
func Discover(timeout time.Duration) Placement {
	server := getenv("METADATA_SERVER", "metadata.google.internal")
	base := "http://" + server + "/computeMetadata/v1/"

	placement := Placement{
		Cluster: getenv("CLUSTER_NAME", unknown),
		Pod:     hostname(),
		Zone:    getenv("POD_ZONE", unknown),
	}

	client := &http.Client{Timeout: timeout}

	if cluster, ok := fetch(client, base+"instance/attributes/cluster-name"); ok {
		placement.Cluster = cluster
	}

	if zone, ok := fetch(client, base+"instance/zone"); ok {
		// zone value has the form projects/<id>/zones/<zone>
		parts := strings.Split(zone, "/")
		if len(parts) == 4 {
			placement.Zone = parts[3]
		}
	}

	return placement
}

func fetch(client *http.Client, url string) (string, bool) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("Metadata-Flavor", "Google")

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("unable to reach metadata server", "url", url, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false
	}

	return string(body), true
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return unknown
	}
	return name
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
