package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile dumps g in the text exposition format for the node_exporter
// textfile collector. The file is replaced atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("metrics: write textfile: %w", err)
	}
	return nil
}
