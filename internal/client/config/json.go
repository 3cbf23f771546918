package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/healthpod/healthpod/internal/flagx"
	"github.com/healthpod/healthpod/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30s"
// or as integer nanoseconds.
type JsonConfig struct {
	PodServerURL   string         `json:"pod_server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file given via
// the -c/-config flags. No file, no overlay. Panics on read or unmarshal
// errors, matching the fail-fast startup policy.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.PodServerURL = jc.PodServerURL
	cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
}
