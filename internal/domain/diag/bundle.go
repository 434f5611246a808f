package diag

import (
	"encoding/json"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/domain/activity"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/config"
)

// Bundle is the support-bundle payload: everything needed to reproduce a
// resolution problem offline.
type Bundle struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Fingerprint string            `json:"fingerprint"`
	Settings    config.Settings   `json:"settings"`
	Aliases     map[string]string `json:"aliases"`
	Activity    []activity.Entry  `json:"activity"`
}

// WriteBundle writes the bundle as gzip'd JSON.
func WriteBundle(w io.Writer, bundle Bundle) error {
	gz := gzip.NewWriter(w)
	enc := json.NewEncoder(gz)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// ReadBundle decodes a bundle written by WriteBundle.
func ReadBundle(r io.Reader) (Bundle, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return Bundle{}, err
	}
	defer gz.Close()

	var bundle Bundle
	if err := json.NewDecoder(gz).Decode(&bundle); err != nil {
		return Bundle{}, err
	}
	return bundle, nil
}
