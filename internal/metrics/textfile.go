package metrics

import (
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/studyknots/knotsdocs/internal/foundation/errors"
)

// WriteTextfile writes the metrics gathered from g to path in the Prometheus text
// exposition format. The file is replaced atomically.
func WriteTextfile(path string, g prom.Gatherer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create metrics directory").
			WithContext("path", path).
			Build()
	}
	if err := prom.WriteToTextfile(path, g); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write metrics textfile").
			WithContext("path", path).
			Build()
	}
	return nil
}
