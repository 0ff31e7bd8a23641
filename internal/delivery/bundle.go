package delivery

import (
	"archive/zip"
	"bytes"
	"time"
)

type bundleEntry struct {
	name string
	data []byte
}

// buildBundle zips entries without compression. Photos are already
// compressed formats.
func buildBundle(entries []bundleEntry, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   zip.Store,
			Modified: modified,
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
