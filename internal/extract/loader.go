package extract

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/kira-carbon/server/internal/llm"
)

// maxDocumentBytes caps how much of a source document is read. Invoices and
// receipts are single-page scans; anything larger is a caller mistake.
const maxDocumentBytes = 20 << 20

// LoadDocument resolves a document reference (local path or http(s) URL)
// into inline media. The media type is inferred from the file extension when
// mimeType is empty.
func LoadDocument(ref, mimeType string) (*llm.Media, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		data, err = fetchURL(ref)
	} else {
		data, err = os.ReadFile(ref)
	}
	if err != nil {
		return nil, fmt.Errorf("load document %q: %w", ref, err)
	}
	if len(data) > maxDocumentBytes {
		return nil, fmt.Errorf("load document %q: exceeds %d bytes", ref, maxDocumentBytes)
	}

	if mimeType == "" {
		mimeType = MediaTypeFor(ref)
	}
	return &llm.Media{Data: data, MIMEType: mimeType}, nil
}

// MediaTypeFor maps a document reference to its media type by extension.
// PDFs are the only non-image documents accepted; everything else is assumed
// to be a scanned image.
func MediaTypeFor(ref string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(ref), "."))
	switch ext {
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "":
		return "image/png"
	default:
		return "image/" + ext
	}
}

func fetchURL(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
}
