package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// maxImageBytes caps every decoded or downloaded payload.
const maxImageBytes = 20 << 20

var allowedMIME = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

// Kind tells which form a Source was given in.
type Kind int

const (
	KindEmpty Kind = iota
	KindBytes
	KindEncoded
	KindPath
	KindURL
)

// Source is an image in one of the forms the pipeline receives: raw bytes
// (generated output), a base64 or data URL string (user upload), a local file
// (catalog asset) or a remote URL.
type Source struct {
	Data    []byte
	Encoded string
	Path    string
	URL     string
	MIME    string
}

// Blob is a decoded image payload.
type Blob struct {
	Data []byte
	MIME string
}

func FromBytes(data []byte, mime string) Source { return Source{Data: data, MIME: mime} }

func FromPath(path string) Source { return Source{Path: path} }

func FromURL(u string) Source { return Source{URL: strings.TrimSpace(u)} }

// FromString classifies a client supplied string as a remote URL or as
// base64 image data.
func FromString(s string) Source {
	s = strings.TrimSpace(s)
	if IsRemoteURL(s) {
		return Source{URL: s}
	}
	return Source{Encoded: s}
}

// Kind reports which field of s is populated.
func (s Source) Kind() Kind {
	switch {
	case len(s.Data) > 0:
		return KindBytes
	case s.Encoded != "":
		return KindEncoded
	case s.Path != "":
		return KindPath
	case s.URL != "":
		return KindURL
	default:
		return KindEmpty
	}
}

// IsRemoteURL reports whether v is an absolute http(s) URL.
func IsRemoteURL(v string) bool {
	u, err := url.Parse(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load materialises the source into bytes and validates it is an image.
func (s Source) Load(ctx context.Context, client *http.Client) (*Blob, error) {
	var (
		data     []byte
		declared = s.MIME
		err      error
	)
	switch s.Kind() {
	case KindBytes:
		data = s.Data
	case KindEncoded:
		data, declared, err = DecodeDataURL(s.Encoded)
	case KindPath:
		data, err = readLocal(s.Path)
	case KindURL:
		data, declared, err = Download(ctx, client, s.URL)
	default:
		err = errors.New("storage: empty image source")
	}
	if err != nil {
		return nil, err
	}
	mime, err := DetectImageMIME(data, declared)
	if err != nil {
		return nil, err
	}
	return &Blob{Data: data, MIME: mime}, nil
}

// DecodeDataURL accepts `data:<mime>;base64,<payload>` or bare base64.
func DecodeDataURL(v string) ([]byte, string, error) {
	v = strings.TrimSpace(v)
	mime := ""
	if strings.HasPrefix(v, "data:") {
		comma := strings.IndexByte(v, ',')
		if comma < 0 {
			return nil, "", errors.New("storage: malformed data url")
		}
		meta := v[len("data:"):comma]
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", errors.New("storage: data url is not base64 encoded")
		}
		mime = strings.TrimSuffix(meta, ";base64")
		v = v[comma+1:]
	}
	if len(v) == 0 {
		return nil, "", errors.New("storage: empty base64 payload")
	}
	if base64.StdEncoding.DecodedLen(len(v)) > maxImageBytes {
		return nil, "", errors.New("storage: image exceeds size limit")
	}
	data, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(v, "="))
		if err != nil {
			return nil, "", fmt.Errorf("storage: decode base64: %w", err)
		}
	}
	return data, mime, nil
}

// EncodeDataURL is the inverse of DecodeDataURL.
func EncodeDataURL(data []byte, mime string) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DetectImageMIME sniffs data and rejects anything that is not an allowed
// image type. HEIC cannot be sniffed, so a declared heic/heif type is trusted.
func DetectImageMIME(data []byte, declared string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("storage: empty image payload")
	}
	sniffed := http.DetectContentType(data)
	if _, ok := allowedMIME[sniffed]; ok {
		return sniffed, nil
	}
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared == "image/heic" || declared == "image/heif" {
		return declared, nil
	}
	return "", fmt.Errorf("storage: unsupported file type: %s", sniffed)
}

// Extension returns the file extension for an allowed MIME type.
func Extension(mime string) string {
	if ext, ok := allowedMIME[mime]; ok {
		return ext
	}
	return ".bin"
}

// Download fetches a remote image with the size cap applied.
func Download(ctx context.Context, client *http.Client, rawURL string) ([]byte, string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("storage: build download request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("storage: download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("storage: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("storage: read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, "", errors.New("storage: image exceeds size limit")
	}
	mime := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return data, strings.TrimSpace(mime), nil
}

func readLocal(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	defer f.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(f, maxImageBytes+1)); err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	if buf.Len() > maxImageBytes {
		return nil, errors.New("storage: image exceeds size limit")
	}
	return buf.Bytes(), nil
}
