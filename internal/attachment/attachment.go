// Package attachment turns uploaded files into inline data URIs and back.
package attachment

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Alijeyrad/dentalcenter/internal/model"
)

var (
	ErrTooLarge   = errors.New("attachment exceeds the size limit")
	ErrNotDataURI = errors.New("attachment url is not a base64 data uri")
)

// Source is one file to encode.
type Source interface {
	Name() string
	// ContentType may be empty; the type is then detected.
	ContentType() string
	Open() (io.ReadCloser, error)
}

type bytesSource struct {
	name, mime string
	data       []byte
}

func (b bytesSource) Name() string        { return b.name }
func (b bytesSource) ContentType() string { return b.mime }
func (b bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

// FromBytes wraps in-memory content.
func FromBytes(name, mimeType string, data []byte) Source {
	return bytesSource{name: name, mime: mimeType, data: data}
}

type headerSource struct{ fh *multipart.FileHeader }

func (h headerSource) Name() string        { return h.fh.Filename }
func (h headerSource) ContentType() string { return h.fh.Header.Get("Content-Type") }
func (h headerSource) Open() (io.ReadCloser, error) {
	return h.fh.Open()
}

// FromFileHeader wraps one part of a multipart upload.
func FromFileHeader(fh *multipart.FileHeader) Source {
	return headerSource{fh: fh}
}

// Encoder reads sources and encodes them. A zero MaxBytes means no limit.
type Encoder struct {
	MaxBytes    int64
	Concurrency int
}

// Encode builds the data URI for data. An empty or generic mimeType is
// replaced by the extension's type, then by content sniffing.
func Encode(name, mimeType string, data []byte) model.File {
	mimeType = DetectType(name, mimeType, data)
	return model.File{
		Name: name,
		Type: mimeType,
		URL:  "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
}

func DetectType(name, declared string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}

// Decode returns the mime type and payload of a data URI file.
func Decode(f model.File) (string, []byte, error) {
	header, payload, ok := strings.Cut(f.URL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", nil, ErrNotDataURI
	}
	mimeType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrNotDataURI, err)
	}
	return mimeType, data, nil
}

// Read encodes one source, enforcing MaxBytes.
func (e Encoder) Read(src Source) (model.File, error) {
	rc, err := src.Open()
	if err != nil {
		return model.File{}, fmt.Errorf("open %s: %w", src.Name(), err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if e.MaxBytes > 0 {
		r = io.LimitReader(rc, e.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return model.File{}, fmt.Errorf("read %s: %w", src.Name(), err)
	}
	if e.MaxBytes > 0 && int64(len(data)) > e.MaxBytes {
		return model.File{}, fmt.Errorf("%s: %w (%d bytes)", src.Name(), ErrTooLarge, e.MaxBytes)
	}
	return Encode(src.Name(), src.ContentType(), data), nil
}

// EncodeBatch reads every source concurrently. The result is in input order
// and is returned only when all sources succeeded; any failure cancels the
// rest and no partial result is returned.
func (e Encoder) EncodeBatch(ctx context.Context, sources []Source) ([]model.File, error) {
	out := make([]model.File, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	if e.Concurrency > 0 {
		g.SetLimit(e.Concurrency)
	}

	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := e.Read(src)
			if err != nil {
				return err
			}
			out[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
