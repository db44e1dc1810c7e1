package ml

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/klauspost/compress/gzip"
)

const gcsScheme = "gs://"

// ReadArtifact returns the raw artifact bytes from a local path or a
// gs://bucket/object location. Locations ending in .gz are decompressed.
func ReadArtifact(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: no artifact location configured", ErrArtifact)
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(location, gcsScheme) {
		data, err = readGCSObject(ctx, location)
	} else {
		data, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrArtifact, location, err)
	}

	if strings.HasSuffix(location, ".gz") {
		data, err = gunzip(data)
		if err != nil {
			return nil, fmt.Errorf("%w: decompress %s: %w", ErrArtifact, location, err)
		}
	}

	return data, nil
}

// splitGCSLocation parses gs://bucket/path/to/object.
func splitGCSLocation(location string) (bucket, object string, err error) {
	rest := strings.TrimPrefix(location, gcsScheme)
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("malformed GCS location %q", location)
	}
	return bucket, object, nil
}

func readGCSObject(ctx context.Context, location string) ([]byte, error) {
	bucket, object, err := splitGCSLocation(location)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}
	return data, nil
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}
