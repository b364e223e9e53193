package ioload

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
)

var registerS3Once sync.Once

// EnableS3 registers the "s3" scheme with grailbio/base/file, the same way
// bamprovider's tests do for BAM/PAM inputs. Call it before passing an
// "s3://..." URI to FetchS3Object. It is a no-op on subsequent calls.
func EnableS3() {
	registerS3Once.Do(func() {
		file.RegisterImplementation("s3", func() file.Implementation {
			return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
		})
	})
}

// IsS3Path reports whether path names an object in S3 rather than a local
// file.
func IsS3Path(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// FetchS3Object copies the single object at uri (an "s3://bucket/key" URI)
// to localPath, for callers that want to stage a manifest, map, or hap file
// locally before handing its root path to ReadManifest/ReadGeneticMap/
// StreamHapMatrix, none of which understand S3 URIs directly. EnableS3 must
// be called first.
func FetchS3Object(ctx context.Context, uri, localPath string) error {
	src, err := file.Open(ctx, uri)
	if err != nil {
		return newIoError(uri, err)
	}
	defer src.Close(ctx)

	dst, err := file.Create(ctx, localPath)
	if err != nil {
		return newIoError(localPath, err)
	}
	defer dst.Close(ctx)

	if _, err := io.Copy(dst.Writer(ctx), src.Reader(ctx)); err != nil {
		return newIoError(uri, err)
	}
	return nil
}
