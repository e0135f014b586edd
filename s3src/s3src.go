// Package s3src provides a zipvfs.ByteSource backed by ranged S3 GetObject
// calls, so an Archive can be opened directly against an object in a
// bucket without downloading it first.
package s3src

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/nguyengg/zipvfs"
)

// Client abstracts the S3 API calls this package needs, the same way
// nguyengg-xy3/s3reader's ReaderClient/ReadSeekerClient do.
type Client interface {
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

const bufferSize = 64 * 1024

// Options customises New.
type Options struct {
	// CtxFn returns the context.Context used for every GetObject/HeadObject
	// call. Defaults to context.Background.
	CtxFn func() context.Context

	// ModifyGetObjectInput can add fields (e.g. ExpectedBucketOwner,
	// VersionId) to every GetObject call this source makes.
	ModifyGetObjectInput func(*s3.GetObjectInput) *s3.GetObjectInput

	// ModifyHeadObjectInput can add fields to the one HeadObject call New
	// makes (per Opener invocation) to learn the object's size.
	ModifyHeadObjectInput func(*s3.HeadObjectInput) *s3.HeadObjectInput

	// progressLogger, set by WithProgressLogger, logs throttled fetch
	// progress as range responses arrive.
	progressLogger *log.Logger
	progressEvery  time.Duration
}

// WithProgressLogger makes every ByteSource produced by New log throttled
// fetch progress ("fetched X / Y so far") at most once per interval, the
// same rate.Sometimes-gated shape as nguyengg-xy3/s3reader/progress.go's
// logLogger, adapted from that type's io.Writer-wrapping design (which
// tracks progress against a Reader's linear write stream) to s3src's
// random-access Read/Seek model: progress here is measured by the bytes
// of range responses fetched from S3 so far. Every fetched range counts,
// so a range fetched again after a backward seek (as on a DEFLATE
// restart) is counted again, and the logged total can exceed the object's
// size.
func WithProgressLogger(logger *log.Logger, interval time.Duration) func(*Options) {
	return func(opts *Options) {
		opts.progressLogger = logger
		opts.progressEvery = interval
	}
}

// New returns a zipvfs.Opener that produces independent ByteSource handles
// against the object at bucket/key, each backed by ranged GetObject calls.
// OpenArchiveFrom, Archive.resolve, and Archive.OpenRead each call the
// Opener to get their own handle, so every invocation here issues its own
// HeadObject and keeps its own read buffer and position, matching the
// independent-handle contract described on zipvfs.ByteSource.
//
// Grounded on nguyengg-xy3/s3reader's NewReaderSeeker and reader/readSeeker
// types, merged into a single ByteSource implementation (the teacher splits
// Reader/ReadSeeker across two types because it never needs io.Closer) and
// with Seek's range validation loosened: the teacher's readSeeker.Seek
// rejects any target >= size, but zipvfs.sourceLen and findEOCD both
// legitimately seek exactly to EOF (target == size) to measure the
// archive's length, so that rejection is dropped here.
func New(client Client, bucket, key string, optFns ...func(*Options)) zipvfs.Opener {
	opts := &Options{
		CtxFn: context.Background,
		ModifyGetObjectInput: func(input *s3.GetObjectInput) *s3.GetObjectInput {
			return input
		},
		ModifyHeadObjectInput: func(input *s3.HeadObjectInput) *s3.HeadObjectInput {
			return input
		},
	}
	for _, fn := range optFns {
		fn(opts)
	}

	return func() (zipvfs.ByteSource, error) {
		out, err := client.HeadObject(opts.CtxFn(), opts.ModifyHeadObjectInput(&s3.HeadObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		}))
		if err != nil {
			return nil, fmt.Errorf("s3src: determine object size for s3://%s/%s: %w", bucket, key, err)
		}

		s := &source{
			client:               client,
			bucket:               bucket,
			key:                  key,
			ctxFn:                opts.CtxFn,
			modifyGetObjectInput: opts.ModifyGetObjectInput,
			size:                 aws.ToInt64(out.ContentLength),
		}
		if opts.progressLogger != nil {
			s.progress = &progress{
				logger: opts.progressLogger,
				rate:   rate.Sometimes{Interval: opts.progressEvery},
				size:   s.size,
			}
		}
		return s, nil
	}
}

// progress tracks bytes fetched from S3 (not bytes consumed by the caller);
// every range response adds its full length, including a range fetched
// again after a backward Seek. It logs at most once per rate.Interval,
// grounded on the rate.Sometimes gate in nguyengg-xy3/s3reader/progress.go's
// logLogger.
type progress struct {
	logger *log.Logger
	rate   rate.Sometimes
	fetched, size int64
}

func (p *progress) addFetched(n int64) {
	p.fetched += n
	p.rate.Do(func() {
		p.logger.Printf("fetched %s / %s from S3 so far", humanize.IBytes(uint64(p.fetched)), humanize.IBytes(uint64(p.size)))
	})
}

// source implements zipvfs.ByteSource against one S3 object.
type source struct {
	client               Client
	bucket, key          string
	ctxFn                func() context.Context
	modifyGetObjectInput func(*s3.GetObjectInput) *s3.GetObjectInput
	progress             *progress

	size int64
	off  int64
	buf  bytes.Buffer
}

// Read fills p from the buffered range response, fetching a new range
// starting at the current position (sized to at least bufferSize, or
// len(p) if larger) whenever the buffer runs dry.
func (s *source) Read(p []byte) (int, error) {
	m := len(p)
	if m == 0 {
		return 0, nil
	}
	if s.off >= s.size {
		return 0, io.EOF
	}

	if s.buf.Len() > 0 {
		n, err := s.buf.Read(p)
		s.off += int64(n)
		return n, err
	}

	rangeStart := s.off + int64(s.buf.Len())
	rangeEnd := rangeStart + max64(int64(m), bufferSize) - 1
	if rangeEnd >= s.size {
		rangeEnd = s.size - 1
	}

	out, err := s.client.GetObject(s.ctxFn(), s.modifyGetObjectInput(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", rangeStart, rangeEnd)),
	}))
	if err != nil {
		return 0, fmt.Errorf("s3src: get object range: %w", err)
	}

	fetched, err := s.buf.ReadFrom(out.Body)
	closeErr := out.Body.Close()
	if err != nil {
		return 0, fmt.Errorf("s3src: read object range body: %w", err)
	}
	if closeErr != nil {
		return 0, closeErr
	}
	if s.progress != nil {
		s.progress.addFetched(fetched)
	}

	n, err := s.buf.Read(p)
	s.off += int64(n)
	return n, err
}

// Seek repositions the source and discards any buffered bytes, since they
// no longer cover the new position's range.
func (s *source) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.off + offset
	case io.SeekEnd:
		target = s.size + offset
	default:
		return 0, fmt.Errorf("s3src: invalid whence %d", whence)
	}
	if target < 0 {
		return 0, fmt.Errorf("s3src: negative seek position %d", target)
	}

	s.off = target
	s.buf.Reset()
	return s.off, nil
}

// Close is a no-op: there is no underlying handle to release, only a
// buffer. It exists so source satisfies zipvfs.ByteSource.
func (s *source) Close() error { return nil }

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
