package device

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gosimple/slug"

	. "github.com/weberc2/newfs/pkg/types"
)

// Snapshot is a Driver over a device image kept in an object store. The image
// is downloaded when the snapshot is opened and uploaded when it is closed;
// in between, all I/O hits memory.
type Snapshot struct {
	*Memory
	store  ObjectStore
	bucket string
	key    string
}

// SnapshotKey returns the object key for the image named `name`.
func SnapshotKey(name string) string {
	return slug.Make(name) + ".img"
}

// OpenSnapshot loads the image named `name` from `bucket`. If no such image
// exists, a zeroed image of `size` bytes is created.
func OpenSnapshot(
	store ObjectStore,
	bucket string,
	name string,
	size Byte,
	ioUnit Byte,
) (*Snapshot, error) {
	key := SnapshotKey(name)
	body, err := store.GetObject(bucket, key)
	if err != nil {
		var notFound *ObjectNotFoundErr
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf(
				"opening snapshot `%s` in bucket `%s`: %w",
				key,
				bucket,
				err,
			)
		}
		return &Snapshot{
			Memory: NewMemory(size, ioUnit),
			store:  store,
			bucket: bucket,
			key:    key,
		}, nil
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf(
			"reading snapshot `%s` from bucket `%s`: %w",
			key,
			bucket,
			err,
		)
	}
	return &Snapshot{
		Memory: NewMemoryFrom(data, ioUnit),
		store:  store,
		bucket: bucket,
		key:    key,
	}, nil
}

// SnapshotOpener returns an Opener which treats paths as image names.
func SnapshotOpener(
	store ObjectStore,
	bucket string,
	size Byte,
	ioUnit Byte,
) Opener {
	return func(name string) (Driver, error) {
		return OpenSnapshot(store, bucket, name, size, ioUnit)
	}
}

func (s *Snapshot) Key() string { return s.key }

func (s *Snapshot) Close() error {
	if s.closed {
		return nil
	}
	if err := s.store.PutObject(
		s.bucket,
		s.key,
		bytes.NewReader(s.Bytes()),
	); err != nil {
		return errors.Join(
			fmt.Errorf(
				"uploading snapshot `%s` to bucket `%s`: %w",
				s.key,
				s.bucket,
				err,
			),
			s.Memory.Close(),
		)
	}
	return s.Memory.Close()
}
