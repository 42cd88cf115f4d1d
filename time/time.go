// SPDX-License-Identifier: MIT

package time

import (
	"context"
	stdlibtime "time"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

func Now() *Time {
	now := stdlibtime.Now().UTC()

	return &Time{Time: &now}
}

func New(time stdlibtime.Time) *Time {
	utc := time.UTC()

	return &Time{Time: &utc}
}

func (t *Time) MarshalJSON(_ context.Context) ([]byte, error) {
	if t == nil || t.Time == nil || t.UnixNano() == 0 {
		return []byte("null"), nil
	}
	if t.Location() != stdlibtime.UTC {
		*t.Time = t.Time.UTC()
	}

	//nolint:wrapcheck // We're just proxying it.
	return t.Time.MarshalJSON()
}

func (t *Time) UnmarshalJSON(_ context.Context, data []byte) error {
	val := string(data)
	if val == "null" || val == `""` || val == "" {
		return nil
	}
	parsed, err := stdlibtime.Parse(`"`+stdlibtime.RFC3339Nano+`"`, val)
	if err != nil {
		return errors.Wrapf(err, "invalid time format: %v", val)
	}
	t.Time = new(stdlibtime.Time)
	*t.Time = parsed.UTC()

	return nil
}

func (t *Time) EncodeMsgpack(enc *msgpack.Encoder) error {
	var nanos uint64
	if t.Time != nil {
		nanos = uint64(t.UTC().UnixNano())
	}

	return errors.Wrap(enc.EncodeUint64(nanos), "failed to EncodeUint64")
}

func (t *Time) DecodeMsgpack(dec *msgpack.Decoder) error {
	nanos, err := dec.DecodeUint64()
	if err != nil {
		return errors.Wrap(err, "failed to Time.DecodeMsgpack.DecodeUint64")
	}
	t.Time = new(stdlibtime.Time)
	*t.Time = stdlibtime.Unix(0, int64(nanos)).UTC()

	return nil
}

func (t *Time) Scan(src any) error {
	switch typed := src.(type) {
	case nil:
		return nil
	case stdlibtime.Time:
		t.Time = new(stdlibtime.Time)
		*t.Time = typed.UTC()

		return nil
	case string:
		parsed, err := stdlibtime.Parse(stdlibtime.RFC3339Nano, typed)
		if err != nil {
			return errors.Wrapf(err, "failed to parse time %q", typed)
		}
		t.Time = new(stdlibtime.Time)
		*t.Time = parsed.UTC()

		return nil
	default:
		return errors.Errorf("unsupported time source %#v", src)
	}
}
