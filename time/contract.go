// SPDX-License-Identifier: MIT

package time

import (
	"database/sql"
	stdlibtime "time"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
)

// Public API.

type (
	// Time is a thin *stdlib time.Time wrapper, normalized to UTC everywhere
	// it is marshalled or scanned.
	Time struct {
		*stdlibtime.Time
	}
)

// Private API.

var (
	_ msgpack.CustomEncoder   = (*Time)(nil)
	_ msgpack.CustomDecoder   = (*Time)(nil)
	_ json.MarshalerContext   = (*Time)(nil)
	_ json.UnmarshalerContext = (*Time)(nil)
	_ sql.Scanner             = (*Time)(nil)
)
