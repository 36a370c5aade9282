// SPDX-License-Identifier: Apache-2.0

package objectstore

import (
	"bytes"
	"io"
)

// newReadSeeker adapts an in-memory envelope to the io.ReadSeeker the S3
// SDK requires for a PutObject body (it needs to seek back to compute a
// content checksum on retry).
func newReadSeeker(body []byte) io.ReadSeeker {
	return bytes.NewReader(body)
}
