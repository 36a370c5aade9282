// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/aether-drive/vault-core/internal/cryptovault"
	"github.com/aether-drive/vault-core/internal/index"
)

// openIndex opens (creating if absent) the encrypted metadata index at
// path, deriving DbKey/IndexMacKey from mk.
func openIndex(ctx context.Context, path string, mk *cryptovault.MasterKey) (*index.Store, error) {
	return index.Open(ctx, path, mk, log)
}
