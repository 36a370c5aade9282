// SPDX-License-Identifier: Apache-2.0

package index

import "github.com/aether-drive/vault-core/internal/vaulterr"

func wrongKey(msg string, err error) *vaulterr.Error {
	return vaulterr.Wrap(vaulterr.KindWrongKey, msg, err)
}

func corrupt(msg string, err error) *vaulterr.Error {
	return vaulterr.Wrap(vaulterr.KindCorrupt, msg, err)
}

func ioErr(msg string, err error) *vaulterr.Error {
	return vaulterr.Wrap(vaulterr.KindIO, msg, err)
}

func invariantViolation(msg string) *vaulterr.Error {
	return vaulterr.New(vaulterr.KindInvariantViolation, msg)
}
