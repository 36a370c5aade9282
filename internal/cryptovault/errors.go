// SPDX-License-Identifier: Apache-2.0

package cryptovault

import "github.com/aether-drive/vault-core/internal/vaulterr"

func invariantViolation(msg string) *vaulterr.Error {
	return vaulterr.New(vaulterr.KindInvariantViolation, msg)
}

func invalidPassphrase(msg string, err error) *vaulterr.Error {
	return vaulterr.Wrap(vaulterr.KindInvalidPassphrase, msg, err)
}

func corrupt(msg string, err error) *vaulterr.Error {
	return vaulterr.Wrap(vaulterr.KindCorrupt, msg, err)
}

func sessionLocked() *vaulterr.Error {
	return vaulterr.New(vaulterr.KindLocked, "session holds no master key")
}

func ioErr(msg string, err error) *vaulterr.Error {
	return vaulterr.Wrap(vaulterr.KindIO, msg, err)
}
