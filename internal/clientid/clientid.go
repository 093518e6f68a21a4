// Package clientid derives stable pseudonymous client keys from network
// origin addresses. The key is a one-way hash so raw addresses never reach
// the session store or the filesystem.
package clientid

import (
	"crypto/md5"
	"encoding/hex"
)

// Hash returns the hex digest used as the client key for addr. The digest
// only needs to be stable and non-reversible, not collision resistant
// against an adversary, so md5 is fine here.
func Hash(addr string) string {
	sum := md5.Sum([]byte(addr))
	return hex.EncodeToString(sum[:])
}
