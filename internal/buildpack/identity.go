package buildpack

import (
	"crypto/md5" // #nosec G501 -- directory naming, not security
	"encoding/hex"
)

// DirName returns the directory name the platform stores a fetched buildpack
// under: the hex MD5 of its identity (name, URL or path) as written in the
// buildpack order.
func DirName(identity string) string {
	sum := md5.Sum([]byte(identity)) // #nosec G401
	return hex.EncodeToString(sum[:])
}
