package password

import (
	"strings"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
)

// unixCryptScheme verifies crypt(3) hashes carried over from older account
// stores. It never encodes.
type unixCryptScheme struct{}

func (unixCryptScheme) crypter(stored string) crypt.Crypter {
	switch {
	case strings.HasPrefix(stored, "$6$"):
		return sha512_crypt.New()
	case strings.HasPrefix(stored, "$5$"):
		return sha256_crypt.New()
	case strings.HasPrefix(stored, "$1$"):
		return md5_crypt.New()
	default:
		return nil
	}
}

func (u unixCryptScheme) handles(stored string) bool {
	return u.crypter(stored) != nil
}

func (u unixCryptScheme) verify(plaintext, stored string) bool {
	c := u.crypter(stored)
	if c == nil {
		return false
	}
	return c.Verify(stored, []byte(plaintext)) == nil
}
