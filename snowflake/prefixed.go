package snowflake

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ncobase/cargohold/consts"
	"github.com/ncobase/cargohold/nanoid"
)

// Separator joins the prefix and the encoded key of an external id.
const Separator = "_"

// ErrMalformedID is returned by ParseExternalID.
var ErrMalformedID = errors.New("snowflake: malformed external id")

// EncodeKey renders a key as lowercase hex without zero padding.
func EncodeKey(key int64) string {
	return strconv.FormatInt(key, 16)
}

// RandomSuffix returns n random characters from [0-9a-zA-Z].
func RandomSuffix(n int) string {
	return nanoid.Alphanumeric(n)
}

// GeneratePrefixedID builds the external id of an entity from its key.
func GeneratePrefixedID(prefix string, key int64) string {
	return prefix + Separator + EncodeKey(key) + RandomSuffix(consts.ExternalIDSuffixSize)
}

// HasPrefix reports whether id is an external id of the given kind.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+Separator) && len(id) > len(prefix)+len(Separator)
}

// ParseExternalID splits an external id into its prefix and key. The key
// is the hex run between the separator and the random suffix.
func ParseExternalID(id string) (prefix string, key int64, err error) {
	i := strings.Index(id, Separator)
	if i <= 0 {
		return "", 0, fmt.Errorf("%w: %q has no prefix", ErrMalformedID, id)
	}
	prefix, rest := id[:i], id[i+len(Separator):]
	if len(rest) <= consts.ExternalIDSuffixSize {
		return "", 0, fmt.Errorf("%w: %q is too short", ErrMalformedID, id)
	}
	hex := rest[:len(rest)-consts.ExternalIDSuffixSize]
	key, err = strconv.ParseInt(hex, 16, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q: %v", ErrMalformedID, id, err)
	}
	return prefix, key, nil
}
