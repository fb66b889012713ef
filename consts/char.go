package consts

// Character sets
const (
	Number        = "0123456789"                   // Numbers
	Lowercase     = "abcdefghijklmnopqrstuvwxyz"   // Lowercase letters
	Uppercase     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"   // Uppercase letters
	NumLower      = Number + Lowercase             // Numbers + Lowercase letters
	LowerUpper    = Lowercase + Uppercase          // Lowercase + Uppercase letters
	NumLowerUpper = Number + Lowercase + Uppercase // Numbers + Lowercase + Uppercase letters
)

const (
	// Alphanumeric is the alphabet of external id suffixes and link keys.
	Alphanumeric = NumLowerUpper

	// ExternalIDSuffixSize is the random suffix length of entity ids.
	ExternalIDSuffixSize = 20
	// LinkKeySize is the length of generated share-link keys.
	LinkKeySize = 16
)
