package stringutil

import "fmt"

const ShortenLogLength = 16

// ShortenHash keeps the first and last ShortenLogLength/2 characters of a block hash.
func ShortenHash(hash string) string {
	half := ShortenLogLength / 2
	if len(hash) <= ShortenLogLength {
		return hash
	}
	return fmt.Sprintf("%s..%s", hash[:half], hash[len(hash)-half:])
}
