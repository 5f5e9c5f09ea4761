package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	NanoidSize     = 32
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NanoID returns a url-safe identifier of NanoidSize characters.
func NanoID() string {
	return gonanoid.MustGenerate(nanoidAlphabet, NanoidSize)
}

// NanoIDs returns count fresh identifiers.
func NanoIDs(count int) []string {
	count = max(count, 0)
	ids := make([]string, 0, count)
	for range count {
		ids = append(ids, NanoID())
	}
	return ids
}
