package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	nanoidSize     = 21
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NanoID returns a random URL-safe identifier, used for request ids.
func NanoID() string {
	return gonanoid.MustGenerate(nanoidAlphabet, nanoidSize)
}
