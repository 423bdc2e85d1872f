package classify

import (
	"bytes"
	_ "embed"
)

//go:embed corpus/seed.csv
var seedCorpus []byte

// SeedCorpus returns the built-in labeled corpus used to bootstrap a model
// before the user has accumulated labeled history of their own.
func SeedCorpus() ([]Sample, error) {
	return ReadCorpus(bytes.NewReader(seedCorpus))
}
