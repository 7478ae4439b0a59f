package service

import (
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingDims is the width of the recipes.embedding column.
const EmbeddingDims = 3

// GenerateEmbedding returns a deterministic, unit-length embedding of text
// built from its word, vowel and consonant counts. Recipe name search on
// postgres orders matches by distance to the query's embedding.
func GenerateEmbedding(text string) pgvector.Vector {
	var words, vowels, consonants float64
	inWord := false
	for _, r := range strings.ToLower(text) {
		if !unicode.IsLetter(r) {
			inWord = false
			continue
		}
		if !inWord {
			words++
			inWord = true
		}
		if strings.ContainsRune("aeiouyаеёиоуыэюя", r) {
			vowels++
		} else {
			consonants++
		}
	}

	vec := []float32{float32(words), float32(vowels), float32(consonants)}
	norm := math.Sqrt(words*words + vowels*vowels + consonants*consonants)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return pgvector.NewVector(vec)
}
