package service_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/foodgram/backend/internal/service"
)

func TestGenerateEmbedding(t *testing.T) {
	vec := service.GenerateEmbedding("Tomato soup").Slice()
	assert.Len(t, vec, service.EmbeddingDims)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)

	assert.Equal(t, vec, service.GenerateEmbedding("TOMATO  SOUP!").Slice())
	assert.Equal(t, []float32{0, 0, 0}, service.GenerateEmbedding("123 ...").Slice())
}
