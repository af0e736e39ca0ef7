package utils

import (
	"fmt"
	"math"
)

// dotProduct calculates the dot product of two vectors.
func dotProduct(vec1, vec2 []float64) (float64, error) {
	if len(vec1) != len(vec2) {
		return 0, fmt.Errorf("vectors must have the same dimension")
	}
	var product float64
	for i := range vec1 {
		product += vec1[i] * vec2[i]
	}
	return product, nil
}

// magnitude calculates the L2 norm (magnitude) of a vector.
func magnitude(vec []float64) float64 {
	var sumOfSquares float64
	for _, val := range vec {
		sumOfSquares += val * val
	}
	return math.Sqrt(sumOfSquares)
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// A zero vector has no direction and yields 0.
func CosineSimilarity(vec1, vec2 []float64) (float64, error) {
	if len(vec1) == 0 || len(vec2) == 0 {
		return 0, fmt.Errorf("vectors cannot be empty")
	}
	dotProduct, err := dotProduct(vec1, vec2)
	if err != nil {
		return 0, err
	}

	mag1 := magnitude(vec1)
	mag2 := magnitude(vec2)

	if mag1 == 0 || mag2 == 0 {
		return 0, nil
	}

	return dotProduct / (mag1 * mag2), nil
}

func mean(vec []float64) float64 {
	var sum float64
	for _, v := range vec {
		sum += v
	}
	return sum / float64(len(vec))
}

func centered(vec []float64) []float64 {
	m := mean(vec)
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = v - m
	}
	return out
}

// Pearson is the correlation coefficient of two samples: the cosine
// similarity of the mean-centred vectors. A constant sample yields 0.
func Pearson(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("samples must have the same length")
	}
	if len(x) == 0 {
		return 0, fmt.Errorf("samples cannot be empty")
	}
	return CosineSimilarity(centered(x), centered(y))
}
