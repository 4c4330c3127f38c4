// Package embeddings compares embedding vectors.
package embeddings

import (
	"errors"
	"math"
)

var (
	// ErrEmpty is returned when either vector has no components.
	ErrEmpty = errors.New("at least one of the embeddings is empty")

	// ErrLengthMismatch is returned for vectors of different dimensions,
	// such as embeddings produced by two different models.
	ErrLengthMismatch = errors.New("embeddings must have equal lengths")

	// ErrZeroMagnitude is returned when the cosine of a zero vector is asked for.
	ErrZeroMagnitude = errors.New("at least one of the embedding magnitudes is zero")
)

func check(a, b []float64) error {
	if len(a) == 0 || len(b) == 0 {
		return ErrEmpty
	}
	if len(a) != len(b) {
		return ErrLengthMismatch
	}
	return nil
}

// CosineSimilarity calculates the cosine similarity between two embeddings.
//
// https://en.wikipedia.org/wiki/Cosine_similarity
func CosineSimilarity(a, b []float64) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0, ErrZeroMagnitude
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}

// EuclideanDistance calculates the Euclidean (L2) distance between two embeddings.
//
// https://en.wikipedia.org/wiki/Euclidean_distance
func EuclideanDistance(a, b []float64) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return math.Sqrt(sum), nil
}

// ManhattanDistance calculates the Manhattan (L1) distance between two embeddings.
//
// https://en.wikipedia.org/wiki/Taxicab_geometry
func ManhattanDistance(a, b []float64) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
	}

	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}

	return sum, nil
}

// Comparison holds the measures printed when two texts are compared.
type Comparison struct {
	Cosine    float64 `json:"cosine_similarity"`
	Euclidean float64 `json:"euclidean_distance"`
	Manhattan float64 `json:"manhattan_distance"`
}

// Compare computes every measure of Comparison.
func Compare(a, b []float64) (Comparison, error) {
	var (
		c   Comparison
		err error
	)

	if c.Cosine, err = CosineSimilarity(a, b); err != nil {
		return Comparison{}, err
	}
	if c.Euclidean, err = EuclideanDistance(a, b); err != nil {
		return Comparison{}, err
	}
	if c.Manhattan, err = ManhattanDistance(a, b); err != nil {
		return Comparison{}, err
	}

	return c, nil
}
