package recommend

import "math"

// CosineSimilarity calculates cosine similarity between two vectors.
// Mismatched lengths and zero vectors yield 0, never an error or a division
// by zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// blend computes (1-alpha)*old + alpha*direction*item, the EMA step that
// keeps the profile magnitude bounded while biasing toward recent feedback.
func blend(old, item []float32, alpha, direction float64) []float32 {
	out := make([]float32, len(old))
	for i := range old {
		out[i] = float32((1-alpha)*float64(old[i]) + alpha*direction*float64(item[i]))
	}
	return out
}

// scale computes direction*item, the cold-start bootstrap vector.
func scale(item []float32, direction float64) []float32 {
	out := make([]float32, len(item))
	for i := range item {
		out[i] = float32(direction * float64(item[i]))
	}
	return out
}
