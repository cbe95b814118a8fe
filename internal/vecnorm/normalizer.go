// Package vecnorm normalizes raw vector-index scores into the [0,1] range
// CandidateRecall filters on. The original workflow this engine replaces
// always did a naive clamp(raw, 0, 1), which silently discards information
// whenever the index returns scores outside that range (inner-product or
// signed cosine indexes regularly do). Normalization is pluggable per index
// kind so a store can declare what its raw scores actually mean.
package vecnorm

import "math"

// Normalizer maps a raw index score onto [0,1].
type Normalizer interface {
	Normalize(raw float64) float64
}

// ClampNormalizer is the identity-then-clamp strategy, correct for index
// kinds whose raw score is already a cosine similarity bounded to [0,1]
// (e.g. pre-normalized cosine indexes that never return negative values).
type ClampNormalizer struct{}

// Normalize clamps raw into [0,1].
func (ClampNormalizer) Normalize(raw float64) float64 {
	if raw < 0 {
		return 0
	}
	if raw > 1 {
		return 1
	}
	return raw
}

// SigmoidNormalizer rescales an unbounded or signed raw score (typical of
// inner-product / dot-product indexes, and of cosine similarity which is
// signed in [-1,1]) into [0,1] via the logistic function. In float64 the
// result rounds to exactly 1 once raw exceeds roughly 37.
type SigmoidNormalizer struct{}

// Normalize applies 1/(1+e^-raw).
func (SigmoidNormalizer) Normalize(raw float64) float64 {
	return 1 / (1 + math.Exp(-raw))
}

// ForIndexKind resolves the Normalizer appropriate for a named index kind.
// Unrecognized kinds default to ClampNormalizer, matching the conservative
// behaviour of the original workflow.
func ForIndexKind(kind string) Normalizer {
	switch kind {
	case "inner_product", "cosine_signed":
		return SigmoidNormalizer{}
	default:
		return ClampNormalizer{}
	}
}
