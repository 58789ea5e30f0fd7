// Package bkt implements Bayesian Knowledge Tracing: a per-skill mastery
// estimate updated from a stream of correct/incorrect observations.
//
// Update is pure and deterministic. Callers must not feed it indeterminate
// observations (a submission that could not be graded carries no evidence
// either way and is filtered out upstream).
package bkt

// Epsilon bounds estimates away from exact 0 and 1 so that degenerate
// parameter combinations can never make a later posterior divide by zero.
const Epsilon = 1e-9

// MasteryEstimate is the tracked state for one (user, tag) pair.
// PMastery stays in [0,1] after any update; Attempts never decreases.
type MasteryEstimate struct {
	PMastery float64
	Attempts int
}

// Initial returns the estimate for a tag with no recorded observations.
func Initial(p Params) MasteryEstimate {
	return MasteryEstimate{PMastery: p.PInit}
}

// Update folds one graded observation into the estimate.
//
// The conditional posterior follows the standard four-parameter model:
//
//	correct:   post = p·(1−slip) / (p·(1−slip) + (1−p)·guess)
//	incorrect: post = p·slip / (p·slip + (1−p)·(1−guess))
//
// then the learning transition post + (1−post)·transit is applied regardless
// of outcome. A zero denominator keeps the prior unchanged rather than
// producing NaN. The result never drops below the prior: an incorrect answer
// slows growth, it does not regress the estimate.
func Update(prior MasteryEstimate, correct bool, p Params) MasteryEstimate {
	cur := clamp(prior.PMastery, 0, 1)

	var num, den float64
	if correct {
		num = cur * (1 - p.PSlip)
		den = num + (1-cur)*p.PGuess
	} else {
		num = cur * p.PSlip
		den = num + (1-cur)*(1-p.PGuess)
	}

	post := cur
	if den > 0 {
		post = num / den
	}

	next := post + (1-post)*p.PTransit
	next = clamp(next, Epsilon, 1-Epsilon)
	if next < cur {
		next = cur
	}

	return MasteryEstimate{
		PMastery: next,
		Attempts: prior.Attempts + 1,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
