package bkt

import (
	"math"
	"testing"
)

const epsilon = 1e-6

func assertFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %.9f, want %.9f (diff %.2e)", name, got, want, math.Abs(got-want))
	}
}

var vectorParams = Params{PInit: 0.1, PTransit: 0.3, PSlip: 0.1, PGuess: 0.2}

func TestUpdateCorrect(t *testing.T) {
	// post = 0.1*0.9 / (0.1*0.9 + 0.9*0.2) = 1/3
	// new  = 1/3 + (2/3)*0.3 = 0.5333...
	got := Update(MasteryEstimate{PMastery: 0.1}, true, vectorParams)
	assertFloat(t, "p_mastery", got.PMastery, 0.533333333)
	if got.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", got.Attempts)
	}
}

func TestUpdateIncorrect(t *testing.T) {
	// post = 0.1*0.1 / (0.1*0.1 + 0.9*0.8) = 0.0136986...
	// new  = 0.0136986 + 0.9863014*0.3 = 0.3095890...
	got := Update(MasteryEstimate{PMastery: 0.1}, false, vectorParams)
	assertFloat(t, "p_mastery", got.PMastery, 0.309589041)
}

func TestUpdateChainGrowth(t *testing.T) {
	// Repeated correct answers drive the estimate toward 1.
	est := Initial(vectorParams)
	for i := 0; i < 20; i++ {
		est = Update(est, true, vectorParams)
	}
	if est.PMastery < 0.99 {
		t.Errorf("after 20 correct answers p_mastery = %.6f, want > 0.99", est.PMastery)
	}
	if est.Attempts != 20 {
		t.Errorf("attempts = %d, want 20", est.Attempts)
	}
}

func TestUpdateNonDecreasing(t *testing.T) {
	// With p_transit > 0 an update never lowers the estimate, for either
	// outcome, at any prior.
	paramGrid := []Params{
		{PInit: 0.3, PTransit: 0.3, PSlip: 0.1, PGuess: 0.2},
		{PInit: 0.1, PTransit: 0.01, PSlip: 0.3, PGuess: 0.3},
		{PInit: 0.5, PTransit: 0.9, PSlip: 0.05, PGuess: 0.5},
		{PInit: 0.5, PTransit: 0.2, PSlip: 0.4, PGuess: 0.05},
	}
	for _, p := range paramGrid {
		for i := 0; i <= 100; i++ {
			prior := float64(i) / 100
			for _, correct := range []bool{true, false} {
				got := Update(MasteryEstimate{PMastery: prior}, correct, p)
				if got.PMastery < prior {
					t.Fatalf("update(%.2f, correct=%v, %+v) = %.9f, decreased",
						prior, correct, p, got.PMastery)
				}
			}
		}
	}
}

func TestUpdateStaysInUnitInterval(t *testing.T) {
	// Degenerate parameter corners must not produce NaN, Inf, or values
	// outside [0,1].
	corners := []float64{0, 0.5, 1}
	for _, transit := range corners {
		for _, slip := range corners {
			for _, guess := range corners {
				p := Params{PInit: 0.5, PTransit: transit, PSlip: slip, PGuess: guess}
				for i := 0; i <= 20; i++ {
					prior := float64(i) / 20
					for _, correct := range []bool{true, false} {
						got := Update(MasteryEstimate{PMastery: prior}, correct, p)
						if math.IsNaN(got.PMastery) || math.IsInf(got.PMastery, 0) {
							t.Fatalf("update(%.2f, %v, %+v) = %v", prior, correct, p, got.PMastery)
						}
						if got.PMastery < 0 || got.PMastery > 1 {
							t.Fatalf("update(%.2f, %v, %+v) = %v, outside [0,1]",
								prior, correct, p, got.PMastery)
						}
					}
				}
			}
		}
	}
}

func TestUpdateZeroDenominatorKeepsPrior(t *testing.T) {
	// slip=1, guess=0, correct: both posterior terms vanish. The prior must
	// survive (plus the transition), not become NaN.
	p := Params{PInit: 0.3, PTransit: 0, PSlip: 1, PGuess: 0}
	got := Update(MasteryEstimate{PMastery: 0.4}, true, p)
	assertFloat(t, "p_mastery", got.PMastery, 0.4)
}

func TestUpdateClampsAwayFromZero(t *testing.T) {
	// A zero prior with no slip and no learning would collapse to exactly 0;
	// the clamp must leave a strictly positive estimate instead.
	p := Params{PInit: 0.3, PTransit: 0, PSlip: 0, PGuess: 0}
	got := Update(MasteryEstimate{PMastery: 0}, false, p)
	if got.PMastery < Epsilon {
		t.Errorf("p_mastery = %g, want >= %g", got.PMastery, Epsilon)
	}
}

func TestUpdateIncrementsAttempts(t *testing.T) {
	est := MasteryEstimate{PMastery: 0.2, Attempts: 7}
	got := Update(est, false, DefaultParams())
	if got.Attempts != 8 {
		t.Errorf("attempts = %d, want 8", got.Attempts)
	}
}

func TestUpdateDeterministic(t *testing.T) {
	est := MasteryEstimate{PMastery: 0.37, Attempts: 3}
	a := Update(est, true, DefaultParams())
	b := Update(est, true, DefaultParams())
	if a != b {
		t.Errorf("two identical updates disagree: %+v vs %+v", a, b)
	}
}

func TestInitialUsesPInit(t *testing.T) {
	p := Params{PInit: 0.42, PTransit: 0.3, PSlip: 0.1, PGuess: 0.2}
	est := Initial(p)
	assertFloat(t, "p_mastery", est.PMastery, 0.42)
	if est.Attempts != 0 {
		t.Errorf("attempts = %d, want 0", est.Attempts)
	}
}

func TestIncorrectSlowsGrowth(t *testing.T) {
	// From the same prior, a correct answer must advance the estimate at
	// least as far as an incorrect one.
	p := DefaultParams()
	for i := 0; i <= 10; i++ {
		prior := MasteryEstimate{PMastery: float64(i) / 10}
		up := Update(prior, true, p)
		down := Update(prior, false, p)
		if up.PMastery < down.PMastery {
			t.Errorf("prior %.1f: correct -> %.6f < incorrect -> %.6f",
				prior.PMastery, up.PMastery, down.PMastery)
		}
	}
}
