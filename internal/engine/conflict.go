package engine

import "MarketLens/internal/domain/models"

// DetectConflict flags disagreement among signal directions. Zero-valued
// signals are neutral and excluded from the count. With aligned = signals
// on the majority sign and opposing = signals on the minority sign, the
// set conflicts when opposing >= aligned: no clear majority, or an exact
// tie. Ties count as conflict on purpose. An all-neutral set has no
// directions to disagree, so it is non-conflicting.
func DetectConflict(signals models.NormalizedSignals) bool {
	var pos, neg int
	for _, v := range []float64{signals.Trend, signals.News, signals.Risk, signals.Volatility} {
		switch {
		case v > 0:
			pos++
		case v < 0:
			neg++
		}
	}
	if pos+neg == 0 {
		return false
	}

	aligned, opposing := pos, neg
	if neg > pos {
		aligned, opposing = neg, pos
	}
	return opposing >= aligned
}
