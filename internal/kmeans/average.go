package kmeans

// average accumulates a running mean.
type average struct {
	sum   float64
	count int
}

func (a *average) add(v float64) {
	a.sum += v
	a.count++
}

// value is NaN for an empty average.
func (a *average) value() float64 { return a.sum / float64(a.count) }
