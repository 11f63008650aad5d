package trackcurve

// CurveDuration pairs a power-curve label with its length in seconds.
type CurveDuration struct {
	Label   string
	Seconds float64
}

// TotalLabel names the synthetic whole-activity duration appended to
// the curve when the track has any moving time.
const TotalLabel = "Total"

// curveDurations is the fixed evaluation grid for the power curve.
var curveDurations = []CurveDuration{
	{"5s", 5},
	{"10s", 10},
	{"20s", 20},
	{"30s", 30},
	{"1min", 60},
	{"2min", 120},
	{"5min", 300},
	{"10min", 600},
	{"20min", 1200},
	{"30min", 1800},
	{"1h", 3600},
	{"2h", 7200},
	{"5h", 18000},
}

// CurveDurations returns the fixed target durations in evaluation
// order, excluding the synthetic Total entry.
func CurveDurations() []CurveDuration {
	return append([]CurveDuration(nil), curveDurations...)
}

// windowTolerance accepts windows whose cumulative duration is at
// least this fraction of the target; real-world sampling rarely lands
// exactly on a duration boundary.
const windowTolerance = 0.95

// ComputePowerCurve computes the best-average-power curve over the
// fixed duration grid plus a Total entry for the track's moving time.
// The curve is set to nil when no sample has power above zero together
// with a timestamp. Durations exceeding the total moving time, and
// durations no single segment can satisfy, yield nil entries.
func (t *Track) ComputePowerCurve(pauseThresholdSeconds float64) {
	hasPower := false
	for i := range t.Samples {
		s := &t.Samples[i]
		if s.Power != nil && *s.Power > 0 && s.HasTimestamp() {
			hasPower = true
			break
		}
	}
	if !hasPower {
		t.PowerCurve = nil
		return
	}

	durations := CurveDurations()
	movingTime := t.MovingTime(pauseThresholdSeconds)
	if movingTime > 0 {
		durations = append(durations, CurveDuration{TotalLabel, movingTime})
	}

	curve := make(PowerCurve, len(durations))
	segments := t.MovingSegments(pauseThresholdSeconds)
	if len(segments) == 0 {
		for _, d := range durations {
			curve[d.Label] = nil
		}
		t.PowerCurve = curve
		return
	}

	for _, d := range durations {
		if movingTime < d.Seconds && d.Label != TotalLabel {
			curve[d.Label] = nil
			continue
		}
		curve[d.Label] = t.bestAveragePower(segments, d.Seconds)
	}
	t.PowerCurve = curve
}

// interval is the elapsed time between two adjacent segment samples
// and the time-weighted trapezoid power across it: the mean of the
// endpoint readings weighted by the interval length.
type interval struct {
	dt        float64
	powerTime float64
}

// powerWindow is the running two-pointer window over a segment's
// intervals. Sums are maintained incrementally so each interval is
// added and removed exactly once per duration.
type powerWindow struct {
	start     int
	duration  float64
	powerTime float64
}

func (w *powerWindow) extend(iv interval) {
	w.duration += iv.dt
	w.powerTime += iv.powerTime
}

func (w *powerWindow) dropLeft(iv interval) {
	w.duration -= iv.dt
	w.powerTime -= iv.powerTime
	w.start++
}

// bestAveragePower finds the maximum time-weighted average power over
// any contiguous window of duration >= windowTolerance*target, never
// spanning a segment boundary. Returns nil when no window qualifies.
func (t *Track) bestAveragePower(segments [][]int, targetSeconds float64) *float64 {
	var best *float64

	for _, segment := range segments {
		if len(segment) < 2 {
			continue
		}
		intervals := t.segmentIntervals(segment)

		win := powerWindow{}
		for end := 0; end < len(intervals); end++ {
			win.extend(intervals[end])

			for win.duration > targetSeconds && win.start <= end {
				win.dropLeft(intervals[win.start])
			}

			if win.duration >= targetSeconds*windowTolerance && win.duration > 0 {
				avg := win.powerTime / win.duration
				if best == nil || avg > *best {
					v := avg
					best = &v
				}
			}
		}
	}

	return best
}

// segmentIntervals precomputes the (dt, dt*power) pairs for one
// segment. Segment membership guarantees power and timestamps are
// present on every sample.
func (t *Track) segmentIntervals(segment []int) []interval {
	out := make([]interval, 0, len(segment)-1)
	for i := 0; i < len(segment)-1; i++ {
		cur := &t.Samples[segment[i]]
		next := &t.Samples[segment[i+1]]

		dt := next.Timestamp.Sub(cur.Timestamp).Seconds()
		avgPower := (*cur.Power + *next.Power) / 2
		out = append(out, interval{dt: dt, powerTime: avgPower * dt})
	}
	return out
}
