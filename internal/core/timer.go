package core

// FrameTimer counts simulation ticks. It fires once after an initial delay
// and then every period ticks, the way held keys auto-repeat.
type FrameTimer struct {
	delay, period int
	left, next    int
}

// NewFrameTimer returns a timer with the given delay (>= 0) and repeat
// period (>= 1). Invalid arguments panic.
func NewFrameTimer(delay, period int) *FrameTimer {
	if delay < 0 {
		panic("core: frame timer delay must be >= 0")
	}
	if period < 1 {
		panic("core: frame timer period must be >= 1")
	}
	return &FrameTimer{delay: delay, period: period, left: delay, next: period}
}

// Reset restarts the delay.
func (t *FrameTimer) Reset() {
	t.left = t.delay
	t.next = t.period
}

// SetPeriod changes the repeat period, keeping the timer's phase where
// possible.
func (t *FrameTimer) SetPeriod(period int) {
	if period < 1 {
		period = 1
	}
	t.period = period
	if t.next > period {
		t.next = period
	}
}

// Period returns the repeat period.
func (t *FrameTimer) Period() int { return t.period }

// Tick advances the timer one tick and reports whether it fired.
func (t *FrameTimer) Tick() bool {
	if t.left > 0 {
		t.left--
		return t.left == 0
	}
	t.next--
	if t.next == 0 {
		t.next = t.period
		return true
	}
	return false
}
