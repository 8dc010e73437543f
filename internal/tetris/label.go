package tetris

var clearLabels = [5]string{"", "Single!", "Double!", "Triple!", "Quad!"}

var tspinLabels = [4]string{"T-Spin!", "T-Spin Single!", "T-Spin Double!", "T-Spin Triple!"}

// Label returns the status text shown after a lock, or "" when the lock
// was unremarkable.
func (l LockInfo) Label() string {
	if l.TSpin {
		if l.LinesCleared < len(tspinLabels) {
			return tspinLabels[l.LinesCleared]
		}
		return tspinLabels[0]
	}
	if l.LinesCleared > 0 && l.LinesCleared < len(clearLabels) {
		return clearLabels[l.LinesCleared]
	}
	return ""
}
