package activity

// streakWalk walks an ascending day-key sequence once and returns the run
// ending at the last day plus the longest run seen anywhere. This is the one
// streak algorithm in the system; both the submission path and the bulk
// reconciliation path go through it.
func streakWalk(dayKeys []string) (run, longest int) {
	for i := range dayKeys {
		if i == 0 || DaysBetween(dayKeys[i-1], dayKeys[i]) > 1 {
			run = 1
		} else {
			run++
		}
		if run > longest {
			longest = run
		}
	}
	return run, longest
}

// ComputeStreak derives the streak numbers as of asOf. The terminal run only
// counts as the current streak when the last active day is asOf itself;
// otherwise the streak is broken and only the longest survives.
func ComputeStreak(dayKeys []string, asOf string) (current, longest int) {
	run, longest := streakWalk(dayKeys)
	if len(dayKeys) > 0 && dayKeys[len(dayKeys)-1] == asOf {
		current = run
	}
	return current, longest
}
