package generator

// FinalCleanup tries to leave no position where base and target agree.
// Matching positions are swapped with a partner that creates no new
// match; if any survive a sweep, the whole number is shifted and the
// survivors rechecked. After maxCleanupAttempts sweeps whatever remains
// is accepted.
func (g *Generator) FinalCleanup(target, base string) string {
	current := []byte(base)

	var matching []int
	for i := 0; i < len(target) && i < len(current); i++ {
		if target[i] == current[i] {
			matching = append(matching, i)
		}
	}
	if len(matching) == 0 {
		return base
	}
	g.logger.Debug("cleanup", "target", target, "base", base, "matching", matching)

	for attempt := 0; len(matching) > 0 && attempt < maxCleanupAttempts; attempt++ {
		for i := len(matching) - 1; i >= 0; i-- {
			m := matching[i]
			for j := range current {
				if j == m || target[j] == current[m] || target[m] == current[j] {
					continue
				}
				current[m], current[j] = current[j], current[m]
				g.logger.Debug("cleanup swap", "a", m, "b", j, "result", string(current))
				if target[m] != current[m] {
					matching = append(matching[:i], matching[i+1:]...)
				}
				break
			}
		}

		if len(matching) > 0 {
			current = []byte(g.shift(string(current)))
			for i := len(matching) - 1; i >= 0; i-- {
				if target[matching[i]] != current[matching[i]] {
					matching = append(matching[:i], matching[i+1:]...)
				}
			}
			g.logger.Debug("cleanup shift", "result", string(current), "matching", matching)
		}
	}

	return string(current)
}
