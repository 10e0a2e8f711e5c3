package journal

// bestEffort runs fn and discards its error after logging it. Side effects
// attached to a primary operation (stats update, commit-time memoization)
// go through here so they can never fail the operation they ride on.
func bestEffort(logger Logger, what string, fn func() error) {
	if err := fn(); err != nil {
		logger.Warn("best-effort step failed", "step", what, "error", err)
	}
}
