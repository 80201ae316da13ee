package game

import (
	"log/slog"
)

// Unload flushes output files and logs a run summary. It does not close the
// raylib window.
func (g *Game) Unload() {
	g.logSummary()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
