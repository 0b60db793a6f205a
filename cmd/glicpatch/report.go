package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/glicpatch/internal/domain"
)

// printReport shows one line per Gemini field, then the restart hint.
func printReport(w io.Writer, report *domain.PatchReport, logger *zap.Logger) {
	fields := []struct {
		key     string
		changed bool
		done    string
	}{
		{domain.KeyIsGlicEligible, report.ChangedIsGlic, "Enabled is_glic_eligible"},
		{domain.KeyVariationsCountry, report.ChangedVariationsCountry, "Set variations_country = us"},
		{domain.KeyVariationsPermanentCountry, report.ChangedVariationsPermanentCountry, "Set variations_permanent_consistency_country = us"},
	}

	fmt.Fprintln(w)
	for _, f := range fields {
		if f.changed {
			fmt.Fprintf(w, "✓ %s\n", f.done)
			continue
		}
		fmt.Fprintf(w, "⚠️ %s field not found\n", f.key)
		logger.Warn("field not found", zap.String("field", f.key))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "✅ Done, please restart Chrome")
}

func printRestored(w io.Writer) {
	fmt.Fprintln(w, "✅ Restored from backup, please restart Chrome")
}
