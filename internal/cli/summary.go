package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/bezos-os/bzbuild/internal/build"
	"github.com/pterm/pterm"
)

// Writes one row per target that ran.
func printSummary(w io.Writer, r *build.Report) {
	if r.Help || len(r.Results) == 0 {
		return
	}

	data := pterm.TableData{{"target", "artifact", "tools", "time"}}
	for _, res := range r.Results {
		artifact := res.Artifact
		if artifact == "" {
			artifact = "(failed)"
		}
		data = append(data, []string{
			res.Target,
			artifact,
			fmt.Sprint(len(res.Outcomes)),
			res.Duration.Truncate(time.Millisecond).String(),
		})
	}

	pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}
