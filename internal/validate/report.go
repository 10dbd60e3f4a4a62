// =============================================================================
// RSS Export Tool - Validation Report
// =============================================================================

package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// writeLog records every check into log_<ST>.log inside the package
// directory, one line per check, SUCCESS- or HARD FAIL- prefixed, with
// warnings marked separately.
func (v *Validator) writeLog(dir string, res *Result) error {
	now := v.Now
	if now.IsZero() {
		now = time.Now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "RSS package validation %s\n", uuid.NewString())
	fmt.Fprintf(&b, "Package: %s\n", dir)
	fmt.Fprintf(&b, "Date: %s\n\n", now.Format("2006-01-02 15:04:05"))

	for _, c := range res.Checks {
		prefix := "SUCCESS-"
		if !c.Passed {
			if c.Hard {
				prefix = "HARD FAIL-"
			} else {
				prefix = "WARNING-"
			}
		}
		fmt.Fprintf(&b, "%s %s: %s\n", prefix, c.Name, c.Detail)
	}

	fmt.Fprintf(&b, "\nResult: %s\n", res.Code())

	res.LogPath = filepath.Join(dir, "log_"+res.State+".log")
	if err := os.WriteFile(res.LogPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write validation log: %w", err)
	}
	return nil
}
