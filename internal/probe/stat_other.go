//go:build !linux && !darwin

package probe

import (
	"os"

	"github.com/fsinv/fsinv/internal/record"
)

func fillSys(rec *record.Record, info os.FileInfo) {
	fillPortable(rec, info)
}
