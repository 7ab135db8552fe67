package dump

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// stampFileName is written into the destination after every extraction.
const stampFileName = ".extract.json"

// extractStamp records the outcome of the last extraction.
type extractStamp struct {
	// ArchiveTime is the fetch time of the archive, truncated to the second.
	ArchiveTime time.Time `json:"archive_time"`

	// Absent lists the requested files the archive did not contain.
	Absent []string `json:"absent,omitempty"`
}

// absentFrom reports whether file was missing from the archive fetched at
// archiveTime. A nil stamp knows nothing.
func (s *extractStamp) absentFrom(file string, archiveTime time.Time) bool {
	if s == nil || !s.ArchiveTime.Equal(toSecond(archiveTime)) {
		return false
	}
	return slices.Contains(s.Absent, file)
}

func (l *Loader) stampPath() string {
	return filepath.Join(l.destination, stampFileName)
}

// readStamp returns the stamp of the last extraction, or nil when there is
// none or it cannot be read.
func (l *Loader) readStamp() *extractStamp {
	data, err := os.ReadFile(l.stampPath())
	if err != nil {
		return nil
	}
	var s extractStamp
	if err := json.Unmarshal(data, &s); err != nil {
		l.logger.Debug("ignoring unreadable extraction stamp", "path", l.stampPath(), "error", err)
		return nil
	}
	return &s
}

func (l *Loader) writeStamp(s extractStamp) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.WriteFile(l.stampPath(), data, 0o600); err != nil {
		return fmt.Errorf("%w: failed to write extraction stamp: %w", ErrIO, err)
	}
	return nil
}
