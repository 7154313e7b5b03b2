package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/calisthenics/internal/stats"
	"github.com/2beens/calisthenics/internal/store"
	"github.com/2beens/calisthenics/internal/workout"
)

const FormatVersion = 1

var ErrInvalidExport = errors.New("invalid export")

// Export is the full state of the tracker as a single JSON document.
type Export struct {
	Version    int                    `json:"version"`
	ExportedAt time.Time              `json:"exportDate"`
	Progress   []workout.UserProgress `json:"userProgress"`
	Logs       []workout.WorkoutLog   `json:"workoutLogs"`
	Plan       workout.WeeklyPlan     `json:"weeklyPlan"`
	Settings   map[string]string      `json:"settings"`
	Stats      stats.Snapshot         `json:"stats"`
}

func New(state store.State, snapshot stats.Snapshot, now time.Time) Export {
	return Export{
		Version:    FormatVersion,
		ExportedAt: now,
		Progress:   state.Progress,
		Logs:       state.Logs,
		Plan:       state.Plan,
		Settings:   state.Settings,
		Stats:      snapshot,
	}
}

func (e Export) State() store.State {
	return store.State{
		Progress: e.Progress,
		Logs:     e.Logs,
		Plan:     e.Plan,
		Settings: e.Settings,
	}
}

// Filename is the name a backup of this export is stored under.
func (e Export) Filename() string {
	return fmt.Sprintf("calisthenics-backup-%s.json", workout.DateOf(e.ExportedAt))
}

func (e Export) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// Decode reads and validates an export. Logs without an id get one derived
// from their content, so importing the same file twice adds nothing.
func Decode(r io.Reader) (*Export, error) {
	var e Export
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}
	if e.Version > FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidExport, e.Version)
	}

	for i, l := range e.Logs {
		if l.ID == "" {
			l.ID = contentID(l)
		}
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("%w: log %d: %w", ErrInvalidExport, i, err)
		}
		e.Logs[i] = l
	}
	for _, p := range e.Progress {
		if p.ExerciseKey == "" || p.Level < 1 || p.Level > 10 {
			return nil, fmt.Errorf("%w: progress [%s] level %d", ErrInvalidExport, p.ExerciseKey, p.Level)
		}
	}
	return &e, nil
}

func contentID(l workout.WorkoutLog) string {
	parts := []string{
		l.Date.String(),
		l.ExerciseKey,
		fmt.Sprint(l.Level, l.Completed, l.Sets, l.Reps),
		string(l.Feeling),
		string(l.SkipReason),
		l.Note,
		l.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(parts, "|"))).String()
}
