package domain

// Snapshot is a read-only view of a presenter's position, suitable for transport.
type Snapshot struct {
	SessionID  string   `json:"session_id,omitempty"`
	Topic      string   `json:"topic,omitempty"`
	Loaded     bool     `json:"loaded"`
	Cursor     Cursor   `json:"cursor"`
	SubTopic   string   `json:"sub_topic_name,omitempty"`
	SlideTitle string   `json:"slide_title,omitempty"`
	Progress   Progress `json:"progress"`
	Step       int      `json:"step"`
	TotalSteps int      `json:"total_steps"`
	// Indicator mirrors the text published to the step indicator ("current / total").
	Indicator   string `json:"indicator"`
	PrevEnabled bool   `json:"prev_enabled"`
	NextEnabled bool   `json:"next_enabled"`
}

// FullyRevealed reports whether every reveal target of the slide is visible.
func (s Snapshot) FullyRevealed() bool {
	return s.Step >= s.TotalSteps
}

// SnapshotDiff carries only the fields that changed between two snapshots.
// It is serialized to JSON for partial updates on streaming clients.
type SnapshotDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Cursor     *Cursor   `json:"cursor,omitempty"`
	SlideTitle *string   `json:"slide_title,omitempty"`
	Progress   *Progress `json:"progress,omitempty"`
	Step       *int      `json:"step,omitempty"`
	TotalSteps *int      `json:"total_steps,omitempty"`
	Indicator  *string   `json:"indicator,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{SessionID: newSnap.SessionID}

	if oldSnap == nil || oldSnap.Cursor != newSnap.Cursor {
		c := newSnap.Cursor
		diff.Cursor = &c
	}
	if oldSnap == nil || oldSnap.SlideTitle != newSnap.SlideTitle {
		t := newSnap.SlideTitle
		diff.SlideTitle = &t
	}
	if oldSnap == nil || oldSnap.Progress != newSnap.Progress {
		p := newSnap.Progress
		diff.Progress = &p
	}
	if oldSnap == nil || oldSnap.Step != newSnap.Step {
		s := newSnap.Step
		diff.Step = &s
	}
	if oldSnap == nil || oldSnap.TotalSteps != newSnap.TotalSteps {
		n := newSnap.TotalSteps
		diff.TotalSteps = &n
	}
	if oldSnap == nil || oldSnap.Indicator != newSnap.Indicator {
		i := newSnap.Indicator
		diff.Indicator = &i
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Cursor == nil &&
		d.SlideTitle == nil &&
		d.Progress == nil &&
		d.Step == nil &&
		d.TotalSteps == nil &&
		d.Indicator == nil
}
