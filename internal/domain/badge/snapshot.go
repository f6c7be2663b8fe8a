package badge

import "time"

// Progress is the state of one badge for one user.
type Progress struct {
	BadgeID    string
	Current    int
	Target     int
	Unlocked   bool
	UnlockedAt time.Time
}

// Snapshot is an immutable view of the progress of every catalog badge for a
// user. Updates build a new Snapshot, so a reader holding one never sees a
// partially applied pass.
type Snapshot struct {
	userID   string
	progress map[string]Progress
}

// newZeroSnapshot returns a snapshot where every badge is locked at zero.
func newZeroSnapshot(userID string, catalog *Catalog) *Snapshot {
	s := &Snapshot{userID: userID, progress: make(map[string]Progress)}
	for _, b := range catalog.All() {
		s.progress[b.ID] = Progress{BadgeID: b.ID, Target: b.Target}
	}

	return s
}

func (s *Snapshot) UserID() string {
	return s.userID
}

// Get returns the progress of the badge. Unknown badges are reported as not
// found.
func (s *Snapshot) Get(badgeID string) (Progress, bool) {
	p, ok := s.progress[badgeID]
	return p, ok
}

// ProgressByBadgeID returns a copy of the progress map.
func (s *Snapshot) ProgressByBadgeID() map[string]Progress {
	result := make(map[string]Progress, len(s.progress))
	for k, v := range s.progress {
		result[k] = v
	}

	return result
}

func (s *Snapshot) IsUnlocked(badgeID string) bool {
	return s.progress[badgeID].Unlocked
}

// CountUnlocked returns how many of the given badges are unlocked.
func (s *Snapshot) CountUnlocked(badgeIDs []string) int {
	count := 0
	for _, id := range badgeIDs {
		if s.IsUnlocked(id) {
			count++
		}
	}

	return count
}

// with returns a new snapshot where the given rows replace the old ones.
func (s *Snapshot) with(changes map[string]Progress) *Snapshot {
	if len(changes) == 0 {
		return s
	}

	next := &Snapshot{userID: s.userID, progress: make(map[string]Progress, len(s.progress))}
	for k, v := range s.progress {
		next.progress[k] = v
	}

	for k, v := range changes {
		next.progress[k] = v
	}

	return next
}
