package badge

// Entry is one badge of the achievement gallery.
type Entry struct {
	Badge    Badge
	Progress Progress
}

// Listing returns the gallery of the catalog in declaration order. Secret
// badges are only listed once unlocked. A nil snapshot lists the catalog
// without progress, hence without any secret badge.
func Listing(catalog *Catalog, snapshot *Snapshot) []Entry {
	result := []Entry{}
	for _, b := range catalog.All() {
		p := Progress{BadgeID: b.ID, Target: b.Target}
		if snapshot != nil {
			if stored, ok := snapshot.Get(b.ID); ok {
				p = stored
			}
		}

		if b.Visibility == VisibilitySecret && !p.Unlocked {
			continue
		}

		result = append(result, Entry{Badge: b, Progress: p})
	}

	return result
}
