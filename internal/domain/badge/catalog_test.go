package badge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	require.Len(t, catalog.All(), 17)

	b, ok := catalog.Get(LegendBadge)
	require.True(t, ok)
	require.True(t, b.IsMeta())
	require.True(t, b.IsSilent())

	ids := []string{}
	for _, b := range catalog.ByEvent(EventMessageSent) {
		ids = append(ids, b.ID)
	}
	require.Equal(t, []string{
		FirstWordsBadge, ChatterboxBadge, DailyDevoteeBadge, MarathonBadge, NightOwlBadge,
	}, ids)

	copied := catalog.ByEvent(EventMessageCopied)
	require.Len(t, copied, 1)
	require.Equal(t, CrossPollinatorBadge, copied[0].ID)

	require.True(t, catalog.KnowsEvent(EventThemeToggled))
	require.False(t, catalog.KnowsEvent("unknown"))
	require.NotContains(t, catalog.NonMetaIDs(), WellRoundedBadge)
	require.Len(t, catalog.MetaBadges(), 3)
}

func TestNewCatalog(t *testing.T) {
	counter := func(id string) Badge {
		return Badge{ID: id, Trigger: EventMessageSent, Target: 1, Rule: MonotonicCounter{}}
	}

	testCases := []struct {
		name    string
		badges  []Badge
		wantErr string
	}{
		{
			name:   "happy case",
			badges: []Badge{counter("a"), counter("b"), {ID: "m", Target: 2, Meta: MetaLocal, DependentBadgeIDs: []string{"a", "b"}}},
		},
		{
			name:    "duplicated id",
			badges:  []Badge{counter("a"), counter("a")},
			wantErr: "duplicated badge id a",
		},
		{
			name:    "zero target",
			badges:  []Badge{{ID: "a", Trigger: EventMessageSent, Rule: MonotonicCounter{}}},
			wantErr: "badge a has non-positive target 0",
		},
		{
			name:    "no rule",
			badges:  []Badge{{ID: "a", Trigger: EventMessageSent, Target: 1}},
			wantErr: "badge a needs a trigger and a rule",
		},
		{
			name:    "unknown dependency",
			badges:  []Badge{counter("a"), {ID: "m", Target: 1, Meta: MetaLocal, DependentBadgeIDs: []string{"x"}}},
			wantErr: "meta-badge m depends on unknown badge x",
		},
		{
			name:    "unreachable target",
			badges:  []Badge{counter("a"), {ID: "m", Target: 2, Meta: MetaLocal, DependentBadgeIDs: []string{"a"}}},
			wantErr: "meta-badge m can never reach target 2",
		},
		{
			name: "cycle",
			badges: []Badge{
				{ID: "m1", Target: 1, Meta: MetaLocal, DependentBadgeIDs: []string{"m2"}},
				{ID: "m2", Target: 1, Meta: MetaLocal, DependentBadgeIDs: []string{"m1"}},
			},
			wantErr: "meta-badge dependency cycle at m1",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.badges...)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestListing(t *testing.T) {
	catalog := DefaultCatalog()

	public := Listing(catalog, nil)
	for _, e := range public {
		require.NotEqual(t, VisibilitySecret, e.Badge.Visibility)
	}
	require.Len(t, public, 15)

	snapshot := newZeroSnapshot("user1", catalog).with(map[string]Progress{
		NightOwlBadge: {BadgeID: NightOwlBadge, Current: 1, Target: 1, Unlocked: true},
	})

	entries := Listing(catalog, snapshot)
	require.Len(t, entries, 16)

	found := false
	for _, e := range entries {
		if e.Badge.ID == NightOwlBadge {
			found = true
			require.True(t, e.Progress.Unlocked)
		}
	}
	require.True(t, found)
}
