package badge

const (
	FirstWordsBadge      = "first_words"
	ChatterboxBadge      = "chatterbox"
	ExplorerBadge        = "explorer"
	PolyglotBadge        = "polyglot"
	DeepDiveBadge        = "deep_dive"
	DailyDevoteeBadge    = "daily_devotee"
	MarathonBadge        = "marathon"
	NightOwlBadge        = "night_owl"
	CrossPollinatorBadge = "cross_pollinator"
	LoyalCompanionBadge  = "loyal_companion"
	CollectorBadge       = "collector"
	ArchivistBadge       = "archivist"
	StylistBadge         = "stylist"
	NewFaceBadge         = "new_face"
	WellRoundedBadge     = "well_rounded"
	OverachieverBadge    = "overachiever"
	LegendBadge          = "legend"
)

// DefaultCatalog returns the badges of the application.
func DefaultCatalog() *Catalog {
	return MustNewCatalog(
		Badge{
			ID: FirstWordsBadge, Name: "First Words",
			Trigger: EventMessageSent, Target: 1,
			Visibility: VisibilityPublic, Level: LevelBronze,
			Rule: MonotonicCounter{},
		},
		Badge{
			ID: ChatterboxBadge, Name: "Chatterbox",
			Trigger: EventMessageSent, Target: 100,
			Visibility: VisibilityPublic, Level: LevelSilver,
			Rule: MonotonicCounter{},
		},
		Badge{
			ID: ExplorerBadge, Name: "Explorer",
			Trigger: EventAssistantSwitched, Target: 3,
			Visibility: VisibilityPublic, Level: LevelBronze,
			Rule: UniqueSet{},
		},
		Badge{
			ID: PolyglotBadge, Name: "Polyglot",
			Trigger: EventLanguageChanged, Target: 3,
			Visibility: VisibilityPublic, Level: LevelSilver,
			Rule: UniqueSet{},
		},
		Badge{
			ID: DeepDiveBadge, Name: "Deep Dive",
			Trigger: EventConversationGrew, Target: 50,
			Visibility: VisibilityPublic, Level: LevelSilver,
			Rule: HighWaterMark{},
		},
		Badge{
			ID: DailyDevoteeBadge, Name: "Daily Devotee",
			Trigger: EventMessageSent, Target: 20,
			Visibility: VisibilityPublic, Level: LevelGold,
			Rule: DayScoped{},
		},
		Badge{
			ID: MarathonBadge, Name: "Marathon",
			Trigger: EventMessageSent, Target: 30,
			Visibility: VisibilityPublic, Level: LevelGold,
			Rule: SessionScoped{},
		},
		Badge{
			ID: NightOwlBadge, Name: "Night Owl",
			Trigger: EventMessageSent, Target: 1,
			Visibility: VisibilitySecret, Level: LevelBronze,
			Rule: TimeWindowGate{FromHour: 0, ToHour: 5},
		},
		Badge{
			ID: CrossPollinatorBadge, Name: "Cross Pollinator",
			Trigger: EventMessagePasted, Target: 1,
			Visibility: VisibilityHidden, Level: LevelSilver,
			Rule: CorrelationPair{Stage: EventMessageCopied},
		},
		Badge{
			ID: LoyalCompanionBadge, Name: "Loyal Companion",
			Trigger: EventChatOpened, Target: 7,
			Visibility: VisibilityPublic, Level: LevelGold,
			Rule: Streak{},
		},
		Badge{
			ID: CollectorBadge, Name: "Collector",
			Trigger: EventAssistantUnlocked, Target: 5,
			Visibility: VisibilityPublic, Level: LevelGold,
			Rule: MonotonicCounter{},
		},
		Badge{
			ID: ArchivistBadge, Name: "Archivist",
			Trigger: EventChatExported, Target: 3,
			Visibility: VisibilityPublic, Level: LevelBronze,
			Rule: MonotonicCounter{},
		},
		Badge{
			ID: StylistBadge, Name: "Stylist",
			Trigger: EventThemeToggled, Target: 10,
			Visibility: VisibilityHidden, Level: LevelBronze,
			Rule: MonotonicCounter{},
		},
		Badge{
			ID: NewFaceBadge, Name: "New Face",
			Trigger: EventAvatarUploaded, Target: 1,
			Visibility: VisibilityPublic, Level: LevelBronze,
			Rule: MonotonicCounter{},
		},
		Badge{
			ID: WellRoundedBadge, Name: "Well Rounded",
			Target: 3, Visibility: VisibilityPublic, Level: LevelGold,
			Meta: MetaLocal,
			DependentBadgeIDs: []string{
				FirstWordsBadge, ExplorerBadge, PolyglotBadge, ArchivistBadge, NewFaceBadge,
			},
		},
		Badge{
			ID: OverachieverBadge, Name: "Overachiever",
			Target: 5, Visibility: VisibilityPublic, Level: LevelGold,
			Meta: MetaRemoteWindow,
		},
		Badge{
			ID: LegendBadge, Name: "Legend",
			Target: 3, Visibility: VisibilitySecret, Level: LevelPlatinum,
			Meta: MetaLocal,
			DependentBadgeIDs: []string{
				WellRoundedBadge, OverachieverBadge, LoyalCompanionBadge,
			},
		},
	)
}
