package badge

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type EventKind string

const (
	EventMessageSent       EventKind = "message_sent"
	EventAssistantSwitched EventKind = "assistant_switched"
	EventLanguageChanged   EventKind = "language_changed"
	EventConversationGrew  EventKind = "conversation_grew"
	EventChatOpened        EventKind = "chat_opened"
	EventAssistantUnlocked EventKind = "assistant_unlocked"
	EventChatExported      EventKind = "chat_exported"
	EventThemeToggled      EventKind = "theme_toggled"
	EventAvatarUploaded    EventKind = "avatar_uploaded"
	EventMessageCopied     EventKind = "message_copied"
	EventMessagePasted     EventKind = "message_pasted"
)

type Visibility string

const (
	VisibilityPublic Visibility = "public"
	VisibilityHidden Visibility = "hidden"
	VisibilitySecret Visibility = "secret"
)

type Level string

const (
	LevelBronze   Level = "bronze"
	LevelSilver   Level = "silver"
	LevelGold     Level = "gold"
	LevelPlatinum Level = "platinum"
)

// MetaKind tells how the progress of a meta-badge is derived.
type MetaKind int

const (
	// MetaNone is a badge tracked directly from events.
	MetaNone MetaKind = iota

	// MetaLocal counts the unlocked badges of DependentBadgeIDs in the
	// in-memory snapshot.
	MetaLocal

	// MetaRemoteWindow counts the distinct non-meta badges unlocked within
	// the recent unlock window, as reported by the durable store.
	MetaRemoteWindow
)

type Badge struct {
	ID         string
	Name       string
	Trigger    EventKind
	Target     int
	Visibility Visibility
	Level      Level

	// DependentBadgeIDs is only set for MetaLocal badges.
	DependentBadgeIDs []string
	Meta              MetaKind

	// Rule is nil for meta-badges.
	Rule Rule
}

func (b Badge) IsMeta() bool {
	return b.Meta != MetaNone
}

// IsSilent returns true if unlocking this badge must not produce any toast or
// notification.
func (b Badge) IsSilent() bool {
	return b.Visibility == VisibilityHidden || b.Visibility == VisibilitySecret
}

// triggeredBy returns true if the event must be evaluated against this badge.
// Correlation badges also listen to their staging event.
func (b Badge) triggeredBy(event EventKind) bool {
	if b.IsMeta() {
		return false
	}

	if b.Trigger == event {
		return true
	}

	if stager, ok := b.Rule.(stagingRule); ok {
		return stager.StageEvent() == event
	}

	return false
}

// Catalog is the closed, read-only set of badges. It is safe for concurrent
// use because it is never mutated after NewCatalog returns.
type Catalog struct {
	badges []Badge
	index  map[string]int
}

func NewCatalog(badges ...Badge) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int)}
	for i, b := range badges {
		if b.ID == "" {
			return nil, fmt.Errorf("badge at position %d has no id", i)
		}

		if _, ok := c.index[b.ID]; ok {
			return nil, fmt.Errorf("duplicated badge id %s", b.ID)
		}

		if b.Target <= 0 {
			return nil, fmt.Errorf("badge %s has non-positive target %d", b.ID, b.Target)
		}

		switch b.Meta {
		case MetaNone:
			if b.Rule == nil || b.Trigger == "" {
				return nil, fmt.Errorf("badge %s needs a trigger and a rule", b.ID)
			}

			if len(b.DependentBadgeIDs) > 0 {
				return nil, fmt.Errorf("badge %s has dependencies but is not a meta-badge", b.ID)
			}

		case MetaLocal:
			if len(b.DependentBadgeIDs) < b.Target {
				return nil, fmt.Errorf("meta-badge %s can never reach target %d", b.ID, b.Target)
			}

		case MetaRemoteWindow:
			if len(b.DependentBadgeIDs) > 0 {
				return nil, fmt.Errorf("remote meta-badge %s cannot declare dependencies", b.ID)
			}

		default:
			return nil, fmt.Errorf("badge %s has unknown meta kind %d", b.ID, b.Meta)
		}

		c.index[b.ID] = len(c.badges)
		c.badges = append(c.badges, b)
	}

	for _, b := range c.badges {
		for _, dep := range b.DependentBadgeIDs {
			if _, ok := c.index[dep]; !ok {
				return nil, fmt.Errorf("meta-badge %s depends on unknown badge %s", b.ID, dep)
			}
		}
	}

	if err := c.checkCycle(); err != nil {
		return nil, err
	}

	return c, nil
}

func MustNewCatalog(badges ...Badge) *Catalog {
	c, err := NewCatalog(badges...)
	if err != nil {
		panic(err)
	}

	return c
}

func (c *Catalog) checkCycle() error {
	const (
		unvisited = iota
		visiting
		visited
	)

	state := make(map[string]int, len(c.badges))
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visiting:
			return fmt.Errorf("meta-badge dependency cycle at %s", id)
		case visited:
			return nil
		}

		state[id] = visiting
		b := c.badges[c.index[id]]
		for _, dep := range b.DependentBadgeIDs {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[id] = visited

		return nil
	}

	for _, b := range c.badges {
		if err := visit(b.ID); err != nil {
			return err
		}
	}

	return nil
}

func (c *Catalog) Get(id string) (Badge, bool) {
	i, ok := c.index[id]
	if !ok {
		return Badge{}, false
	}

	return c.badges[i], true
}

// All returns every badge in declaration order.
func (c *Catalog) All() []Badge {
	return slices.Clone(c.badges)
}

// ByEvent returns the non-meta badges which must be evaluated for the event,
// in declaration order.
func (c *Catalog) ByEvent(event EventKind) []Badge {
	result := []Badge{}
	for _, b := range c.badges {
		if b.triggeredBy(event) {
			result = append(result, b)
		}
	}

	return result
}

func (c *Catalog) MetaBadges() []Badge {
	result := []Badge{}
	for _, b := range c.badges {
		if b.IsMeta() {
			result = append(result, b)
		}
	}

	return result
}

// NonMetaIDs returns the ids of every directly tracked badge.
func (c *Catalog) NonMetaIDs() []string {
	result := []string{}
	for _, b := range c.badges {
		if !b.IsMeta() {
			result = append(result, b.ID)
		}
	}

	return result
}

// KnowsEvent returns true if at least one badge listens to the event.
func (c *Catalog) KnowsEvent(event EventKind) bool {
	return slices.IndexFunc(c.badges, func(b Badge) bool {
		return b.triggeredBy(event)
	}) >= 0
}
