package badges

// Category identifies the counter a badge is measured against.
type Category string

const (
	CategoryChallenges Category = "challenges"
	CategoryEducation  Category = "education"
	CategoryNews       Category = "news"
	CategoryDeFi       Category = "defi"
	CategoryCommunity  Category = "community"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{CategoryChallenges, CategoryEducation, CategoryNews, CategoryDeFi, CategoryCommunity}
}

// DisplayName returns a human-readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryChallenges:
		return "Challenges"
	case CategoryEducation:
		return "Education"
	case CategoryNews:
		return "News"
	case CategoryDeFi:
		return "DeFi"
	case CategoryCommunity:
		return "Community"
	default:
		return string(c)
	}
}

// Icon returns the display icon for the category.
func (c Category) Icon() string {
	switch c {
	case CategoryChallenges:
		return "🎯"
	case CategoryEducation:
		return "📘"
	case CategoryNews:
		return "📰"
	case CategoryDeFi:
		return "🔗"
	case CategoryCommunity:
		return "🗳️"
	default:
		return "✦"
	}
}

// Tier is the level of a badge within its category.
type Tier string

const (
	TierBaby    Tier = "baby"
	TierTeenage Tier = "teenage"
	TierAdult   Tier = "adult"
)

// AllTiers returns all tiers from lowest to highest.
func AllTiers() []Tier {
	return []Tier{TierBaby, TierTeenage, TierAdult}
}

// DisplayName returns a human-readable label for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierBaby:
		return "Baby"
	case TierTeenage:
		return "Teenage"
	case TierAdult:
		return "Adult"
	default:
		return string(t)
	}
}

func (t Tier) rank() int {
	switch t {
	case TierBaby:
		return 0
	case TierTeenage:
		return 1
	case TierAdult:
		return 2
	default:
		return -1
	}
}

// Status is the derived state of a badge.
type Status string

const (
	StatusLocked     Status = "locked"
	StatusInProgress Status = "in-progress" // threshold met, not yet collected
	StatusEarned     Status = "earned"
)

// ID returns the canonical badge ID for a category and tier.
func ID(c Category, t Tier) string {
	return string(c) + "-" + string(t)
}
