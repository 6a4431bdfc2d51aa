package routing

// Category is the closed set of safety/service lanes a message can route to.
type Category string

const (
	CategoryUrgentSafety      Category = "urgent_safety"
	CategoryTitleIX           Category = "title_ix"
	CategoryHarassmentHate    Category = "harassment_hate"
	CategoryRetentionWithdraw Category = "retention_withdraw"
	CategoryCounseling        Category = "counseling"
)

func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is one of the known lanes.
func (c Category) Valid() bool {
	switch c {
	case CategoryUrgentSafety, CategoryTitleIX, CategoryHarassmentHate, CategoryRetentionWithdraw, CategoryCounseling:
		return true
	}
	return false
}

// defaultPriority is the evaluation order when a rules file does not provide one.
// Lower evaluates first; urgent_safety must stay lowest.
var defaultPriority = map[Category]int{
	CategoryUrgentSafety:      1,
	CategoryTitleIX:           2,
	CategoryHarassmentHate:    3,
	CategoryRetentionWithdraw: 4,
	CategoryCounseling:        5,
}

// DefaultPriority returns the built-in priority for a category, or 100 for
// categories outside the default ordering.
func DefaultPriority(c Category) int {
	if p, ok := defaultPriority[c]; ok {
		return p
	}
	return 100
}
