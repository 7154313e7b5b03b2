package recovery

type Action string

const (
	ActionNormal  Action = "normal"
	ActionLight   Action = "light"
	ActionRestart Action = "restart"
	ActionMinimal Action = "minimal"
)

// Suggestion tells a returning user how to restart after a break.
type Suggestion struct {
	Days         int     `json:"days"`
	Action       Action  `json:"action"`
	Icon         string  `json:"icon"`
	Title        string  `json:"title"`
	Message      string  `json:"message"`
	VolumeFactor float64 `json:"volumeFactor,omitempty"`
	MaxSets      int     `json:"maxSets,omitempty"`
	MaxExercises int     `json:"maxExercises,omitempty"`
	Minutes      int     `json:"minutes,omitempty"`
}

// Advise maps the days since the last workout onto a suggestion. Gaps of 0
// and 1 day (and negative input) get none.
func Advise(days int) (Suggestion, bool) {
	switch {
	case days <= 1:
		return Suggestion{}, false
	case days <= 3:
		return Suggestion{
			Days:         days,
			Action:       ActionNormal,
			Icon:         "👋",
			Title:        "Welcome back!",
			Message:      "A short rest is fine. Train as planned today.",
			VolumeFactor: 1,
		}, true
	case days <= 7:
		return Suggestion{
			Days:         days,
			Action:       ActionLight,
			Icon:         "🌱",
			Title:        "Ease back in",
			Message:      "Start at about 80% of your usual volume to get back into rhythm.",
			VolumeFactor: 0.8,
		}, true
	case days <= 14:
		return Suggestion{
			Days:    days,
			Action:  ActionRestart,
			Icon:    "🔄",
			Title:   "Restart gently",
			Message: "Do just 1-2 sets per exercise today, whatever your level.",
			MaxSets: 2,
		}, true
	default:
		return Suggestion{
			Days:         days,
			Action:       ActionMinimal,
			Icon:         "💡",
			Title:        "Any movement counts",
			Message:      "Pick one exercise and do 5 minutes of easy warm-up. Rebuilding the habit comes first.",
			MaxExercises: 1,
			Minutes:      5,
		}, true
	}
}
