package models

// Achievement is a tag earned by crossing a fixed streak or total threshold.
type Achievement string

const (
	AchievementStreak3  Achievement = "streak-3"
	AchievementStreak7  Achievement = "streak-7"
	AchievementSilent30 Achievement = "silent-30"
)

// Title returns the label shown to the user.
func (a Achievement) Title() string {
	switch a {
	case AchievementStreak3:
		return "🔥 3 days streak"
	case AchievementStreak7:
		return "🏅 7 days streak"
	case AchievementSilent30:
		return "🌟 30 silent days"
	default:
		return string(a)
	}
}
