package service

const (
	// Persisted keys
	GoalKey    = "rehab_goal"
	ProfileKey = "rehab_profile"
	PostureKey = "rehab_posture"

	// DefaultOwner is the placeholder user every session is recorded for
	DefaultOwner = "local-guest-user"

	// AnonymousName is shown when the profile has no display name
	AnonymousName = "Anonymous"

	// Onboarding goal bounds; anything non-positive falls back to FallbackGoal
	MinOnboardingGoal = 1
	MaxOnboardingGoal = 20
	FallbackGoal      = 5

	SecondsPerMinute = 60
)
