package model

// Vibe is the coarse style tag that restricts eligible fonts
type Vibe string

const (
	VibeTame Vibe = "tame"
	VibeWild Vibe = "wild"
)

// HarmonyKind is a color-wheel relationship used to derive accent hues
type HarmonyKind string

const (
	HarmonyAnalogous          HarmonyKind = "analogous"
	HarmonyComplementary      HarmonyKind = "complementary"
	HarmonyTriadic            HarmonyKind = "triadic"
	HarmonySplitComplementary HarmonyKind = "split-complementary"
)

var ValidHarmonies = []HarmonyKind{
	HarmonyAnalogous, HarmonyComplementary, HarmonyTriadic, HarmonySplitComplementary,
}

// Job status
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// Plan is the billing plan of a user as seen by the eligibility gate
type Plan string

const (
	PlanFree Plan = "FREE"
	PlanPro  Plan = "PRO"
)
