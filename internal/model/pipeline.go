package model

// PipelineState is a state of the generation state machine
type PipelineState string

const (
	StateValidating          PipelineState = "validating"
	StateCheckingEligibility PipelineState = "checking_eligibility"
	StateFilteringFonts      PipelineState = "filtering_fonts"
	StateRunningStrategy     PipelineState = "running_strategy"
	StateResolvingColors     PipelineState = "resolving_colors"
	StateRenderingImage      PipelineState = "rendering_image"
	StateUploadingAsset      PipelineState = "uploading_asset"
	StatePersisting          PipelineState = "persisting"
	StateDone                PipelineState = "done"
	StateFailed              PipelineState = "failed"
)

// Progress returns a coarse completion percentage for a state. Used
// for async job progress reporting.
func (s PipelineState) Progress() int {
	switch s {
	case StateValidating:
		return 0
	case StateCheckingEligibility:
		return 5
	case StateFilteringFonts:
		return 10
	case StateRunningStrategy:
		return 15
	case StateResolvingColors:
		return 40
	case StateRenderingImage:
		return 45
	case StateUploadingAsset:
		return 80
	case StatePersisting:
		return 90
	case StateDone:
		return 100
	}
	return 0
}
