package pipeline

import "strings"

// State represents the overall lifecycle of a generation run.
type State string

const (
	StateInitializing State = "initializing"
	StateProcessing   State = "processing"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

// IsTerminal reports whether the run can no longer change.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// ParseState converts a string into a known State.
func ParseState(value string) (State, bool) {
	normalized := State(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case StateInitializing, StateProcessing, StateCompleted, StateFailed:
		return normalized, true
	default:
		return "", false
	}
}

// StageName identifies one stage of the generation pipeline.
type StageName string

const (
	StageTextInput          StageName = "textInput"
	StagePromptOptimization StageName = "promptOptimization"
	StageImageGeneration    StageName = "imageGeneration"
	StageImage3D            StageName = "image3D"
	StageTextureGeneration  StageName = "textureGeneration"
	StageRigging            StageName = "rigging"
	StageSpriteGeneration   StageName = "spriteGeneration"
)

// StageOrder is the canonical execution order. A stage never begins before its
// predecessor reaches a terminal per-stage state.
var StageOrder = []StageName{
	StageTextInput,
	StagePromptOptimization,
	StageImageGeneration,
	StageImage3D,
	StageTextureGeneration,
	StageRigging,
	StageSpriteGeneration,
}

// StageState represents the per-stage lifecycle.
type StageState string

const (
	StagePending    StageState = "pending"
	StageProcessing StageState = "processing"
	StageCompleted  StageState = "completed"
	StageSkipped    StageState = "skipped"
	StageFailed     StageState = "failed"
)

// IsTerminal reports whether a stage has reached a final state.
func (s StageState) IsTerminal() bool {
	switch s {
	case StageCompleted, StageSkipped, StageFailed:
		return true
	default:
		return false
	}
}

// Policy decides whether a stage failure fails the whole run.
type Policy string

const (
	// PolicyRequired fails the run when the stage fails.
	PolicyRequired Policy = "required"
	// PolicyBestEffort records the stage failure and lets the run proceed.
	PolicyBestEffort Policy = "best_effort"
)

// StageStatus is the mutable per-stage record inside a run.
type StageStatus struct {
	Status   StageState `json:"status"`
	Progress int        `json:"progress"`
	Error    string     `json:"error,omitempty"`
}
