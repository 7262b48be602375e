package session

import (
	"strings"

	"github.com/jsphweid/cuegrid/model"
	"github.com/pkg/errors"
)

type Tool int

const (
	ToolStandard Tool = iota
	ToolHold
	ToolHorizontal
	ToolVertical
	ToolChainStart
	ToolChainNode
	ToolMelee
	ToolDragSelect
	ToolChainBuilder
	ToolNone
)

var toolNames = []string{
	"standard", "hold", "horizontal", "vertical", "chain-start",
	"chain-node", "melee", "drag-select", "chain-builder", "none",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}

func ParseTool(s string) (Tool, error) {
	for i, name := range toolNames {
		if strings.EqualFold(s, name) {
			return Tool(i), nil
		}
	}
	return ToolNone, errors.Errorf("unknown tool %q", s)
}

// behavior is what placing with the tool creates. Tools that do not place
// targets report false.
func (t Tool) behavior() (model.Behavior, bool) {
	switch t {
	case ToolStandard:
		return model.BehaviorStandard, true
	case ToolHold:
		return model.BehaviorHold, true
	case ToolHorizontal:
		return model.BehaviorHorizontal, true
	case ToolVertical:
		return model.BehaviorVertical, true
	case ToolChainStart:
		return model.BehaviorChainStart, true
	case ToolChainNode:
		return model.BehaviorChain, true
	case ToolMelee:
		return model.BehaviorMelee, true
	case ToolChainBuilder:
		return model.BehaviorNone, false
	}
	return model.BehaviorNone, false
}

func (t Tool) places() bool {
	_, ok := t.behavior()
	return ok
}

type Mode int

const (
	ModeCompose Mode = iota
	ModeMetadata
	ModeSettings
)

var modeNames = []string{"compose", "metadata", "settings"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return ModeCompose, errors.Errorf("unknown mode %q", s)
}
