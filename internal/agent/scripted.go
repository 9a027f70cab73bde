package agent

import (
	"context"
	"fmt"
	"sync"
)

// ScriptedPlanner replays a fixed sequence of actions. It exists so the loop
// can be exercised deterministically without a model behind it.
type ScriptedPlanner struct {
	mu      sync.Mutex
	actions []Action
}

// NewScriptedPlanner builds a planner that returns the given actions in order.
func NewScriptedPlanner(actions ...Action) *ScriptedPlanner {
	return &ScriptedPlanner{actions: append([]Action(nil), actions...)}
}

// Plan pops the next scripted action. It fails once the script is exhausted.
func (p *ScriptedPlanner) Plan(ctx context.Context, transcript []Message) (*Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.actions) == 0 {
		return nil, fmt.Errorf("scripted planner has no actions left")
	}
	action := p.actions[0]
	p.actions = p.actions[1:]
	return &action, nil
}
