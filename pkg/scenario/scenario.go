// Package scenario loads task definitions from YAML and compiles them
// into engine tasks. It exists for the CLI and for hosts that want to
// describe simple coordination flows as data instead of code.
package scenario

import (
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/treadle"
	"github.com/aretw0/treadle/pkg/action"
	"github.com/aretw0/treadle/pkg/state"
)

// Scenario is a named set of tasks started together.
type Scenario struct {
	Name  string    `yaml:"name"`
	Tasks []TaskDef `yaml:"tasks"`
}

// TaskDef is one task: a name and the steps its body runs in order.
type TaskDef struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is a single operation inside a task. Exactly one field may be set.
type Step struct {
	Set       *SetStep   `yaml:"set,omitempty"`
	Delay     *DelayStep `yaml:"delay,omitempty"`
	Log       string     `yaml:"log,omitempty"`
	SwitchOn  string     `yaml:"switch_on,omitempty"`
	SwitchOff string     `yaml:"switch_off,omitempty"`
	WaitOn    string     `yaml:"wait_on,omitempty"`
	WaitOff   string     `yaml:"wait_off,omitempty"`
	Cancel    bool       `yaml:"cancel,omitempty"`
}

// SetStep writes a value into the store.
type SetStep struct {
	Key   string `yaml:"key"`
	Value any    `yaml:"value"`
}

// DelayStep waits a number of ticks, or a wall-clock duration when For is
// set.
type DelayStep struct {
	Ticks int    `yaml:"ticks,omitempty"`
	For   string `yaml:"for,omitempty"`
}

// Load parses a scenario from YAML and validates it.
func Load(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	if len(sc.Tasks) == 0 {
		return fmt.Errorf("scenario %q has no tasks", sc.Name)
	}
	for _, td := range sc.Tasks {
		if td.Name == "" {
			return fmt.Errorf("scenario %q: task without a name", sc.Name)
		}
		if len(td.Steps) == 0 {
			return fmt.Errorf("task %q has no steps", td.Name)
		}
		for i, st := range td.Steps {
			if err := st.validate(); err != nil {
				return fmt.Errorf("task %q step %d: %w", td.Name, i+1, err)
			}
		}
	}
	return nil
}

func (s *Step) validate() error {
	n := 0
	if s.Set != nil {
		if s.Set.Key == "" {
			return fmt.Errorf("set step needs a key")
		}
		n++
	}
	if s.Delay != nil {
		if s.Delay.For != "" {
			if _, err := time.ParseDuration(s.Delay.For); err != nil {
				return fmt.Errorf("bad delay duration %q: %w", s.Delay.For, err)
			}
		} else if s.Delay.Ticks <= 0 {
			return fmt.Errorf("delay step needs ticks or for")
		}
		n++
	}
	if s.Log != "" {
		n++
	}
	if s.SwitchOn != "" {
		n++
	}
	if s.SwitchOff != "" {
		n++
	}
	if s.WaitOn != "" {
		n++
	}
	if s.WaitOff != "" {
		n++
	}
	if s.Cancel {
		n++
	}
	if n != 1 {
		return fmt.Errorf("step must set exactly one operation, got %d", n)
	}
	return nil
}

// compile turns the step into an action. The scenario is validated, so
// exactly one branch applies.
func (s *Step) compile(taskName string, logger *slog.Logger) action.Action[action.Unit, action.Unit] {
	switch {
	case s.Set != nil:
		key, value := s.Set.Key, s.Set.Value
		return action.Run(func(st *state.Store) action.Unit {
			st.Set(key, value)
			return action.Unit{}
		})
	case s.Delay != nil:
		if s.Delay.For != "" {
			d, _ := time.ParseDuration(s.Delay.For)
			return action.DelayFor(d)
		}
		return action.DelayTicks(s.Delay.Ticks)
	case s.Log != "":
		msg := s.Log
		return action.Run(func(*state.Store) action.Unit {
			logger.Info(msg, "task", taskName)
			return action.Unit{}
		})
	case s.SwitchOn != "":
		return action.TurnOn(state.NewSwitch(s.SwitchOn))
	case s.SwitchOff != "":
		return action.TurnOff(state.NewSwitch(s.SwitchOff))
	case s.WaitOn != "":
		return action.WaitOn(state.NewSwitch(s.WaitOn))
	case s.WaitOff != "":
		return action.WaitOff(state.NewSwitch(s.WaitOff))
	default:
		return action.Cancel()
	}
}

// Body compiles the task definition into an engine task body.
func (td TaskDef) Body(logger *slog.Logger) func(*treadle.Routine) {
	name := td.Name
	steps := td.Steps
	return func(rt *treadle.Routine) {
		for i := range steps {
			treadle.Do(rt, steps[i].compile(name, logger))
		}
	}
}

// Start spawns every task in the scenario on the engine, in file order.
// Returned handles follow the same order.
func (sc *Scenario) Start(eng *treadle.Engine, logger *slog.Logger) []*treadle.Handle {
	handles := make([]*treadle.Handle, len(sc.Tasks))
	for i, td := range sc.Tasks {
		handles[i] = eng.Spawn(td.Body(logger))
	}
	return handles
}
