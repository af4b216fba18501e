package game

// StepObserver is notified of every state transition. Calls happen
// synchronously on the goroutine driving the Env, after the new state is
// committed. Observers must not call back into the Env.
type StepObserver interface {
	// OnReset is called with the fresh observation after Reset
	OnReset(obs Observation)

	// OnStep is called after each successful Step
	OnStep(prev Observation, action Action, res StepResult)
}

// ObserverFuncs adapts plain functions to StepObserver. Nil fields are skipped.
type ObserverFuncs struct {
	Reset func(obs Observation)
	Step  func(prev Observation, action Action, res StepResult)
}

func (f ObserverFuncs) OnReset(obs Observation) {
	if f.Reset != nil {
		f.Reset(obs)
	}
}

func (f ObserverFuncs) OnStep(prev Observation, action Action, res StepResult) {
	if f.Step != nil {
		f.Step(prev, action, res)
	}
}
