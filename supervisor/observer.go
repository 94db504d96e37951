package supervisor

// Observer receives lifecycle events. Callbacks run synchronously on the
// supervisor loop and must not block.
type Observer interface {
	OnStateChange(from, to State)
	OnSpawn(attempt RunAttempt)
	OnExit(attempt RunAttempt)
}

// ObserverFuncs implements Observer with optional callbacks.
type ObserverFuncs struct {
	StateChange func(from, to State)
	Spawn       func(attempt RunAttempt)
	Exit        func(attempt RunAttempt)
}

func (o ObserverFuncs) OnStateChange(from, to State) {
	if o.StateChange != nil {
		o.StateChange(from, to)
	}
}

func (o ObserverFuncs) OnSpawn(attempt RunAttempt) {
	if o.Spawn != nil {
		o.Spawn(attempt)
	}
}

func (o ObserverFuncs) OnExit(attempt RunAttempt) {
	if o.Exit != nil {
		o.Exit(attempt)
	}
}
