package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// SimpleStateMachine is a thread-safe in-memory state machine.
// Transitions are indexed [fromState][event] for O(1) lookups.
type SimpleStateMachine struct {
	initialState State
	currentState State
	transitions  map[string]map[string][]Transition
	mu           sync.RWMutex
}

// NewSimpleStateMachine creates a state machine starting in initialState.
func NewSimpleStateMachine(initialState State) *SimpleStateMachine {
	return &SimpleStateMachine{
		initialState: initialState,
		currentState: initialState,
		transitions:  make(map[string]map[string][]Transition),
	}
}

func (sm *SimpleStateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

func (sm *SimpleStateMachine) AddTransition(from, to State, event Event, guards []Guard, actions []Action) error {
	if from == nil || to == nil || event == nil {
		return ErrInvalidTransition
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	fromStateName := from.Name()
	if _, ok := sm.transitions[fromStateName]; !ok {
		sm.transitions[fromStateName] = make(map[string][]Transition)
	}

	// Multiple transitions per from/event pair support guard-based branching.
	sm.transitions[fromStateName][event.Name()] = append(sm.transitions[fromStateName][event.Name()], Transition{
		From:    from,
		To:      to,
		Event:   event,
		Guards:  guards,
		Actions: actions,
	})
	return nil
}

func (sm *SimpleStateMachine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	currentStateName := sm.currentState.Name()
	eventName := event.Name()

	transitions, ok := sm.transitions[currentStateName][eventName]
	if !ok || len(transitions) == 0 {
		return NewErrNoTransitionAvailable(currentStateName, eventName)
	}

	// First transition with passing guards wins.
	var validTransition *Transition
	for i, t := range transitions {
		if guardsPass(ctx, sm.currentState, event, data, t.Guards) {
			validTransition = &transitions[i]
			break
		}
	}
	if validTransition == nil {
		return NewErrTransitionRejected(currentStateName, eventName)
	}

	// Any action failure aborts the transition.
	for _, action := range validTransition.Actions {
		if action != nil {
			if err := action(ctx, sm.currentState, validTransition.To, event, data); err != nil {
				return fmt.Errorf("action failed: %w", err)
			}
		}
	}

	sm.currentState = validTransition.To
	return nil
}

func (sm *SimpleStateMachine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	transitions, ok := sm.transitions[sm.currentState.Name()][event.Name()]
	if !ok {
		return false
	}
	for _, t := range transitions {
		if guardsPass(ctx, sm.currentState, event, data, t.Guards) {
			return true
		}
	}
	return false
}

func (sm *SimpleStateMachine) Reset() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.currentState = sm.initialState
	return nil
}

func guardsPass(ctx context.Context, from State, event Event, data any, guards []Guard) bool {
	for _, guard := range guards {
		if guard != nil && !guard(ctx, from, event, data) {
			return false
		}
	}
	return true
}
