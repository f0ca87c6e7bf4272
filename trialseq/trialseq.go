// Copyright (c) 2026, The PsyLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package trialseq generates randomized, constrained orderings of
experimental conditions and iterates over them one trial at a time.

A TrialSequence contains NReps permuted blocks of its condition set, with
no condition repeated directly across a block boundary.  It is a finite,
single-pass sequence: Step advances to the next trial and returns false
once the sequence is exhausted, and on every call thereafter.
*/
package trialseq

import (
	"fmt"
	"math/rand"

	"github.com/emer/emergent/env"
	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etensor"
)

// Condition is one distinct experimental stimulus configuration.
// Params holds arbitrary named stimulus parameter values (frequency,
// level, duration etc.) -- it can be nil for purely index-coded designs.
type Condition struct {
	Name   string             `desc:"label for this condition"`
	Params map[string]float64 `desc:"named stimulus parameter values for this condition"`
}

// TrialSequence is a materialized random ordering of condition indices,
// advanced one trial at a time by an external experiment loop.
// The condition set and realized sequence are fixed once iteration starts.
type TrialSequence struct {
	Nm         string          `desc:"name of this sequence"`
	Dsc        string          `desc:"description of this sequence"`
	Conds      []Condition     `desc:"the condition set, indexed by the values in Trials"`
	NReps      int             `desc:"number of repetitions of the full condition set"`
	Trials     []int           `view:"no-inline" desc:"realized ordering of condition indices, length NTrials"`
	NTrials    int             `inactive:"+" desc:"total number of trials"`
	NRemaining int             `inactive:"+" desc:"number of trials not yet presented"`
	Cur        int             `inactive:"+" desc:"overall position in Trials -- -1 before the first Step"`
	CurCond    int             `inactive:"+" desc:"condition index of the current trial -- -1 when none"`
	Done       bool            `inactive:"+" desc:"true once the sequence is exhausted"`
	CondState  etensor.Float64 `view:"-" desc:"one-hot representation of the current condition"`
	Run        env.Ctr         `view:"inline" desc:"current run, as provided during Init"`
	Rep        env.Ctr         `view:"inline" desc:"repetition (pass through the condition set) we are on"`
	Trial      env.Ctr         `view:"inline" desc:"trial within the current repetition"`
}

// New returns a sequence over the integer condition set 0..nconds-1
// (named C0..Cn-1), with nreps permuted repetitions of every condition.
func New(nconds, nreps int) *TrialSequence {
	conds := make([]Condition, nconds)
	for i := range conds {
		conds[i].Name = fmt.Sprintf("C%d", i)
	}
	return NewConds(conds, nreps)
}

// NewConds returns a sequence with nreps permuted repetitions of the
// given condition set.
func NewConds(conds []Condition, nreps int) *TrialSequence {
	ts := &TrialSequence{Conds: conds, NReps: nreps}
	ts.permutedTrials()
	ts.Config()
	return ts
}

// NewFixed returns a sequence over nconds conditions with an explicitly
// supplied trial-index list, and no repetition structure (NReps = 1).
// Used for externally constructed orderings such as oddball sequences.
func NewFixed(nconds int, trials []int) *TrialSequence {
	conds := make([]Condition, nconds)
	for i := range conds {
		conds[i].Name = fmt.Sprintf("C%d", i)
	}
	ts := &TrialSequence{Conds: conds, NReps: 1, Trials: trials}
	ts.Config()
	return ts
}

// Config finalizes the realized sequence: sets the derived counts, shapes
// the state tensor, and initializes the cursor.  Called by the
// constructors; call it again after replacing Trials wholesale.
func (ts *TrialSequence) Config() {
	ts.NTrials = len(ts.Trials)
	ts.CondState.SetShape([]int{len(ts.Conds)}, nil, []string{"Cond"})
	ts.Init(0)
}

// permutedTrials creates NReps x NConds trials, where each repetition
// contains all conditions in uniformly random order, and no condition is
// directly repeated across the repetition boundary.  A fresh independent
// permutation is drawn until the boundary constraint holds.
func (ts *TrialSequence) permutedTrials() {
	nc := len(ts.Conds)
	perm := rand.Perm(nc)
	ts.Trials = make([]int, 0, nc*ts.NReps)
	ts.Trials = append(ts.Trials, perm...)
	for rep := 1; rep < ts.NReps; rep++ {
		erand.PermuteInts(perm)
		for ts.Trials[len(ts.Trials)-1] == perm[0] {
			erand.PermuteInts(perm)
		}
		ts.Trials = append(ts.Trials, perm...)
	}
}

func (ts *TrialSequence) Name() string { return ts.Nm }
func (ts *TrialSequence) Desc() string { return ts.Dsc }

func (ts *TrialSequence) Validate() error {
	if len(ts.Conds) == 0 {
		return fmt.Errorf("TrialSequence: %v has no conditions set", ts.Nm)
	}
	if ts.NTrials == 0 {
		return fmt.Errorf("TrialSequence: %v has no trials -- need to Config", ts.Nm)
	}
	for i, ci := range ts.Trials {
		if ci < 0 || ci >= len(ts.Conds) {
			return fmt.Errorf("TrialSequence: %v trial %d condition index %d out of range", ts.Nm, i, ci)
		}
	}
	return nil
}

// String returns the current state as a string
func (ts *TrialSequence) String() string {
	cnm := "none"
	if ts.CurCond >= 0 {
		cnm = ts.Conds[ts.CurCond].Name
	}
	return fmt.Sprintf("%v_%d_%s", ts.Nm, ts.Cur, cnm)
}

// Init restarts the cursor at the head of the (already realized)
// sequence.  It does not re-randomize the ordering -- make a new
// sequence for a fresh ordering.
func (ts *TrialSequence) Init(run int) {
	ts.Run.Scale = env.Run
	ts.Rep.Scale = env.Block
	ts.Trial.Scale = env.Trial
	ts.Run.Init()
	ts.Rep.Init()
	ts.Trial.Init()
	ts.Run.Cur = run
	ts.Trial.Cur = -1 // init state -- key so that first Step() = 0
	if ts.NReps > 1 {
		ts.Trial.Max = len(ts.Conds) // wrap into next repetition
	}
	ts.Cur = -1
	ts.CurCond = -1
	ts.NRemaining = ts.NTrials
	ts.Done = false
	ts.CondState.SetZeros()
}

// Step advances to the next trial.  It returns false when the sequence
// is exhausted, on this and every subsequent call; otherwise the new
// current trial is available from Cond, CurCond and State.
func (ts *TrialSequence) Step() bool {
	if ts.Done {
		return false
	}
	ts.Rep.Same()
	ts.Cur++
	ts.NRemaining--
	if ts.Trial.Incr() {
		ts.Rep.Incr()
	}
	if ts.Cur >= ts.NTrials {
		ts.CurCond = -1
		ts.CondState.SetZeros()
		ts.Done = true
		return false
	}
	ts.CurCond = ts.Trials[ts.Cur]
	ts.CondState.SetZeros()
	ts.CondState.SetFloat1D(ts.CurCond, 1)
	return true
}

// Cond returns the condition of the current trial.  The bool is false
// before the first Step and after exhaustion.
func (ts *TrialSequence) Cond() (Condition, bool) {
	if ts.CurCond < 0 {
		return Condition{}, false
	}
	return ts.Conds[ts.CurCond], true
}

// Peek returns the condition n trials into the future (or past, for
// negative n) without advancing the cursor.  The bool is false when the
// target position is beyond the remaining trials or before the start.
func (ts *TrialSequence) Peek(n int) (Condition, bool) {
	if n > ts.NRemaining || ts.Cur+n < 0 {
		return Condition{}, false
	}
	return ts.Conds[ts.Trials[ts.Cur+n]], true
}

func (ts *TrialSequence) Counters() []env.TimeScales {
	return []env.TimeScales{env.Run, env.Block, env.Trial}
}

func (ts *TrialSequence) States() env.Elements {
	els := env.Elements{
		{Name: "Cond", Shape: []int{len(ts.Conds)}, DimNames: []string{"Cond"}},
	}
	return els
}

func (ts *TrialSequence) State(element string) etensor.Tensor {
	switch element {
	case "Cond":
		return &ts.CondState
	}
	return nil
}

func (ts *TrialSequence) Actions() env.Elements {
	return nil
}

func (ts *TrialSequence) Action(element string, input etensor.Tensor) {
	// nop
}

func (ts *TrialSequence) Counter(scale env.TimeScales) (cur, prv int, chg bool) {
	switch scale {
	case env.Run:
		return ts.Run.Query()
	case env.Block:
		return ts.Rep.Query()
	case env.Trial:
		return ts.Trial.Query()
	}
	return -1, -1, false
}

// Compile-time check that implements Env interface
var _ env.Env = (*TrialSequence)(nil)
