// Copyright (c) 2026, The PsyLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package staircase implements adaptive n-up / n-down staircase procedures
for estimating perceptual thresholds.

A Staircase recommends an intensity for each trial; the experiment loop
presents it, collects a binary response, and feeds it back through
AddResponse.  The staircase tracks reversals of the adaptive direction,
shrinks the step size along a schedule as reversals accumulate, and
finishes once both the minimum reversal count and the minimum trial
count have been met.  Until the first reversal the procedure always runs
1-up / 1-down regardless of the configured NUp / NDown, to approach the
threshold region quickly.

On completion it derives a non-parametric psychometric summary (mean
response rate per distinct presented intensity) from its own history,
and Threshold returns the mean of the final reversal intensities.
*/
package staircase

import (
	"fmt"
	"log"
	"math"

	"github.com/emer/emergent/env"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
)

// Staircase is one adaptive threshold run.  Configure the parameter
// fields (Defaults first, then overrides), call Init, then drive it:
//
//	for st.Step() {
//		resp := present(st.NextVal) // or st.SimResponse(x) in tests
//		st.AddResponse(resp)
//	}
//
// All run state is mutated only by Step and AddResponse; once Finished,
// only the summary queries remain meaningful.
type Staircase struct {
	Nm        string     `desc:"name of this staircase"`
	Dsc       string     `desc:"description of this staircase"`
	StartVal  float64    `desc:"intensity presented on the first trial"`
	NUp       int        `min:"1" def:"1" desc:"number of consecutive incorrect responses before the intensity is increased"`
	NDown     int        `min:"1" def:"2" desc:"number of consecutive correct responses before the intensity is decreased"`
	StepType  StepType   `desc:"semantics of intensity steps: decibel, log, or linear"`
	StepSizes []float64  `desc:"step size schedule -- a single value is used for the whole run; with multiple values the step size advances at each reversal and the last value is reused once the schedule is exhausted"`
	NRevMin   int        `desc:"minimum number of reversals before the run can finish -- raised to len(StepSizes) if smaller, 0 defaults to len(StepSizes)"`
	NTrialMin int        `desc:"minimum number of trials before the run can finish"`
	Range     minmax.F64 `view:"inline" desc:"legal intensity range -- NextVal is clipped to it after every step; defaults to unbounded"`

	StepSize    float64         `inactive:"+" desc:"step size in effect for the next intensity change"`
	NextVal     float64         `inactive:"+" desc:"intensity to present on the next trial"`
	Direction   Directions      `inactive:"+" desc:"direction the intensity is currently moving in"`
	Streak      int             `inactive:"+" desc:"signed count of consecutive identical responses: positive = correct run, negative = incorrect run"`
	Data        []bool          `view:"no-inline" desc:"response history, one entry per presented trial"`
	Intensities []float64       `view:"no-inline" desc:"presented intensity history, parallel to Data"`
	RevTrials   []int           `view:"no-inline" desc:"trial indices at which a reversal occurred"`
	RevIntens   []float64       `view:"no-inline" desc:"intensities at which a reversal occurred"`
	Finished    bool            `inactive:"+" desc:"true once both stopping minimums have been met"`
	Summary     *etable.Table   `view:"no-inline" desc:"psychometric summary, computed once when the finished staircase is stepped"`
	IntenState  etensor.Float64 `view:"-" desc:"scalar tensor holding NextVal, for the env State interface"`
	Run         env.Ctr         `view:"inline" desc:"current run, as provided during Init"`
	Trial       env.Ctr         `view:"inline" desc:"trial counter -- Cur is the index of the current (last presented) trial"`

	varStep bool
}

// New returns a staircase with default parameters starting at startVal,
// ready to Step.  For non-default parameters set the fields after
// Defaults and call Init before stepping.
func New(startVal float64) *Staircase {
	st := &Staircase{}
	st.Defaults()
	st.StartVal = startVal
	st.Init(0)
	return st
}

func (st *Staircase) Defaults() {
	st.NUp = 1
	st.NDown = 2
	st.StepType = Decibel
	st.StepSizes = []float64{4}
	st.NRevMin = 0
	st.NTrialMin = 0
	st.Range.Set(math.Inf(-1), math.Inf(1))
}

func (st *Staircase) Name() string { return st.Nm }
func (st *Staircase) Desc() string { return st.Dsc }

func (st *Staircase) Validate() error {
	if len(st.StepSizes) == 0 {
		return fmt.Errorf("Staircase: %v has no step sizes", st.Nm)
	}
	for _, sz := range st.StepSizes {
		if sz <= 0 {
			return fmt.Errorf("Staircase: %v step sizes must be positive, got %g", st.Nm, sz)
		}
	}
	if st.NUp < 1 || st.NDown < 1 {
		return fmt.Errorf("Staircase: %v NUp and NDown must be at least 1, got %d up %d down", st.Nm, st.NUp, st.NDown)
	}
	if st.StartVal < st.Range.Min || st.StartVal > st.Range.Max {
		return fmt.Errorf("Staircase: %v StartVal %g outside range %g..%g", st.Nm, st.StartVal, st.Range.Min, st.Range.Max)
	}
	return nil
}

// String returns a one-line summary of the current state
func (st *Staircase) String() string {
	return fmt.Sprintf("%v_%dup%ddown_trial_%d_revs_%d_of_%d", st.Nm, st.NUp, st.NDown, st.Trial.Cur, len(st.RevIntens), st.NRevMin)
}

// Init normalizes the configuration and resets all run state.  A
// minimum reversal count smaller than the step schedule is raised to
// the schedule length (with a notice), so every scheduled step size can
// take effect before the run stops.
func (st *Staircase) Init(run int) {
	if len(st.StepSizes) == 0 {
		st.StepSizes = []float64{4}
	}
	st.varStep = len(st.StepSizes) > 1
	st.StepSize = st.StepSizes[0]
	if st.NRevMin == 0 {
		st.NRevMin = len(st.StepSizes)
	} else if len(st.StepSizes) > st.NRevMin {
		log.Printf("Staircase: %v raising minimum reversals to number of step sizes: %d\n", st.Nm, len(st.StepSizes))
		st.NRevMin = len(st.StepSizes)
	}
	st.Run.Scale = env.Run
	st.Trial.Scale = env.Trial
	st.Run.Init()
	st.Trial.Init()
	st.Run.Cur = run
	st.Trial.Cur = -1 // init state -- key so that first Step() = 0
	st.NextVal = st.StartVal
	st.Direction = Down
	st.Streak = 0
	st.Data = nil
	st.Intensities = nil
	st.RevTrials = nil
	st.RevIntens = nil
	st.Finished = false
	st.Summary = nil
	st.IntenState.SetShape([]int{1}, nil, []string{"Intensity"})
	st.IntenState.SetFloat1D(0, st.NextVal)
}

// Step advances to the next trial, recording NextVal as its presented
// intensity.  It returns false once the staircase is finished, on this
// and every subsequent call; the psychometric summary is computed the
// first time that happens.
func (st *Staircase) Step() bool {
	if st.Finished {
		if st.Summary == nil {
			st.summarize()
		}
		return false
	}
	st.Trial.Incr()
	st.Intensities = append(st.Intensities, st.NextVal)
	st.IntenState.SetFloat1D(0, st.NextVal)
	return true
}

// AddResponse records a response to the current trial: true for a
// correct / detected trial, false for incorrect / missed.  This is what
// advances the staircase to a new intensity.
func (st *Staircase) AddResponse(result bool) {
	st.Data = append(st.Data, result)
	n := len(st.Data)
	onRun := n > 1 && st.Data[n-2] == result
	switch {
	case onRun && result:
		st.Streak++
	case onRun && !result:
		st.Streak--
	case result:
		st.Streak = 1
	default:
		st.Streak = -1
	}
	st.update()
}

// AddResponseAt is AddResponse for a trial where the presented
// intensity deviated from the recommended one: the recorded intensity
// for the current trial is replaced with the actual value first.
func (st *Staircase) AddResponseAt(result bool, intensity float64) {
	if len(st.Intensities) > 0 {
		st.Intensities[len(st.Intensities)-1] = intensity
	}
	st.AddResponse(result)
}

// update is the per-response state machine: reversal detection and
// direction bookkeeping, the stopping rule, step schedule advancement,
// and the intensity change for the next trial.
func (st *Staircase) update() {
	last := st.Data[len(st.Data)-1]
	reversal := false
	switch {
	case len(st.RevIntens) == 0: // before first reversal: strict 1-up / 1-down
		if last {
			reversal = st.Direction == Up
			st.Direction = Down
		} else {
			reversal = st.Direction == Down
			st.Direction = Up
		}
	case st.Streak >= st.NDown: // n correct, time to go down
		reversal = st.Direction != Down
		st.Direction = Down
	case st.Streak <= -st.NUp: // n incorrect, time to go up
		reversal = st.Direction != Up
		st.Direction = Up
	}
	if reversal {
		st.RevTrials = append(st.RevTrials, st.Trial.Cur)
		st.RevIntens = append(st.RevIntens, st.Intensities[len(st.Intensities)-1])
	}
	if len(st.RevIntens) >= st.NRevMin && len(st.Intensities) >= st.NTrialMin {
		st.Finished = true
	}
	if reversal && st.varStep {
		// step size is indexed by the number of reversals seen so far;
		// past the end of the schedule the last value is reused
		nr := len(st.RevIntens)
		if nr >= len(st.StepSizes) {
			st.StepSize = st.StepSizes[len(st.StepSizes)-1]
		} else {
			st.StepSize = st.StepSizes[nr]
		}
	}
	switch {
	case len(st.RevIntens) == 0:
		if last {
			st.decrease()
		} else {
			st.increase()
		}
	case st.Streak >= st.NDown:
		st.decrease()
	case st.Streak <= -st.NUp:
		st.increase()
	}
}

// increase moves the next intensity one step up and resets the streak
func (st *Staircase) increase() {
	switch st.StepType {
	case Decibel:
		st.NextVal *= math.Pow(10, st.StepSize/20)
	case Log:
		st.NextVal *= math.Pow(10, st.StepSize)
	case Linear:
		st.NextVal += st.StepSize
	}
	st.NextVal = st.Range.ClipVal(st.NextVal)
	st.Streak = 0
}

// decrease moves the next intensity one step down and resets the streak
func (st *Staircase) decrease() {
	switch st.StepType {
	case Decibel:
		st.NextVal /= math.Pow(10, st.StepSize/20)
	case Log:
		st.NextVal /= math.Pow(10, st.StepSize)
	case Linear:
		st.NextVal -= st.StepSize
	}
	st.NextVal = st.Range.ClipVal(st.NextVal)
	st.Streak = 0
}

// DefaultThresholdN is the number of final reversals averaged by
// Threshold when no other count is given.
const DefaultThresholdN = 6

// Threshold returns the geometric mean (exp of the mean of logs) of the
// intensities of the last n reversals, the standard threshold estimate
// for an up-down staircase.  n <= 0 uses DefaultThresholdN; n larger
// than the number of recorded reversals uses all of them.  The bool is
// false until the staircase is finished.
func (st *Staircase) Threshold(n int) (float64, bool) {
	rev, ok := st.lastReversals(n)
	if !ok {
		return 0, false
	}
	sum := 0.0
	for _, v := range rev {
		sum += math.Log(v)
	}
	return math.Exp(sum / float64(len(rev))), true
}

// ThresholdArith is Threshold with an arithmetic instead of geometric
// mean, for linear intensity scales that can span zero.
func (st *Staircase) ThresholdArith(n int) (float64, bool) {
	rev, ok := st.lastReversals(n)
	if !ok {
		return 0, false
	}
	sum := 0.0
	for _, v := range rev {
		sum += v
	}
	return sum / float64(len(rev)), true
}

func (st *Staircase) lastReversals(n int) ([]float64, bool) {
	if !st.Finished || len(st.RevIntens) == 0 {
		return nil, false
	}
	if n <= 0 {
		n = DefaultThresholdN
	}
	if n > len(st.RevIntens) {
		n = len(st.RevIntens)
	}
	return st.RevIntens[len(st.RevIntens)-n:], true
}

// SimResponse returns the response of a deterministic simulated
// observer with the given true threshold: correct whenever the next
// intensity is at or above it.  For testing and demos only.
func (st *Staircase) SimResponse(thresh float64) bool {
	return st.NextVal >= thresh
}

func (st *Staircase) Counters() []env.TimeScales {
	return []env.TimeScales{env.Run, env.Trial}
}

func (st *Staircase) States() env.Elements {
	els := env.Elements{
		{Name: "Intensity", Shape: []int{1}},
	}
	return els
}

func (st *Staircase) State(element string) etensor.Tensor {
	switch element {
	case "Intensity":
		return &st.IntenState
	}
	return nil
}

func (st *Staircase) Actions() env.Elements {
	return nil
}

func (st *Staircase) Action(element string, input etensor.Tensor) {
	// nop
}

func (st *Staircase) Counter(scale env.TimeScales) (cur, prv int, chg bool) {
	switch scale {
	case env.Run:
		return st.Run.Query()
	case env.Trial:
		return st.Trial.Query()
	}
	return -1, -1, false
}

// Compile-time check that implements Env interface
var _ env.Env = (*Staircase)(nil)
