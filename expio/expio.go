// Copyright (c) 2026, The PsyLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package expio holds the I/O collaborators for the psylab core: flat JSON
state documents that capture everything needed to resume an interrupted
run, and etable-based tabular export of trial histories for offline
analysis.

The core packages never touch files themselves; this package adapts
their fully-exported state to and from the persistence boundary, so the
serialization format is decoupled from the algorithm objects.
*/
package expio

import (
	"encoding/json"
	"math"
	"os"

	"github.com/sound-lab/psylab/staircase"
	"github.com/sound-lab/psylab/trialseq"
)

// SeqState is the flat serializable state of a TrialSequence: the
// condition set, the realized ordering, and the full cursor, so an
// interrupted session can be resumed at the exact trial it stopped at.
type SeqState struct {
	Name       string               `json:"name"`
	Conds      []trialseq.Condition `json:"conditions"`
	NReps      int                  `json:"n_reps"`
	Trials     []int                `json:"trials"`
	Cur        int                  `json:"cur"`
	Rep        int                  `json:"rep"`
	RepTrial   int                  `json:"rep_trial"`
	NRemaining int                  `json:"n_remaining"`
	Finished   bool                 `json:"finished"`
}

// NewSeqState captures the resumable state of the given sequence.
func NewSeqState(ts *trialseq.TrialSequence) *SeqState {
	return &SeqState{
		Name:       ts.Nm,
		Conds:      ts.Conds,
		NReps:      ts.NReps,
		Trials:     ts.Trials,
		Cur:        ts.Cur,
		Rep:        ts.Rep.Cur,
		RepTrial:   ts.Trial.Cur,
		NRemaining: ts.NRemaining,
		Finished:   ts.Done,
	}
}

// Sequence reconstructs a TrialSequence from captured state, positioned
// at the same trial it was captured at.
func (ss *SeqState) Sequence() *trialseq.TrialSequence {
	ts := &trialseq.TrialSequence{
		Nm:     ss.Name,
		Conds:  ss.Conds,
		NReps:  ss.NReps,
		Trials: ss.Trials,
	}
	ts.Config()
	ts.Cur = ss.Cur
	ts.Rep.Cur = ss.Rep
	ts.Trial.Cur = ss.RepTrial
	ts.NRemaining = ss.NRemaining
	ts.Done = ss.Finished
	if ss.Cur >= 0 && ss.Cur < ts.NTrials {
		ts.CurCond = ts.Trials[ss.Cur]
		ts.CondState.SetFloat1D(ts.CurCond, 1)
	}
	return ts
}

// SaveSeqJSON writes the resumable state of the sequence as an indented
// JSON document.
func SaveSeqJSON(ts *trialseq.TrialSequence, filename string) error {
	b, err := json.MarshalIndent(NewSeqState(ts), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0666)
}

// OpenSeqJSON reads a sequence state document and reconstructs the
// sequence at its saved position.
func OpenSeqJSON(filename string) (*trialseq.TrialSequence, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	ss := &SeqState{}
	if err := json.Unmarshal(b, ss); err != nil {
		return nil, err
	}
	return ss.Sequence(), nil
}

// StairState is the flat serializable state of a Staircase: the full
// configuration, schedule position, histories, reversal log and flags.
type StairState struct {
	Name      string               `json:"name"`
	StartVal  float64              `json:"start_val"`
	NUp       int                  `json:"n_up"`
	NDown     int                  `json:"n_down"`
	StepType  staircase.StepType   `json:"step_type"`
	StepSizes []float64            `json:"step_sizes"`
	StepSize  float64              `json:"step_size"`
	NRevMin   int                  `json:"n_reversals"`
	NTrialMin int                  `json:"n_trials"`
	MinVal    *float64             `json:"min_val"` // nil = unbounded (JSON cannot carry -Inf)
	MaxVal    *float64             `json:"max_val"` // nil = unbounded
	Trial     int                  `json:"trial"`
	Data      []bool               `json:"data"`
	Intens    []float64            `json:"intensities"`
	RevTrials []int                `json:"reversal_points"`
	RevIntens []float64            `json:"reversal_intensities"`
	Direction staircase.Directions `json:"direction"`
	Streak    int                  `json:"streak"`
	NextVal   float64              `json:"next_intensity"`
	Finished  bool                 `json:"finished"`
}

// NewStairState captures the resumable state of the given staircase.
func NewStairState(st *staircase.Staircase) *StairState {
	ss := &StairState{
		Name:      st.Nm,
		StartVal:  st.StartVal,
		NUp:       st.NUp,
		NDown:     st.NDown,
		StepType:  st.StepType,
		StepSizes: st.StepSizes,
		StepSize:  st.StepSize,
		NRevMin:   st.NRevMin,
		NTrialMin: st.NTrialMin,
		Trial:     st.Trial.Cur,
		Data:      st.Data,
		Intens:    st.Intensities,
		RevTrials: st.RevTrials,
		RevIntens: st.RevIntens,
		Direction: st.Direction,
		Streak:    st.Streak,
		NextVal:   st.NextVal,
		Finished:  st.Finished,
	}
	if !math.IsInf(st.Range.Min, -1) {
		mn := st.Range.Min
		ss.MinVal = &mn
	}
	if !math.IsInf(st.Range.Max, 1) {
		mx := st.Range.Max
		ss.MaxVal = &mx
	}
	return ss
}

// Staircase reconstructs a Staircase from captured state, ready to
// continue exactly where it left off.  The psychometric summary of a
// finished staircase is recomputed on its next Step, not stored.
func (ss *StairState) Staircase() *staircase.Staircase {
	st := &staircase.Staircase{
		Nm:        ss.Name,
		StartVal:  ss.StartVal,
		NUp:       ss.NUp,
		NDown:     ss.NDown,
		StepType:  ss.StepType,
		StepSizes: ss.StepSizes,
		NRevMin:   ss.NRevMin,
		NTrialMin: ss.NTrialMin,
	}
	st.Range.Set(math.Inf(-1), math.Inf(1))
	if ss.MinVal != nil {
		st.Range.Min = *ss.MinVal
	}
	if ss.MaxVal != nil {
		st.Range.Max = *ss.MaxVal
	}
	st.Init(0)
	st.StepSize = ss.StepSize
	st.Trial.Cur = ss.Trial
	st.Data = ss.Data
	st.Intensities = ss.Intens
	st.RevTrials = ss.RevTrials
	st.RevIntens = ss.RevIntens
	st.Direction = ss.Direction
	st.Streak = ss.Streak
	st.NextVal = ss.NextVal
	st.Finished = ss.Finished
	st.IntenState.SetFloat1D(0, st.NextVal)
	return st
}

// SaveStairJSON writes the resumable state of the staircase as an
// indented JSON document.
func SaveStairJSON(st *staircase.Staircase, filename string) error {
	b, err := json.MarshalIndent(NewStairState(st), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0666)
}

// OpenStairJSON reads a staircase state document and reconstructs the
// staircase at its saved position.
func OpenStairJSON(filename string) (*staircase.Staircase, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	ss := &StairState{}
	if err := json.Unmarshal(b, ss); err != nil {
		return nil, err
	}
	return ss.Staircase(), nil
}
