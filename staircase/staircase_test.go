// Copyright (c) 2026, The PsyLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package staircase

import (
	"math"
	"testing"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-10

// runSim drives the staircase to completion against a deterministic
// simulated observer with the given threshold, returning the number of
// trials presented.
func runSim(st *Staircase, thresh float64) int {
	n := 0
	for st.Step() {
		st.AddResponse(st.SimResponse(thresh))
		n++
	}
	return n
}

func eqInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func eqF64(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > difTol {
			return false
		}
	}
	return true
}

// geomean of the last n values, as Threshold computes it
func geomean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += math.Log(v)
	}
	return math.Exp(sum / float64(len(vals)))
}

// TestReferenceTrace replicates the canonical 1-up / 1-down linear run:
// start 50, steps [4 2], bounds 10..60, at least 10 reversals and 10
// trials, simulated observer at 30.
func TestReferenceTrace(t *testing.T) {
	st := &Staircase{}
	st.Defaults()
	st.StartVal = 50
	st.NUp = 1
	st.NDown = 1
	st.StepType = Linear
	st.StepSizes = []float64{4, 2}
	st.NRevMin = 10
	st.NTrialMin = 10
	st.Range.Set(10, 60)
	st.Init(0)
	if err := st.Validate(); err != nil {
		t.Fatal(err)
	}
	n := runSim(st, 30)
	if n != 17 {
		t.Errorf("trials presented: %d, want 17", n)
	}
	wantRev := []float64{26, 30, 28, 30, 28, 30, 28, 30, 28, 30}
	if !eqF64(st.RevIntens, wantRev) {
		t.Errorf("reversal intensities: %v, want %v", st.RevIntens, wantRev)
	}
	wantPts := []int{6, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	if !eqInts(st.RevTrials, wantPts) {
		t.Errorf("reversal trials: %v, want %v", st.RevTrials, wantPts)
	}
	th, ok := st.Threshold(0)
	if !ok {
		t.Fatal("Threshold not available after completion")
	}
	want := 28.982753492378876 // geometric mean of [28 30 28 30 28 30]
	if math.Abs(th-want) > difTol {
		t.Errorf("threshold: %v, want %v", th, want)
	}
}

// TestVariableStepStopping checks the dual stopping rule with a 6-entry
// step schedule: the run must deliver at least 10 reversals and 15
// trials, with the exact deterministic trace of the 1-up / 1-down rule.
func TestVariableStepStopping(t *testing.T) {
	st := &Staircase{}
	st.Defaults()
	st.StartVal = 50
	st.NUp = 1
	st.NDown = 1
	st.StepType = Linear
	st.StepSizes = []float64{8, 4, 4, 2, 2, 1}
	st.NRevMin = 10
	st.NTrialMin = 15
	st.Range.Set(0, 60)
	st.Init(0)
	n := runSim(st, 30)
	if n < 15 {
		t.Errorf("trials presented: %d, want >= 15", n)
	}
	if len(st.RevIntens) < 10 {
		t.Errorf("reversals: %d, want >= 10", len(st.RevIntens))
	}
	wantInt := []float64{50, 42, 34, 26, 30, 26, 28, 30, 28, 29, 30, 29, 30, 29, 30}
	if !eqF64(st.Intensities, wantInt) {
		t.Errorf("intensity trace: %v, want %v", st.Intensities, wantInt)
	}
	wantRev := []float64{26, 30, 26, 30, 28, 30, 29, 30, 29, 30}
	if !eqF64(st.RevIntens, wantRev) {
		t.Errorf("reversal intensities: %v, want %v", st.RevIntens, wantRev)
	}
	th, ok := st.Threshold(0)
	if !ok {
		t.Fatal("Threshold not available after completion")
	}
	want := geomean(wantRev[len(wantRev)-6:])
	if math.Abs(th-want) > difTol {
		t.Errorf("threshold: %v, want %v", th, want)
	}
	for _, v := range st.Intensities {
		if v < 0 || v > 60 {
			t.Errorf("intensity %g outside configured bounds", v)
		}
	}
}

func TestThresholdClamp(t *testing.T) {
	st := &Staircase{}
	st.Defaults()
	st.StartVal = 50
	st.NUp = 1
	st.NDown = 1
	st.StepType = Linear
	st.StepSizes = []float64{4}
	st.NRevMin = 4
	st.NTrialMin = 0
	st.Init(0)
	runSim(st, 30)
	all, _ := st.Threshold(1000)
	exact, _ := st.Threshold(len(st.RevIntens))
	if all != exact {
		t.Errorf("Threshold(1000) %v != Threshold(%d) %v", all, len(st.RevIntens), exact)
	}
	arith, _ := st.ThresholdArith(1000)
	sum := 0.0
	for _, v := range st.RevIntens {
		sum += v
	}
	wantArith := sum / float64(len(st.RevIntens))
	if math.Abs(arith-wantArith) > difTol {
		t.Errorf("arithmetic threshold: %v, want %v", arith, wantArith)
	}
}

func TestThresholdBeforeFinish(t *testing.T) {
	st := New(50)
	if _, ok := st.Threshold(6); ok {
		t.Error("Threshold available before completion")
	}
	st.Step()
	st.AddResponse(true)
	if _, ok := st.Threshold(6); ok {
		t.Error("Threshold available mid-run")
	}
	if st.PfIntensities() != nil {
		t.Error("summary available mid-run")
	}
}

func TestMinReversalsRaised(t *testing.T) {
	st := &Staircase{}
	st.Defaults()
	st.StartVal = 50
	st.NUp = 1
	st.NDown = 1
	st.StepType = Linear
	st.StepSizes = []float64{8, 4, 2, 1}
	st.NRevMin = 2 // too small for a 4-entry schedule
	st.Init(0)
	if st.NRevMin != 4 {
		t.Errorf("NRevMin normalized to %d, want 4", st.NRevMin)
	}
	runSim(st, 30)
	if len(st.RevIntens) < 4 {
		t.Errorf("run stopped with %d reversals, want >= 4", len(st.RevIntens))
	}
}

func TestDecibelSteps(t *testing.T) {
	st := &Staircase{}
	st.Defaults()
	st.StartVal = 50
	st.NDown = 1
	st.StepSizes = []float64{4}
	st.Init(0)
	st.Step()
	st.AddResponse(true) // correct: one db step down
	want := 50 / math.Pow(10, 4.0/20)
	if math.Abs(st.NextVal-want) > difTol {
		t.Errorf("db decrement: %v, want %v", st.NextVal, want)
	}
	st.Step()
	st.AddResponse(false) // reversal, step back up
	want *= math.Pow(10, 4.0/20)
	if math.Abs(st.NextVal-want) > difTol {
		t.Errorf("db increment: %v, want %v", st.NextVal, want)
	}
}

func TestLogSteps(t *testing.T) {
	st := &Staircase{}
	st.Defaults()
	st.StartVal = 1
	st.NDown = 1
	st.StepType = Log
	st.StepSizes = []float64{0.5}
	st.Init(0)
	st.Step()
	st.AddResponse(true)
	want := 1 / math.Pow(10, 0.5)
	if math.Abs(st.NextVal-want) > difTol {
		t.Errorf("log decrement: %v, want %v", st.NextVal, want)
	}
	st.Step()
	st.AddResponse(false)
	want *= math.Pow(10, 0.5)
	if math.Abs(st.NextVal-want) > difTol {
		t.Errorf("log increment: %v, want %v", st.NextVal, want)
	}
}

func TestAddResponseAt(t *testing.T) {
	st := New(50)
	st.Step()
	st.AddResponseAt(true, 48) // presented intensity deviated from recommendation
	if st.Intensities[0] != 48 {
		t.Errorf("recorded intensity %g, want 48", st.Intensities[0])
	}
}

func TestStreakSign(t *testing.T) {
	st := &Staircase{}
	st.Defaults()
	st.NUp = 3
	st.NDown = 3
	st.StartVal = 50
	st.StepSizes = []float64{4}
	st.NRevMin = 100 // keep it running
	st.Init(0)
	// force past the pre-reversal phase: up on first incorrect
	st.Step()
	st.AddResponse(false) // reversal: direction was down; streak now -1
	resps := []bool{false, false, true, true, false}
	// the third incorrect reaches -NUp, triggers an increase, and resets to 0
	wantStreak := []int{-2, 0, 1, 2, -1}
	for i, r := range resps {
		st.Step()
		st.AddResponse(r)
		if st.Streak != wantStreak[i] {
			t.Errorf("after response %d: streak %d, want %d", i, st.Streak, wantStreak[i])
		}
	}
}

func TestValidate(t *testing.T) {
	st := &Staircase{}
	st.Defaults()
	st.StartVal = 50
	st.StepSizes = []float64{-1}
	if err := st.Validate(); err == nil {
		t.Error("negative step size not rejected")
	}
	st.Defaults()
	st.NUp = 0
	if err := st.Validate(); err == nil {
		t.Error("zero NUp not rejected")
	}
	st.Defaults()
	st.StartVal = 100
	st.Range.Set(0, 60)
	if err := st.Validate(); err == nil {
		t.Error("StartVal outside range not rejected")
	}
}
