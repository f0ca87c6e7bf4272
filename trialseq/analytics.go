// Copyright (c) 2026, The PsyLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialseq

import "github.com/emer/etable/etensor"

// Transitions returns the NConds x NConds matrix of first-order
// transition counts over the full realized sequence: cell (cur, next)
// counts how often condition cur was immediately followed by next.
func (ts *TrialSequence) Transitions() *etensor.Float64 {
	nc := len(ts.Conds)
	tm := etensor.NewFloat64([]int{nc, nc}, nil, []string{"cur", "next"})
	for i := 0; i+1 < len(ts.Trials); i++ {
		tm.Values[ts.Trials[i]*nc+ts.Trials[i+1]]++
	}
	return tm
}

// CondProbs returns the empirical frequency of each condition index over
// the full realized sequence, in condition-set order.
func (ts *TrialSequence) CondProbs() []float64 {
	probs := make([]float64, len(ts.Conds))
	for _, ci := range ts.Trials {
		probs[ci]++
	}
	for i := range probs {
		probs[i] /= float64(ts.NTrials)
	}
	return probs
}
