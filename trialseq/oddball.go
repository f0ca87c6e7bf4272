// Copyright (c) 2026, The PsyLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trialseq

import (
	"fmt"
	"math"

	"github.com/emer/emergent/erand"
)

// Condition indices in an oddball sequence.
const (
	Standard = 0
	Deviant  = 1
)

// MaxDeviantFreq is the largest deviant frequency for which the minimum
// spacing of 3 standards between deviants can be maintained.
const MaxDeviantFreq = 0.25

// Oddball returns a two-condition sequence for auditory oddball (MMN)
// paradigms: Standard = 0, Deviant = 1, with at least 3 standards
// between any two deviants.  deviantFreq is the target deviant rate
// (typically 0.12, at most MaxDeviantFreq).
//
// The sequence is assembled from ceil(2/deviantFreq - 7) partial block
// templates, where template k is (3+k) standards followed by one
// deviant.  Enough shuffled template choices are concatenated to cover
// nTrials, then the result is truncated to exactly nTrials entries.
func Oddball(nTrials int, deviantFreq float64) (*TrialSequence, error) {
	if nTrials <= 0 {
		return nil, fmt.Errorf("trialseq.Oddball: nTrials must be positive, got %d", nTrials)
	}
	if deviantFreq <= 0 || deviantFreq > MaxDeviantFreq {
		return nil, fmt.Errorf("trialseq.Oddball: deviantFreq must be in (0, %g], got %g", MaxDeviantFreq, deviantFreq)
	}
	nPartials := int(math.Ceil(2/deviantFreq - 7))
	reps := int(math.Ceil(float64(nTrials) / float64(nPartials)))
	partials := make([][]int, nPartials)
	for k := range partials {
		blk := make([]int, 3+k+1)
		blk[3+k] = Deviant
		partials[k] = blk
	}
	idx := make([]int, 0, nPartials*reps)
	for r := 0; r < reps; r++ {
		for k := 0; k < nPartials; k++ {
			idx = append(idx, k)
		}
	}
	erand.PermuteInts(idx)
	trials := make([]int, 0, nTrials+3+nPartials)
	for _, k := range idx {
		trials = append(trials, partials[k]...)
		if len(trials) >= nTrials {
			break
		}
	}
	trials = trials[:nTrials]
	ts := NewFixed(2, trials)
	ts.Conds[Standard].Name = "Standard"
	ts.Conds[Deviant].Name = "Deviant"
	return ts, nil
}
