// Copyright (c) 2026, The PsyLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package psylab is the overall repository for the psylab psychophysics
toolkit, implemented in the Go language (golang) on the emergent / etable
scientific stack.

This top-level of the repository has no functional code -- everything is
organized into the following sub-repositories:

* trialseq: constrained-random trial sequencing for factorial experiment
designs -- permuted repetition blocks with no condition repeated directly
across block boundaries, lookahead, sequence analytics (transition counts,
condition frequencies), and an oddball (MMN) sequence builder.

* staircase: adaptive n-up / n-down staircase procedures for threshold
estimation -- reversal tracking, variable step-size schedules, decibel /
log / linear step semantics, and a non-parametric psychometric summary
computed from the run history.

* expio: the I/O collaborators -- JSON state documents that can resume an
interrupted run, and etable-based tabular export of trial histories for
offline analysis.

* examples: these compile into runnable programs demonstrating a simulated
staircase run and an oddball sequence, and are the starting point for
wiring the components into an experiment loop.

Both trialseq.TrialSequence and staircase.Staircase implement the
emergent env.Env interface, so an experiment-running loop can pull trials
from either through the same Step / Counter protocol it uses for any
other environment.
*/
package psylab
