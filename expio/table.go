// Copyright (c) 2026, The PsyLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expio

import (
	"os"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/sound-lab/psylab/staircase"
	"github.com/sound-lab/psylab/trialseq"
)

// StairTable returns the run history of the staircase as a table of
// presented intensities and binary responses, one row per trial, for
// offline analysis.
func StairTable(st *staircase.Staircase) *etable.Table {
	sch := etable.Schema{
		{Name: "Trial", Type: etensor.INT64},
		{Name: "Intensity", Type: etensor.FLOAT64},
		{Name: "Response", Type: etensor.FLOAT64},
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, len(st.Intensities))
	for i, inten := range st.Intensities {
		dt.SetCellFloat("Trial", i, float64(i))
		dt.SetCellFloat("Intensity", i, inten)
		rv := 0.0
		if i < len(st.Data) && st.Data[i] {
			rv = 1
		}
		dt.SetCellFloat("Response", i, rv)
	}
	return dt
}

// SeqTable returns the realized trial ordering of the sequence as a
// table of condition indices and names, one row per trial.
func SeqTable(ts *trialseq.TrialSequence) *etable.Table {
	sch := etable.Schema{
		{Name: "Trial", Type: etensor.INT64},
		{Name: "Cond", Type: etensor.INT64},
		{Name: "CondName", Type: etensor.STRING},
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, len(ts.Trials))
	for i, ci := range ts.Trials {
		dt.SetCellFloat("Trial", i, float64(i))
		dt.SetCellFloat("Cond", i, float64(ci))
		dt.SetCellString("CondName", i, ts.Conds[ci].Name)
	}
	return dt
}

// SaveStairTable writes the staircase run history with the given
// delimiter (etable.Tab for .tsv, etable.Comma for .csv).
func SaveStairTable(st *staircase.Staircase, filename string, delim etable.Delims) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return StairTable(st).WriteCSV(f, delim, etable.Headers)
}

// SaveSeqTable writes the realized sequence with the given delimiter.
func SaveSeqTable(ts *trialseq.TrialSequence, filename string, delim etable.Delims) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return SeqTable(ts).WriteCSV(f, delim, etable.Headers)
}
