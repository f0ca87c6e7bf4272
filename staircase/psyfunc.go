// Copyright (c) 2026, The PsyLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package staircase

import (
	"math"

	"github.com/emer/etable/agg"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/split"
)

// SummaryPrec is the number of decimals presented intensities are
// rounded to before binning, so that float noise does not fragment the
// psychometric summary into spurious bins.
const SummaryPrec = 8

// summary table column names
const (
	SummaryIntensity = "Intensity"
	SummaryHitRate   = "Response:Mean"
	SummaryNResp     = "Response:Count"
)

// summarize bins the run history by distinct (rounded) presented
// intensity and computes the mean response rate and trial count per
// bin.  Called exactly once, when the finished staircase is stepped.
func (st *Staircase) summarize() {
	sch := etable.Schema{
		{Name: "Intensity", Type: etensor.FLOAT64},
		{Name: "Response", Type: etensor.FLOAT64},
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, len(st.Data))
	for i, resp := range st.Data {
		dt.SetCellFloat("Intensity", i, round(st.Intensities[i], SummaryPrec))
		rv := 0.0
		if resp {
			rv = 1
		}
		dt.SetCellFloat("Response", i, rv)
	}
	ix := etable.NewIdxView(dt)
	spl := split.GroupBy(ix, []string{"Intensity"})
	split.Agg(spl, "Response", agg.AggMean)
	split.Agg(spl, "Response", agg.AggCount)
	st.Summary = spl.AggsToTable(etable.AddAggName)
}

// PfIntensities returns the distinct presented intensities (rounded to
// SummaryPrec decimals) in ascending order, or nil if the summary has
// not been computed yet.
func (st *Staircase) PfIntensities() []float64 {
	return st.summaryCol(SummaryIntensity)
}

// PfPctCorrect returns the mean response rate per summary bin, parallel
// to PfIntensities, or nil if the summary has not been computed yet.
func (st *Staircase) PfPctCorrect() []float64 {
	return st.summaryCol(SummaryHitRate)
}

// PfRespPerIntensity returns the number of trials contributing to each
// summary bin, parallel to PfIntensities, or nil if the summary has not
// been computed yet.
func (st *Staircase) PfRespPerIntensity() []float64 {
	return st.summaryCol(SummaryNResp)
}

func (st *Staircase) summaryCol(colNm string) []float64 {
	if st.Summary == nil {
		return nil
	}
	vals := make([]float64, st.Summary.Rows)
	for i := range vals {
		vals[i] = st.Summary.CellFloat(colNm, i)
	}
	return vals
}

// round rounds v to the given number of decimals
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
