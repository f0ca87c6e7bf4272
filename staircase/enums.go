// Copyright (c) 2026, The PsyLab Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package staircase

import "github.com/goki/ki/kit"

// StepType are the different semantics for applying a step size to the
// current intensity
type StepType int

//go:generate stringer -type=StepType

var KiT_StepType = kit.Enums.AddEnum(StepTypeN, kit.NotBitFlag, nil)

func (ev StepType) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *StepType) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Decibel steps multiply / divide the intensity by 10^(step/20) --
	// the intensity can never reach zero or change sign
	Decibel StepType = iota

	// Log steps multiply / divide the intensity by 10^step
	Log

	// Linear steps add / subtract the step size directly
	Linear

	StepTypeN
)

// Directions is the direction the staircase is currently moving the
// intensity in
type Directions int

//go:generate stringer -type=Directions

var KiT_Directions = kit.Enums.AddEnum(DirectionsN, kit.NotBitFlag, nil)

func (ev Directions) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Directions) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Down means the intensity is being decreased toward threshold
	Down Directions = iota

	// Up means the intensity is being increased toward threshold
	Up

	DirectionsN
)
