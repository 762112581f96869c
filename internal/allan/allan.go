// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package allan computes overlapping Allan deviations of uniformly
// sampled sensor series, the standard stability analysis for inertial
// noise identification.
package allan

import (
	"fmt"
	"math"
)

// TauSigma is one point of an Allan deviation curve.
type TauSigma struct {
	Tau   float64 // cluster time, s
	Sigma float64 // Allan deviation at Tau, in the unit of the input
}

// Deviation computes the overlapping Allan deviation of a uniformly
// sampled series at up to points log-spaced cluster times between 1/fs
// and len(samples)/(2*fs).
func Deviation(samples []float64, fs float64, points int) ([]TauSigma, error) {
	if !(fs > 0) {
		return nil, fmt.Errorf("allan: sample rate must be positive, got %v", fs)
	}
	if len(samples) < 3 {
		return nil, fmt.Errorf("allan: need at least 3 samples, got %d", len(samples))
	}
	if points < 1 {
		return nil, fmt.Errorf("allan: need at least 1 cluster point, got %d", points)
	}

	tau0 := 1 / fs

	// integrate to phase
	theta := make([]float64, len(samples)+1)
	for i, x := range samples {
		theta[i+1] = theta[i] + x*tau0
	}

	out := make([]TauSigma, 0, points)
	for _, m := range clusterSizes(len(samples)/2, points) {
		tau := float64(m) * tau0
		terms := len(theta) - 2*m

		var sum float64
		for k := 0; k < terms; k++ {
			d := theta[k+2*m] - 2*theta[k+m] + theta[k]
			sum += d * d
		}

		avar := sum / (2 * tau * tau * float64(terms))
		out = append(out, TauSigma{Tau: tau, Sigma: math.Sqrt(avar)})
	}
	return out, nil
}

// clusterSizes returns up to points log-spaced integers in [1, maxM],
// strictly increasing.
func clusterSizes(maxM, points int) []int {
	if maxM < 1 {
		maxM = 1
	}
	if points == 1 || maxM == 1 {
		return []int{1}
	}

	logMax := math.Log(float64(maxM))
	sizes := make([]int, 0, points)
	last := 0
	for i := 0; i < points; i++ {
		f := float64(i) / float64(points-1)
		m := int(math.Round(math.Exp(f * logMax)))
		if m <= last {
			continue
		}
		if m > maxM {
			m = maxM
		}
		sizes = append(sizes, m)
		last = m
	}
	return sizes
}
