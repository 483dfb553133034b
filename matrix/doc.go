// SPDX-License-Identifier: EPL-2.0

// Package matrix is the upmix policy: a fixed table mapping a named style to
// the gains a stereo stem contributes to each of the eight output channels
// (L, R, C, LFE, rear L/R, side L/R).
//
// Gains use the constant-power factors √½, √⅓ and ½ depending on how many
// speakers one side is spread over. The LFE row is always empty; LFE is fed
// separately at LFEGain when a stem asks for it.
package matrix
