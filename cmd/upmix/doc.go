// SPDX-License-Identifier: EPL-2.0

// Command upmix renders stem-set folders to 7.1 surround and splits or
// recombines long recordings in overlapping chunks.
//
//	upmix render ~/music/separated
//	upmix discover ~/music/separated
//	upmix split ~/music/live.wav
//	upmix recombine ~/music/live.0
//	upmix config init
package main
