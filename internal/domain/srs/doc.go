// Package srs implements the simplified SM-2 spaced-repetition scheduler.
//
// Given a card's scheduling state (ease factor, repetitions, interval) and a
// recall rating in [0,5], the scheduler computes the next state and due date.
// Ratings of 3 or more count as a successful recall. The package is pure:
// it performs no I/O and takes the current time as an argument.
package srs
