// Package fsrs implements the FSRS v5 spaced repetition memory model.
//
// The model tracks three quantities per card: difficulty (intrinsic
// hardness on a 1-10 scale), stability (days until recall probability
// decays to 90%), and retrievability (instantaneous recall
// probability). A Scheduler turns a review rating into the next card
// state; it performs no I/O and holds no mutable state, so a single
// instance is safe for concurrent use.
//
// Basic usage:
//
//	s, err := fsrs.NewScheduler(fsrs.Config{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	var card fsrs.Card // the zero value is a new, never-reviewed card
//	card, _, err = s.ReviewCard(card, fsrs.Good, time.Now())
package fsrs
