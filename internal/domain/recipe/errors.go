package recipe

import "errors"

// ErrCandidateNotFound is returned when a recipe id is unknown to the corpus.
var ErrCandidateNotFound = errors.New("recipe candidate not found")
