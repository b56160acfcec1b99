// Package mockclassifier is a local stand-in for the classification service.
//
// It serves POST /api/analyze with the same wire contract as the production
// backend, but scores messages with a small keyword model instead of a
// trained classifier. It exists so that scamscan can be exercised end to end
// without the real service: `scamscan mock` runs it, and the tests of the
// client, the session and the CLI run it under httptest.
//
// The scoring follows the production backend closely enough for every
// verdict to be reachable:
//   - probability = logistic(bias + sum of keyword weights)
//   - 35..65 inclusive is uncertain unless the request is a refinement;
//     uncertain results carry the follow-up questions q1..q4
//   - a refinement adds 8 points per answer that differs from the safe
//     answer of its question, capped at 99
package mockclassifier
