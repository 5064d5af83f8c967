// Package jwt implements the token-exchange collaborator on top of JSON Web
// Tokens: signature verification of the presented credential and issuance
// of its typed replacement.
//
// # Architecture boundaries
//
// This package owns key material, signing, and claim validation. It does
// NOT decide when an exchange happens or what to do with the result — that
// is the pipeline stage's job. [Exchanger] satisfies
// [github.com/authpipe/authpipe.TokenExchanger].
//
// # What this package must NOT do
//
//   - Read cookies, sessions, or any request state.
//   - Persist tokens anywhere.
//   - Swallow verification errors; every failure reaches the caller.
package jwt
