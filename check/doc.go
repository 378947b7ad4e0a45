// Package check contains the synchronous classification stages: syntax,
// typo, disposable and role-based checks. Each type implements Stage and
// is combined by a Pipeline; the first final verdict wins.
// These types can be used directly, but the recommended approach is
// to use the fluent builder API from the root email-verifier package.
package check
