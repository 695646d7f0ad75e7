// Package modules defines the platform's product modules (K-12,
// post-secondary, tutoring) and the HTTP gate that keeps users inside their
// assigned set.
//
// The gate distinguishes addressing errors from permission errors: a module
// id outside the closed set is a 400, while a real module the caller was not
// assigned is a 403. Operational roles see every module.
package modules
