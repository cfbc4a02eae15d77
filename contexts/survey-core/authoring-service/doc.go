// Package authoringservice drives the step-by-step survey creation dialog.
// Each author holds at most one draft, advanced stage by stage until it is
// committed to the lifecycle service or cancelled.
package authoringservice
