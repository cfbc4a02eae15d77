// Package lifecycleservice owns surveys, candidates, channels and the
// channel requirements that gate voting. It exposes the survey state
// machine (active -> closed -> retired) and render-ready publication views.
package lifecycleservice
