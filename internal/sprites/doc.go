// Package sprites renders 2D sprite sets for finished assets by prompting the
// image client once per camera angle.
package sprites
