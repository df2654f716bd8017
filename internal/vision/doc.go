// Package vision submits trademark drawing images to a hosted vision model
// and parses its labeled response into an Observation: detected text, logo
// and design flags, and a list of visual-characteristic labels.
package vision
