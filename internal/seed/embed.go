package seed

import (
	_ "embed"
)

//go:embed sample.yaml
var sampleYAML []byte

// Sample returns the built-in demo company: Alice as CEO with an
// engineering and a marketing department.
func Sample() *Node {
	root, err := Parse(sampleYAML, FormatYAML)
	if err != nil {
		panic("seed: embedded sample is invalid: " + err.Error())
	}
	return root
}
