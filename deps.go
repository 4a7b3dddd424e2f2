package main

import "os/exec"

// hasBinary reports whether an external collaborator is on the PATH.
func hasBinary(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// missingDeps returns the hard dependencies that are absent for the
// chosen backend. Speech and the visualizer are optional; their features
// degrade silently when the binaries are missing.
func missingDeps(remote bool) []string {
	required := []string{"figlet"}
	if !remote {
		required = append([]string{"playerctl"}, required...)
	}
	var missing []string
	for _, dep := range required {
		if !hasBinary(dep) {
			missing = append(missing, dep)
		}
	}
	return missing
}
