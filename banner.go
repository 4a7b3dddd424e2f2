package main

import (
	"os/exec"
	"strconv"
	"strings"
)

// figletLines renders text as an ASCII-art banner sized to the given
// width. Without figlet on the PATH it degrades to the plain text.
func figletLines(text string, width int) []string {
	out, err := exec.Command("figlet", "-f", "slant", "-l", "-w", strconv.Itoa(width), text).Output()
	if err != nil {
		return []string{text}
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) == 0 {
		return []string{text}
	}
	return lines
}
