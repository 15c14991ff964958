package config

import (
	"runtime"
	"strconv"
	"strings"
)

// DefaultWorkers returns the host's available parallelism: the number of
// logical CPUs usable by this process, as reported by the runtime (which
// honours the CPU affinity mask on Linux).
func DefaultWorkers() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// ParseWorkerCount leniently parses a worker-count argument. Leading
// whitespace and an optional sign are accepted, followed by the longest run
// of decimal digits; trailing garbage is ignored ("8x" is 8). Input without
// leading digits, or that overflows, yields 0. Callers treat any result
// below 1 as "use the default".
func ParseWorkerCount(s string) int {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
