package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ResourceQuantity is the CPU/RAM/storage triple extracted from a free-text
// server configuration.
type ResourceQuantity struct {
	CPUCores         int `json:"cpuCores"`
	RAMGigabytes     int `json:"ramGigabytes"`
	StorageGigabytes int `json:"storageGigabytes"`
}

// Patterns used by ParseConfig. Stored projects were costed with exactly these
// patterns, so changing them changes historical estimates.
var (
	cpuPattern             = regexp.MustCompile(`(?i)(\d+)\s*(?:core|CPU)`)
	ramPattern             = regexp.MustCompile(`(?i)(\d+)\s*(?:GB|GB RAM)`)
	storageMarkerPattern   = regexp.MustCompile(`(?i)storage:`)
	storageUnitPattern     = regexp.MustCompile(`(?i)(\d+)\s*(gb|g|tb)`)
	storageFallbackPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:GB|G)\s*storage`)
)

const gigabytesPerTerabyte = 1024

// ParseConfig extracts resource quantities from a configuration string such as
// "CPU: 8 core; RAM 16GB; storage: 100GB". It never fails: any field that
// cannot be found is 0.
//
// CPU and RAM take the first match only. Storage sums every size that follows
// the "storage:" marker, converting TB to GB. Without a marker the text is
// searched once for "<n>GB storage".
func ParseConfig(text string) ResourceQuantity {
	return ResourceQuantity{
		CPUCores:         firstInt(cpuPattern, text),
		RAMGigabytes:     firstInt(ramPattern, text),
		StorageGigabytes: parseStorage(text),
	}
}

func parseStorage(text string) int {
	var section string
	if loc := storageMarkerPattern.FindStringIndex(text); loc != nil {
		section = text[loc[1]:]
	}
	if section == "" {
		return firstInt(storageFallbackPattern, text)
	}

	total := 0
	for _, m := range storageUnitPattern.FindAllStringSubmatch(section, -1) {
		n := atoiOrZero(m[1])
		if strings.EqualFold(m[2], "tb") {
			if n > math.MaxInt/gigabytesPerTerabyte {
				n = 0
			} else {
				n *= gigabytesPerTerabyte
			}
		}
		// A sum that no longer fits is treated like any other overflow.
		if n > math.MaxInt-total {
			return 0
		}
		total += n
	}
	return total
}

// firstInt returns the first capture group of the first match as an int, or 0.
func firstInt(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return atoiOrZero(m[1])
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
