package report

import (
	"math"
	"strings"
)

// Metrics holds objective measures computed once over a piece of source
// text: size, symbol diversity, Shannon entropy, and alphanumeric ratio.
type Metrics struct {
	SizeBytes     int
	UniqueSymbols int
	Entropy       float64
	AlnumRatio    float64
	LineCount     int
}

// ComputeMetrics computes Shannon entropy (bits/symbol) and the rest of
// Metrics over payload in a single pass.
func ComputeMetrics(payload string) Metrics {
	m := Metrics{SizeBytes: len(payload)}
	if m.SizeBytes == 0 {
		return m
	}
	freq := make(map[rune]int)
	alnum := 0
	for _, r := range payload {
		freq[r]++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			alnum++
		}
	}
	m.UniqueSymbols = len(freq)
	m.AlnumRatio = float64(alnum) / float64(len(payload))
	m.LineCount = strings.Count(payload, "\n") + 1
	n := float64(len(payload))
	for _, c := range freq {
		if c <= 0 {
			continue
		}
		p := float64(c) / n
		m.Entropy -= p * math.Log2(p)
	}
	return m
}

// LooksPacked flags input whose entropy is high enough to suggest it
// already contains an obfuscated or packed payload (base64/gzip blobs
// embedded in a shell or Makefile literal). 4.5 bits/symbol is the
// trigger for the SEC* advisory hint.
func LooksPacked(m Metrics) bool {
	return m.Entropy > 4.5 && m.SizeBytes > 0
}
