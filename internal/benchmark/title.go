package benchmark

import (
	"strings"
	"unicode"
)

// Title turns a benchmark identifier into a report header.
//
//	bench_sample1_sample2 -> "Sample1 Sample2"
//	benchSample1Sample2   -> "Sample1 Sample2"
//	XMLBenchmark          -> "Xml Benchmark"
func Title(name string) string {
	words := splitWords(stripPrefix(name))
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// stripPrefix drops a leading "bench" that forms a qualifying benchmark name.
func stripPrefix(name string) string {
	rest, ok := strings.CutPrefix(name, benchPrefix)
	if !ok || rest == "" {
		return name
	}
	r := []rune(rest)[0]
	if r == '_' || unicode.IsUpper(r) {
		return rest
	}
	return name
}

// splitWords splits on underscores and camel-case boundaries. A run of capitals
// stays one word unless its last capital starts a lowercase word ("XMLBench" ->
// "XML", "Bench").
func splitWords(s string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if r == '_' {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return words
}

func capitalize(w string) string {
	r := []rune(strings.ToLower(w))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
