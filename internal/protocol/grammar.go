package protocol

import "strings"

// The grammar is a flat sequence of segments: plain text, the two action
// tokens, and a summary block. The summary token consumes the remainder
// of the input as its payload, so action tokens inside the JSON block are
// never misread as control signals.

type segment interface{ seg() }

type plainSeg struct{ text string }
type passSeg struct{}
type failSeg struct{}
type summarySeg struct{ payload string }

func (plainSeg) seg()   {}
func (passSeg) seg()    {}
func (failSeg) seg()    {}
func (summarySeg) seg() {}

// lex splits raw text into segments, left to right.
func lex(raw string) []segment {
	var segs []segment
	rest := raw
	for rest != "" {
		idx, tok := nextToken(rest)
		if idx < 0 {
			segs = appendPlain(segs, rest)
			break
		}
		segs = appendPlain(segs, rest[:idx])
		rest = rest[idx+len(tok):]

		switch tok {
		case TokenStageComplete:
			segs = append(segs, passSeg{})
		case TokenFail:
			segs = append(segs, failSeg{})
		case TokenStageSummary:
			segs = append(segs, summarySeg{payload: rest})
			rest = ""
		}
	}
	return segs
}

// nextToken finds the earliest control token in s. Returns -1 when none
// remains.
func nextToken(s string) (int, string) {
	best := -1
	var bestTok string
	for _, tok := range []string{TokenStageComplete, TokenFail, TokenStageSummary} {
		if i := strings.Index(s, tok); i >= 0 && (best < 0 || i < best) {
			best = i
			bestTok = tok
		}
	}
	return best, bestTok
}

func appendPlain(segs []segment, text string) []segment {
	text = strings.TrimSpace(text)
	if text == "" {
		return segs
	}
	return append(segs, plainSeg{text: text})
}

func joinSpoken(parts []string) string {
	return strings.TrimSpace(strings.Join(parts, " "))
}
