package voice

import "regexp"

// Framework names with a ".js" suffix trip up TTS engines, which read
// the dot as a sentence boundary. Spell the suffix out letter by letter.
var jsSuffixes = []struct {
	pattern *regexp.Regexp
	spoken  string
}{
	{regexp.MustCompile(`(?i)Next\.js`), "Next J S"},
	{regexp.MustCompile(`(?i)Node\.js`), "Node J S"},
	{regexp.MustCompile(`(?i)Vue\.js`), "Vue J S"},
	{regexp.MustCompile(`(?i)React\.js`), "React J S"},
	{regexp.MustCompile(`(?i)Express\.js`), "Express J S"},
}

// NormalizeSpeech rewrites text for better TTS pronunciation.
func NormalizeSpeech(text string) string {
	for _, s := range jsSuffixes {
		text = s.pattern.ReplaceAllString(text, s.spoken)
	}
	return text
}
