// Package slug turns Arabic and Latin titles into URL slugs.
package slug

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

var arabicToLatin = map[rune]string{
	'أ': "a", 'إ': "a", 'آ': "a", 'ا': "a",
	'ب': "b", 'ت': "t", 'ث': "th", 'ج': "j", 'ح': "h", 'خ': "kh",
	'د': "d", 'ذ': "dh", 'ر': "r", 'ز': "z", 'س': "s", 'ش': "sh",
	'ص': "s", 'ض': "d", 'ط': "t", 'ظ': "z", 'ع': "a", 'غ': "gh",
	'ف': "f", 'ق': "q", 'ك': "k", 'ل': "l", 'م': "m", 'ن': "n",
	'ه': "h", 'و': "w", 'ي': "y", 'ة': "h", 'ى': "a", 'ء': "",
	'ؤ': "o", 'ئ': "i",
	'٠': "0", '١': "1", '٢': "2", '٣': "3", '٤': "4",
	'٥': "5", '٦': "6", '٧': "7", '٨': "8", '٩': "9",
}

var (
	invalidChars  = regexp.MustCompile(`[^a-z0-9-]`)
	repeatedDash  = regexp.MustCompile(`-{2,}`)
	suffixCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Make transliterates text and reduces it to [a-z0-9-]
func Make(text string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(text) {
		if latin, ok := arabicToLatin[r]; ok {
			b.WriteString(latin)
			continue
		}
		switch r {
		case ' ', '\t', '\n', '_':
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}

	s := strings.ToLower(b.String())
	s = invalidChars.ReplaceAllString(s, "")
	s = repeatedDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// WithSuffix appends "-" and n random lowercase alphanumerics
func WithSuffix(base string, n int) string {
	return base + "-" + Random(n)
}

// Random returns n random lowercase alphanumerics
func Random(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(suffixCharset)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = suffixCharset[i%len(suffixCharset)]
			continue
		}
		out[i] = suffixCharset[idx.Int64()]
	}
	return string(out)
}
