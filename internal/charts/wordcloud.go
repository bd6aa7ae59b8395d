package charts

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/thorfin/insights-backend/internal/domain"
)

// WordCount is one wordcloud token with its frequency.
type WordCount struct {
	Word  string
	Count int
}

// WordFrequencies tokenizes the concatenated review texts. The cap applies
// to the first maxChars characters of the concatenation, not per review.
// Tokens are single words (no collocations); stopwords and short tokens
// are dropped. Result is sorted by descending count, ties alphabetical.
func WordFrequencies(texts []string, maxChars int) []WordCount {
	joined := strings.Join(texts, " ")
	if maxChars > 0 {
		runes := []rune(joined)
		if len(runes) > maxChars {
			joined = string(runes[:maxChars])
		}
	}

	counts := make(map[string]int)
	words := strings.FieldsFunc(strings.ToLower(joined), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	for _, w := range words {
		w = strings.Trim(w, "'")
		if len(w) < 3 || stopwords[w] {
			continue
		}
		counts[w]++
	}

	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// Wordcloud renders the most frequent review words, sized by frequency.
func (r *Renderer) Wordcloud(ds *domain.Dataset) (*Artifact, error) {
	if !ds.HasColumn(domain.ColReviewText) {
		return nil, ErrNotApplicable
	}
	texts := ds.ReviewTexts(0)
	freqs := WordFrequencies(texts, r.tuning.WordcloudMaxChars)
	if len(freqs) == 0 {
		return nil, ErrNotApplicable
	}

	const maxWords = 80
	if len(freqs) > maxWords {
		freqs = freqs[:maxWords]
	}
	maxCount := freqs[0].Count

	const w, h = 900, 400
	f := r.newFrame(w, h, "")
	dc := f.dc

	// Greedy row packing: biggest words first, wrap when a row fills,
	// rows stacked from the top with a small gutter.
	x := 20.0
	y := 30.0
	rowHeight := 0.0

	for i, wc := range freqs {
		dc.SetFontFace(r.face(wordSize(wc.Count, maxCount)))
		tw, th := dc.MeasureString(wc.Word)

		if x+tw > float64(w)-20 {
			x = 20
			y += rowHeight + 8
			rowHeight = 0
		}
		if y+th > float64(h)-10 {
			break
		}

		dc.SetColor(paletteColor(i))
		dc.DrawString(wc.Word, x, y+th)
		x += tw + 14
		if th > rowHeight {
			rowHeight = th
		}
	}
	return f.encode(TypeWordcloud)
}

// wordSize maps a frequency onto a font size between 14 and 56 on a square
// root scale, so a single dominant word does not dwarf everything else.
func wordSize(count, maxCount int) float64 {
	if maxCount <= 0 {
		return 14
	}
	t := math.Sqrt(float64(count) / float64(maxCount))
	return 14 + t*42
}
