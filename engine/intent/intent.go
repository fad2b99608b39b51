// Package intent converts free-text sell messages into SellIntent structs.
// Intentionally dumb: normalization, pattern matching and string
// similarity — no NLP.
package intent

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/SephyJs/Jeu-RPG-IA-sub001/engine/catalog"
	"github.com/SephyJs/Jeu-RPG-IA-sub001/types"
)

// similarityFloor is the minimum fuzzy-match score for a query to resolve
// to an owned item; below it the intent is reported as ambiguous.
const similarityFloor = 0.38

var (
	sellVerbRe = regexp.MustCompile(`\b(sell|sells|selling|resell|offload|pawn|liquidate)\b`)
	sellAllRe  = regexp.MustCompile(`\b(all|everything|entire|whole)\b`)
	oneByOneRe = regexp.MustCompile(`\bone\s+(?:by\s+one|at\s+a\s+time)\b`)
	xQtyRe     = regexp.MustCompile(`\bx\s*(\d{1,3})\b`)
	digitsRe   = regexp.MustCompile(`\b(\d{1,3})\b`)
	spacesRe   = regexp.MustCompile(`\s+`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]+`)
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

var numberWordRe = regexp.MustCompile(`\b(one|two|three|four|five|six|seven|eight|nine|ten)\b`)

var stopwords = map[string]bool{
	"i": true, "my": true, "me": true, "you": true, "your": true,
	"the": true, "a": true, "an": true, "of": true, "to": true,
	"for": true, "some": true, "this": true, "that": true, "these": true,
	"those": true, "it": true, "them": true, "please": true, "want": true,
	"would": true, "like": true, "can": true, "could": true, "and": true,
	"or": true, "in": true, "with": true,
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize case-folds, strips diacritics, drops punctuation and collapses
// whitespace. Normalizing an already-normalized string is a no-op.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return ""
	}
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = strings.ReplaceAll(s, "'", " ")
	s = nonAlnumRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// ExtractQty pulls an explicit quantity from normalized text: an "x3"
// pattern first, then bare digits, then number words. Returns 0 when no
// quantity is present.
func ExtractQty(plain string) int {
	if m := xQtyRe.FindStringSubmatch(plain); m != nil {
		return clampQty(atoi(m[1]))
	}
	if m := digitsRe.FindStringSubmatch(plain); m != nil {
		return clampQty(atoi(m[1]))
	}
	if m := numberWordRe.FindStringSubmatch(plain); m != nil {
		return clampQty(numberWords[m[1]])
	}
	return 0
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func clampQty(q int) int {
	if q < 1 {
		return 1
	}
	if q > 999 {
		return 999
	}
	return q
}

// buildQuery strips verbs, markers, quantities and stopwords from the
// normalized text, keeping at most six tokens.
func buildQuery(plain string) string {
	q := sellVerbRe.ReplaceAllString(plain, " ")
	q = oneByOneRe.ReplaceAllString(q, " ")
	q = sellAllRe.ReplaceAllString(q, " ")
	q = digitsRe.ReplaceAllString(q, " ")
	q = xQtyRe.ReplaceAllString(q, " ")
	var tokens []string
	for _, tok := range strings.Fields(q) {
		if stopwords[tok] || numberWords[tok] != 0 {
			continue
		}
		tokens = append(tokens, tok)
		if len(tokens) == 6 {
			break
		}
	}
	return strings.Join(tokens, " ")
}

// DetectSellIntent parses a free-text player message against the current
// inventory totals and the item catalog. It returns nil when the message
// carries no sell verb, and an ambiguous intent when the item reference
// cannot be resolved confidently.
func DetectSellIntent(playerText string, inventory map[string]int, cat *catalog.Catalog) *types.SellIntent {
	plain := Normalize(playerText)
	if plain == "" {
		return nil
	}
	if !sellVerbRe.MatchString(plain) {
		return nil
	}

	qty := ExtractQty(plain)
	sellAll := sellAllRe.MatchString(plain)
	oneByOne := oneByOneRe.MatchString(plain)
	query := buildQuery(plain)

	type owned struct {
		id  string
		qty int
	}
	var available []owned
	for id, q := range inventory {
		if q > 0 {
			available = append(available, owned{id: id, qty: q})
		}
	}
	if len(available) == 0 {
		return &types.SellIntent{Mode: types.ModeSell, Query: query, Ambiguous: true}
	}
	// Inventory is a map; fix the candidate order so equal scores always
	// resolve to the same item.
	sort.Slice(available, func(i, j int) bool { return available[i].id < available[j].id })

	// Single distinct item and no query: resolve directly.
	if len(available) == 1 && query == "" {
		it := available[0]
		return &types.SellIntent{
			Mode:     types.ModeSell,
			ItemID:   it.id,
			ItemName: displayName(cat, it.id),
			Qty:      qty,
			MaxQty:   it.qty,
			SellAll:  sellAll,
			OneByOne: oneByOne,
			Query:    query,
		}
	}

	if query == "" {
		return &types.SellIntent{Mode: types.ModeSell, Query: query, Ambiguous: true}
	}

	// Exact containment beats fuzzy similarity.
	bestScore := 0.0
	bestID := ""
	for _, it := range available {
		name := Normalize(displayName(cat, it.id))
		key := Normalize(it.id)
		var score float64
		if strings.Contains(name, query) || strings.Contains(key, query) {
			score = 1.0
		} else {
			score = similarity(query, name)
			if s := similarity(query, key); s > score {
				score = s
			}
		}
		if score > bestScore {
			bestScore = score
			bestID = it.id
		}
	}
	if bestID == "" || bestScore < similarityFloor {
		return &types.SellIntent{Mode: types.ModeSell, Query: query, Ambiguous: true}
	}

	maxQty := inventory[bestID]
	if maxQty < 0 {
		maxQty = 0
	}
	return &types.SellIntent{
		Mode:     types.ModeSell,
		ItemID:   bestID,
		ItemName: displayName(cat, bestID),
		Qty:      qty,
		MaxQty:   maxQty,
		SellAll:  sellAll,
		OneByOne: oneByOne,
		Query:    query,
	}
}

func displayName(cat *catalog.Catalog, itemID string) string {
	if item, ok := cat.LookupItem(itemID); ok && strings.TrimSpace(item.Name) != "" {
		return item.Name
	}
	return itemID
}
