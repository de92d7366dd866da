package ocr

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/heona1231/2025HciProject/internal/types"
)

const (
	// minNameRunes is the minimum merchandise name length; shorter remainders
	// are merged with the previous line, flyers often wrap a name and its
	// price onto separate lines.
	minNameRunes = 2
	// unspecifiedCondition is the benefit condition used when a line carries
	// no isolable condition text.
	unspecifiedCondition = "unspecified"
)

// pricePattern matches a currency-suffixed numeric token such as "15,000원",
// "12000 won" or a ₩-prefixed amount. Amounts keep their thousands separators.
var pricePattern = regexp.MustCompile(`(?i)(?:₩\s*\d[\d,]*|\d[\d,]*\s*(?:원|won|krw))`)

// benefitKeywords marks a line as a benefit candidate when any keyword appears
var benefitKeywords = []string{
	"특전", "증정", "혜택", "선착순", "사은품", "이벤트",
	"gift", "benefit", "bonus", "perk", "free",
}

// conditionSplitPattern is the first whitespace/comma/colon run that separates
// a benefit name from its condition.
var conditionSplitPattern = regexp.MustCompile(`[\s,:：]+`)

// strayPunct are characters trimmed from merchandise names after the price
// token is removed.
const strayPunct = " \t-–—:：·|*•.,…~"

// HeuristicResult holds candidate merchandise and benefits parsed from OCR text
type HeuristicResult struct {
	// Goods are merchandise candidates, unique by (name, price)
	Goods []types.GoodsItem
	// Benefits are "name_condition" benefit candidates, unique after normalization
	Benefits []string
}

// ParseHeuristic converts raw OCR lines into structured candidates using
// price-pattern and keyword matching. It is the last resort when the
// generative service fails; rules only, no model calls.
func ParseHeuristic(text string) HeuristicResult {
	var result HeuristicResult

	seenGoods := make(map[string]struct{})
	seenBenefits := make(map[string]struct{})

	var prevLine string

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if price := pricePattern.FindString(line); price != "" {
			name := parseGoodsName(line, price, prevLine)

			key := strings.ToLower(name) + "\x00" + normalizePrice(price)
			if _, ok := seenGoods[key]; !ok && name != "" {
				seenGoods[key] = struct{}{}
				result.Goods = append(result.Goods, types.GoodsItem{
					Name:  name,
					Price: normalizePrice(price),
				})
			}

			prevLine = ""

			continue
		}

		if benefit, ok := parseBenefit(line); ok {
			key := strings.ToLower(benefit)
			if _, exists := seenBenefits[key]; !exists {
				seenBenefits[key] = struct{}{}
				result.Benefits = append(result.Benefits, benefit)
			}
		}

		prevLine = line
	}

	return result
}

// parseGoodsName strips the price token and stray punctuation from a line,
// merging with the previous line when the remainder is too short to be a name.
func parseGoodsName(line, price, prevLine string) string {
	name := strings.Replace(line, price, "", 1)
	name = strings.Trim(name, strayPunct)

	if utf8.RuneCountInString(name) < minNameRunes && prevLine != "" {
		merged := strings.TrimSpace(prevLine + " " + name)
		return strings.Trim(merged, strayPunct)
	}

	return name
}

// normalizePrice collapses interior whitespace in a matched price token
func normalizePrice(price string) string {
	return strings.Join(strings.Fields(price), "")
}

// parseBenefit reports whether the line is a benefit candidate and normalizes
// it into a "name_condition" shape.
func parseBenefit(line string) (string, bool) {
	lower := strings.ToLower(line)

	var matched bool

	for _, keyword := range benefitKeywords {
		if strings.Contains(lower, keyword) {
			matched = true
			break
		}
	}

	if !matched {
		return "", false
	}

	cleaned := strings.TrimFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(strayPunct, r)
	})

	loc := conditionSplitPattern.FindStringIndex(cleaned)
	if loc == nil {
		return cleaned + "_" + unspecifiedCondition, true
	}

	name := cleaned[:loc[0]]
	condition := strings.Join(strings.Fields(cleaned[loc[1]:]), " ")

	if condition == "" {
		condition = unspecifiedCondition
	}

	return name + "_" + condition, true
}
