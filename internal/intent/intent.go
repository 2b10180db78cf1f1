// Package intent classifies normalised user text into coarse topic and
// action tags using an ordered catalog of regular-expression indicators.
//
// Extraction is pure and total: multiple tags may apply to one input, the
// result preserves catalog order, and unknown text simply yields an empty
// set. Callers treat the result as a set — ordering carries no scoring
// weight.
package intent

import "regexp"

// Tag is a coarse category inferred from free text.
type Tag string

// Domain topics.
const (
	TagPlot      Tag = "plot"
	TagBudget    Tag = "budget"
	TagRooms     Tag = "rooms"
	TagFloors    Tag = "floors"
	TagParking   Tag = "parking"
	TagMaterials Tag = "materials"
	TagDesign    Tag = "design"
	TagVastu     Tag = "vastu"
)

// Platform topics.
const (
	TagNavigation Tag = "navigation"
	TagRequest    Tag = "request"
	TagProposals  Tag = "proposals"
	TagMessaging  Tag = "messaging"
	TagUpload     Tag = "upload"
	TagPayment    Tag = "payment"
)

// Action topics.
const (
	TagHowTo   Tag = "how_to"
	TagWhatIs  Tag = "what_is"
	TagWhereIs Tag = "where_is"
	TagHelp    Tag = "help"
)

// indicator pairs a compiled pattern with the tag it signals.
type indicator struct {
	re  *regexp.Regexp
	tag Tag
}

// catalog is the ordered list of topic indicators. Patterns run against
// normalised text, so they only need to cover the canonical vocabulary the
// normalizer maps onto.
var catalog = []indicator{
	{regexp.MustCompile(`\b(plot|land|site|acre|sq ?ft|square (feet|yard)|dimension)\b`), TagPlot},
	{regexp.MustCompile(`\b(budget|cost|price|money|expense|lakh|crore|afford|estimate|spend)\b`), TagBudget},
	{regexp.MustCompile(`\b(room|bedroom|bathroom|kitchen|hall|bhk)\b`), TagRooms},
	{regexp.MustCompile(`\b(floor|storey|story|duplex|terrace)\b`), TagFloors},
	{regexp.MustCompile(`\b(parking|garage|car)\b`), TagParking},
	{regexp.MustCompile(`\b(material|cement|brick|steel|sand|concrete|tile)\b`), TagMaterials},
	{regexp.MustCompile(`\b(design|plan|layout|elevation|blueprint|interior)\b`), TagDesign},
	{regexp.MustCompile(`\b(vastu|orientation|facing|direction)\b`), TagVastu},
	{regexp.MustCompile(`\b(dashboard|menu|login|account|profile|page|navigate|navigation)\b`), TagNavigation},
	{regexp.MustCompile(`\b(request|post|submit|requirement)\b`), TagRequest},
	{regexp.MustCompile(`\b(proposal|quote|quotation|bid|offer)\b`), TagProposals},
	{regexp.MustCompile(`\b(message|chat|contact|reply|conversation)\b`), TagMessaging},
	{regexp.MustCompile(`\b(upload|document|file|photo|attach)\b`), TagUpload},
	{regexp.MustCompile(`\b(payment|pay|transaction|refund|invoice)\b`), TagPayment},
	{regexp.MustCompile(`\bhow\b`), TagHowTo},
	{regexp.MustCompile(`\bwhat\b`), TagWhatIs},
	{regexp.MustCompile(`\bwhere\b`), TagWhereIs},
	{regexp.MustCompile(`\b(help|assist|support|guide|confused|stuck)\b`), TagHelp},
}

// Extract returns the tags whose indicator matches text. Text is expected
// to already be normalised (see the normalize package). The result is
// duplicate-free and ordered by catalog position.
func Extract(text string) []Tag {
	if text == "" {
		return nil
	}
	var tags []Tag
	for _, ind := range catalog {
		if ind.re.MatchString(text) {
			tags = append(tags, ind.tag)
		}
	}
	return tags
}

// Overlap returns the number of tags present in both a and b.
func Overlap(a, b []Tag) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[Tag]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	n := 0
	for _, t := range b {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}

// Has reports whether tags contains want.
func Has(tags []Tag, want Tag) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
