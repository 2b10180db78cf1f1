package normalize

// DefaultRules returns the built-in rewrite table: English misspellings
// first, then romanized Hindi, then romanized Telugu. The table is ordered;
// callers must not reorder it. Returned as a fresh slice so callers can
// extend it without mutating the package default.
func DefaultRules() []Rule {
	return []Rule{
		// English misspellings and shorthand.
		{Pattern: `budjet|budjit|bujet|budgit`, Replacement: "budget"},
		{Pattern: `halp|hlp|hepl`, Replacement: "help"},
		{Pattern: `hous|howse|huse`, Replacement: "house"},
		{Pattern: `arkitect|architech|archtect|architct`, Replacement: "architect"},
		{Pattern: `contracter|contrator|contractr`, Replacement: "contractor"},
		{Pattern: `bedrom|bedrum|bedroam`, Replacement: "bedroom"},
		{Pattern: `bathrom|bathrum`, Replacement: "bathroom"},
		{Pattern: `kichen|kitchan|kitchin`, Replacement: "kitchen"},
		{Pattern: `parkin|parkng`, Replacement: "parking"},
		{Pattern: `floar|flor|flore`, Replacement: "floor"},
		{Pattern: `materail|matirial|matereal`, Replacement: "material"},
		{Pattern: `desine|dizain|desgin|desing`, Replacement: "design"},
		{Pattern: `vaastu|vasthu|vastoo`, Replacement: "vastu"},
		{Pattern: `plott|ploat`, Replacement: "plot"},
		{Pattern: `propsal|proposl|prposal`, Replacement: "proposal"},
		{Pattern: `paymnt|payement|paymet`, Replacement: "payment"},
		{Pattern: `uplod|uplaod|upoad`, Replacement: "upload"},
		{Pattern: `mesage|messege|massage`, Replacement: "message"},
		{Pattern: `dashbord|dashbaord`, Replacement: "dashboard"},
		{Pattern: `wat|wht`, Replacement: "what"},
		{Pattern: `hw`, Replacement: "how"},
		{Pattern: `pls|plz|plse`, Replacement: "please"},

		// Romanized Hindi.
		{Pattern: `ghar|makan|makaan`, Replacement: "house"},
		{Pattern: `kamra|kamre`, Replacement: "room"},
		{Pattern: `rasoi`, Replacement: "kitchen"},
		{Pattern: `zameen|jameen|zamin`, Replacement: "plot"},
		{Pattern: `paisa|paise`, Replacement: "cost"},
		{Pattern: `kitna|kitni|kitne`, Replacement: "how much"},
		{Pattern: `naksha|naqsha`, Replacement: "design"},
		{Pattern: `manzil|manjil`, Replacement: "floor"},
		{Pattern: `thekedar|thekedaar`, Replacement: "contractor"},
		{Pattern: `madad|sahayata`, Replacement: "help"},
		{Pattern: `bhugtan`, Replacement: "payment"},
		{Pattern: `kaise`, Replacement: "how"},
		{Pattern: `kya`, Replacement: "what"},
		{Pattern: `kahan`, Replacement: "where"},

		// Romanized Telugu.
		{Pattern: `illu|intiki`, Replacement: "house"},
		{Pattern: `gadi`, Replacement: "room"},
		{Pattern: `stalam|sthalam`, Replacement: "plot"},
		{Pattern: `dabbu|dabbulu`, Replacement: "cost"},
		{Pattern: `entha`, Replacement: "how much"},
		{Pattern: `sahayam`, Replacement: "help"},
		{Pattern: `antastu|antasthu`, Replacement: "floor"},
		{Pattern: `ela`, Replacement: "how"},
		{Pattern: `emiti|enti`, Replacement: "what"},
		{Pattern: `ekkada`, Replacement: "where"},
	}
}
