package match

// DefaultImportantWords is the built-in tier-4 importance vocabulary:
// domain nouns that count double when shared between input and variant.
// Membership is a product decision, not an algorithmic one — deployments
// override it through configuration ([WithImportantWords]).
var DefaultImportantWords = []string{
	"plot", "budget", "room", "bedroom", "bathroom", "kitchen",
	"floor", "parking", "cost", "price", "size", "area",
	"design", "material", "dashboard", "request", "proposal",
	"architect", "upload", "payment",
}
