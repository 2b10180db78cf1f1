package assistant

import "regexp"

// Reserved topic IDs for turns that never touch the knowledge base.
const (
	TopicUnclear       = "unclear"
	TopicGreeting      = "greeting"
	TopicThanks        = "thanks"
	TopicHelpMenu      = "help_menu"
	TopicNavigation    = "navigation_guide"
	TopicBudget        = "budget_guidance"
	TopicClarification = "clarification_needed"
)

// Short-circuit patterns, matched against normalised input. Romanized
// greetings survive normalisation untouched, so they are listed here too.
var (
	greetingPattern = regexp.MustCompile(`\b(hi+|hello|hey|namaste|namaskar|greetings|good (morning|afternoon|evening))\b`)
	thanksPattern   = regexp.MustCompile(`\b(thanks?|thank you|thankyou|thx|dhanyavad|dhanyavadalu)\b`)
)

// greetingReplies is the fixed pool a greeting turn draws from.
var greetingReplies = []string{
	"Hello! I'm here to help you plan your dream home. What would you like to know?",
	"Hi there! Ask me anything about plots, budgets, designs, or how to use the platform.",
	"Namaste! I can guide you through house planning and finding the right architect. How can I help?",
	"Hey! Ready to start your construction journey? Ask me about plot sizes, budgets, or posting a request.",
}

// thanksReplies is the fixed pool an acknowledgement turn draws from.
var thanksReplies = []string{
	"You're welcome! Feel free to ask if anything else comes up.",
	"Happy to help! Good luck with your project.",
	"Anytime! I'm here whenever you have more questions.",
}

// unclearReply is returned for input too short to mean anything.
const unclearReply = "Could you tell me a bit more? Try asking a full question like \"what is plot size\" or \"how much will my house cost\"."

// Canned fallback replies, keyed off the extracted intents when no
// knowledge entry clears the acceptance threshold.
const (
	helpMenuReply = `I can help you with:

- Plot sizes and land requirements
- Budget planning and cost estimates
- Rooms, floors, and layout decisions
- Construction materials and quality
- Vastu and orientation basics
- Posting a request and reviewing proposals
- Uploading documents and payments

Ask me about any of these, or describe what you're planning.`

	navigationReply = `Here's how to get around:

- Your dashboard shows active requests, proposals, and messages
- Use "Post Request" to describe your project to architects
- Open a proposal to compare quotes and chat with the architect
- Your profile menu (top right) has settings and payment history

What were you trying to find?`

	budgetReply = `Construction budgets vary a lot with location, plot size, and finish quality. As a rough guide, a standard-quality independent house runs 1,600-2,200 per sq ft, and premium finishes go well beyond that. Post a request with your plot details and target budget to get accurate quotes from architects.`

	clarificationReply = `I didn't quite catch that. Here are some things you can ask me:

- "What is plot size?"
- "How much will a 3 BHK cost?"
- "How do I post a request?"
- "How do I review proposals?"

Or just describe your project in your own words.`
)
