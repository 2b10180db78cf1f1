package kb

// builtinEntries returns the embedded default dataset covering the
// construction-marketplace topics the assistant answers out of the box.
// Deployments that need different content supply a YAML file instead
// (see [LoadFile]).
func builtinEntries() []Entry {
	return []Entry{
		// ─────────────────────────────────────────────────────────────────
		// Domain topics
		// ─────────────────────────────────────────────────────────────────
		{
			ID: "plot_size_basic",
			Variants: []string{
				"plot size help",
				"what is plot size",
				"how to measure my plot",
				"plot dimension in sq ft",
			},
			Answer: "Plot size is the total area of your land, usually in square feet or square yards.\n" +
				"• Measure length × width of the plot boundary.\n" +
				"• 1 square yard = 9 square feet.\n" +
				"• Enter the size when posting a request so architects can plan accurately.",
		},
		{
			ID: "budget_help",
			Variants: []string{
				"budget help",
				"how much budget do i need",
				"how much cost to build a house",
				"construction cost estimate",
			},
			Answer: "Construction budgets depend on plot size, floors, and finish quality.\n" +
				"• Basic finish: roughly ₹1,500–1,800 per sq ft.\n" +
				"• Standard finish: roughly ₹1,800–2,400 per sq ft.\n" +
				"• Premium finish: ₹2,400+ per sq ft.\n" +
				"Add 10–15% contingency on top of any estimate.",
		},
		{
			ID: "rooms_planning",
			Variants: []string{
				"how many room should i plan",
				"bedroom planning help",
				"what is bhk",
				"room layout for my house",
			},
			Answer: "Room count follows family size and plot area. A 2BHK (2 bedrooms, hall, kitchen) " +
				"suits plots around 1,000 sq ft; 3BHK works well from 1,500 sq ft up. " +
				"Keep at least one bathroom per two bedrooms.",
		},
		{
			ID: "floors_count",
			Variants: []string{
				"how many floor can i build",
				"floor limit for my plot",
				"can i build a duplex",
			},
			Answer: "Permitted floors depend on local bye-laws and plot size. Most residential zones " +
				"allow ground plus two floors. A duplex needs a minimum plot of about 1,200 sq ft " +
				"to stay comfortable. Your architect verifies the local limit before design.",
		},
		{
			ID: "parking_space",
			Variants: []string{
				"parking space requirement",
				"how much space for car parking",
				"garage size help",
			},
			Answer: "A single car needs about 10 × 18 feet of clear space. Plan the parking bay " +
				"next to the entrance gate, and note it in your request so designs reserve the area.",
		},
		{
			ID: "materials_quality",
			Variants: []string{
				"which material is good for construction",
				"cement and brick quality",
				"how to choose building material",
			},
			Answer: "Material choices drive both cost and durability.\n" +
				"• Cement: 43/53-grade from established brands.\n" +
				"• Bricks: red clay or fly-ash; check for uniform colour and ring sound.\n" +
				"• Steel: Fe-500 rated bars.\n" +
				"Contractors on the platform list the brands they quote in the proposal.",
		},
		{
			ID: "design_process",
			Variants: []string{
				"how does the design process work",
				"what is house design plan",
				"floor plan and elevation help",
			},
			Answer: "Design happens in stages: requirement gathering → concept floor plan → " +
				"revisions → elevation and 3D views → final working drawings. Each proposal you " +
				"receive states how many revision rounds are included.",
		},
		{
			ID: "vastu_basics",
			Variants: []string{
				"vastu for my house",
				"which direction facing is good",
				"vastu orientation help",
			},
			Answer: "Common vastu preferences: main entrance facing east or north, kitchen in the " +
				"south-east, master bedroom in the south-west. Mention vastu compliance in your " +
				"request and architects will factor it into the layout.",
		},

		// ─────────────────────────────────────────────────────────────────
		// Platform topics
		// ─────────────────────────────────────────────────────────────────
		{
			ID: "post_request",
			Variants: []string{
				"how to post a request",
				"submit new construction request",
				"where do i post my requirement",
			},
			Answer: "To post a request: open your dashboard → New Request → fill in plot size, " +
				"budget range, and requirements → submit. Architects and contractors respond with " +
				"proposals, usually within two working days.",
		},
		{
			ID: "proposals_review",
			Variants: []string{
				"how to review proposal",
				"compare architect quotation",
				"what is in a proposal",
			},
			Answer: "Each proposal shows the professional's profile, scope of work, fee or quote, " +
				"and timeline. Open Requests → your request → Proposals to compare them side by " +
				"side, and use messaging to clarify before accepting.",
		},
		{
			ID: "messaging_architect",
			Variants: []string{
				"how to message an architect",
				"contact contractor on platform",
				"chat with professional",
			},
			Answer: "Open any proposal and press Message to start a conversation. All discussion " +
				"stays on the platform so your request history and agreements are in one place.",
		},
		{
			ID: "upload_documents",
			Variants: []string{
				"how to upload document",
				"attach plot photo to request",
				"upload site file",
			},
			Answer: "Inside a request, use Attachments → Upload to add plot photos, survey " +
				"documents, or sketches (PDF, JPG, PNG up to 10 MB each). Uploads are visible " +
				"only to professionals responding to that request.",
		},
		{
			ID: "payment_process",
			Variants: []string{
				"how does payment work",
				"payment and invoice help",
				"when do i pay the architect",
			},
			Answer: "Payments run through the platform gateway in milestones you agree with the " +
				"professional. You pay when accepting a proposal milestone; funds release on your " +
				"approval of the delivered work. Invoices appear under Payments in your dashboard.",
		},
		{
			ID: "dashboard_navigation",
			Variants: []string{
				"where is my dashboard",
				"how to navigate the website",
				"find my requests page",
			},
			Answer: "After login, the dashboard is the home icon in the top bar. From there: " +
				"Requests (your posted projects), Proposals (responses received), Messages, and " +
				"Payments. The profile menu on the right manages your account settings.",
		},
		{
			ID: "getting_started",
			Variants: []string{
				"how do i get started",
				"i am new here",
				"what can this platform do",
			},
			Answer: "Welcome! The platform connects homeowners with architects and contractors. " +
				"Start by posting a request with your plot details and budget; professionals then " +
				"send proposals you can compare, discuss, and accept — all in one place.",
		},
	}
}
