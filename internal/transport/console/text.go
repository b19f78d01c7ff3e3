package console

var traditionalLimitations = []string{
	"Still requires separate LLM calls for categorization AND answer generation",
	"Single query execution (no parallel processing)",
	"Manual filter construction and result processing",
	"No integrated query understanding and breakdown",
	"No conversation context support",
	"Additional complexity and latency from multiple separate LLM calls",
	"Manual orchestration of search -> answer generation pipeline",
}

var manualRequirements = []string{
	"Parse 'AKS networking requirements'",
	"Map 'enterprise hub and spoke topology' -> Architecture, Networking categories",
	"Map 'Azure AI landing zone' -> AI and Machine Learning, Infrastructure categories",
	"Map 'security considerations' -> Security category",
	"Map 'integration patterns' -> Integration category",
	"Construct complex filter with multiple OR conditions",
	"Execute single query (may miss nuanced enterprise requirements)",
	"Manually merge and rank results",
	"Parse raw search results to extract relevant information",
	"Manually synthesize a coherent answer from fragmented results",
}

var agenticAdvantages = []string{
	"LLM automatically understands AKS networking context",
	"Intelligently breaks down enterprise topology requirements",
	"Automatically identifies AI landing zone implications",
	"Executes parallel searches for comprehensive coverage",
	"Provides unified, semantically ranked results",
	"Generates natural language answer directly from search results",
	"Synthesizes coherent, actionable guidance from multiple sources",
}

var agenticAdvantagesSummary = []string{
	"Automatic query decomposition (no manual breakdown needed)",
	"Intelligent LLM-powered query planning",
	"Parallel subquery execution (better coverage)",
	"Semantic understanding and ranking",
	"Unified result synthesis",
	"Context-aware conversation handling",
	"Natural language answer generation from search results",
}
