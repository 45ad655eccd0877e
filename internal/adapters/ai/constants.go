package ai

// ProviderName identifies a supported LLM vendor.
type ProviderName string

const (
	ProviderNameOpenAI   ProviderName = "openai"
	ProviderNameClaude   ProviderName = "claude"
	ProviderNameDeepSeek ProviderName = "deepseek"
)

// jsonInstruction is appended to prompts when the caller requests JSON output
// and the vendor API has no native JSON response mode.
const jsonInstruction = "\n\nRespond with a single valid JSON object and nothing else. " +
	"Do not wrap the JSON in markdown code fences."
