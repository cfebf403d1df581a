package groups

// defaultGroups is spec.md §4.H's built-in set of 21 names. Term lists
// are a representative vocabulary for each concept — broad enough that
// a group search surfaces real hits across the supported languages'
// common naming conventions (auth/authenticate/login etc.) without
// being so broad it degenerates into matching everything.
var defaultGroups = []Group{
	{Name: "auth", Description: "Authentication and authorization", Emoji: "🔐",
		Terms: []string{"auth", "authenticate", "authorize", "login", "logout", "session", "token", "credential", "permission", "role"}},
	{Name: "database", Description: "Persistence and data access", Emoji: "🗄️",
		Terms: []string{"database", "db", "query", "transaction", "migration", "schema", "repository", "model", "orm", "connection"}},
	{Name: "cache", Description: "Caching layers", Emoji: "⚡",
		Terms: []string{"cache", "memoize", "invalidate", "ttl", "evict", "lru", "redis", "memcache"}},
	{Name: "api", Description: "API surface and routing", Emoji: "🌐",
		Terms: []string{"api", "endpoint", "route", "handler", "controller", "request", "response", "middleware"}},
	{Name: "error", Description: "Error handling", Emoji: "⚠️",
		Terms: []string{"error", "exception", "fail", "panic", "recover", "retry", "fallback"}},
	{Name: "user", Description: "User domain", Emoji: "👤",
		Terms: []string{"user", "account", "profile", "member", "customer"}},
	{Name: "payment", Description: "Payments and billing", Emoji: "💳",
		Terms: []string{"payment", "charge", "invoice", "billing", "subscription", "refund", "checkout"}},
	{Name: "config", Description: "Configuration", Emoji: "🛠️",
		Terms: []string{"config", "configuration", "settings", "options", "env", "flag"}},
	{Name: "test", Description: "Tests and fixtures", Emoji: "🧪",
		Terms: []string{"test", "spec", "mock", "stub", "fixture", "assert", "expect"}},
	{Name: "async", Description: "Asynchronous and concurrent code", Emoji: "🔁",
		Terms: []string{"async", "await", "promise", "future", "goroutine", "channel", "worker", "queue"}},
	{Name: "service", Description: "Service and business logic layer", Emoji: "⚙️",
		Terms: []string{"service", "usecase", "interactor", "manager", "provider"}},
	{Name: "flow", Description: "Control flow and orchestration", Emoji: "🔀",
		Terms: []string{"flow", "pipeline", "workflow", "step", "stage", "orchestrate"}},
	{Name: "architecture", Description: "Structural/architectural elements", Emoji: "🏗️",
		Terms: []string{"factory", "builder", "adapter", "facade", "strategy", "singleton", "module"}},
	{Name: "import", Description: "Imports and dependencies", Emoji: "📦",
		Terms: []string{"import", "require", "dependency", "package", "module"}},
	{Name: "interface", Description: "Interfaces and contracts", Emoji: "🔌",
		Terms: []string{"interface", "protocol", "contract", "abstract", "trait"}},
	{Name: "state", Description: "State management", Emoji: "📊",
		Terms: []string{"state", "store", "reducer", "mutation", "context"}},
	{Name: "event", Description: "Events and messaging", Emoji: "📣",
		Terms: []string{"event", "emit", "listener", "subscribe", "publish", "dispatch"}},
	{Name: "logging", Description: "Logging and diagnostics", Emoji: "📝",
		Terms: []string{"log", "logger", "trace", "debug", "audit"}},
	{Name: "security", Description: "Security controls", Emoji: "🛡️",
		Terms: []string{"security", "encrypt", "decrypt", "hash", "sanitize", "validate", "csrf", "xss"}},
	{Name: "build", Description: "Build tooling", Emoji: "🏭",
		Terms: []string{"build", "compile", "bundle", "lint", "format"}},
	{Name: "deploy", Description: "Deployment and releases", Emoji: "🚀",
		Terms: []string{"deploy", "release", "rollout", "rollback", "ci", "cd"}},
}
