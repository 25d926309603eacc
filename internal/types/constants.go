package types

const ContextUserKey = "user"

// DefaultOrigins is the development CORS allow-list; deployments extend
// it through configuration.
var DefaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}
