package environment

// Environment labels the deployment the process is serving.
type Environment string

const (
	// Development for local development.
	Development Environment = "development"
	// Staging for pre-production environments.
	Staging Environment = "staging"
	// Production for production deployments.
	Production Environment = "production"
	// Demo for demonstration deployments. Demo mode activates the
	// demoguard write-path firewall: all writes are pinned to the reserved
	// demo tenant and non-allow-listed write operations are rejected.
	Demo Environment = "demo"
)

// Parse normalizes a raw environment label, accepting common short forms.
// Unknown values fall back to Development so a missing APP_ENV can never
// accidentally enable production or demo behavior.
func Parse(raw string) Environment {
	switch raw {
	case string(Production), "prod":
		return Production
	case string(Staging), "stage":
		return Staging
	case string(Demo):
		return Demo
	default:
		return Development
	}
}

// Config is the environment-derived configuration the authorization chain
// consumes. It is read once at startup via pkg/config; per-request state
// (identity, scope) is never cached across role changes.
type Config struct {
	// Env is the deployment label. "demo" activates the write-path firewall.
	Env string `env:"APP_ENV" envDefault:"development"`

	// DemoTenantID is the single reserved tenant every demo-mode write is
	// pinned to.
	DemoTenantID string `env:"DEMO_TENANT_ID" envDefault:"demo"`

	// ReadOnly skips non-essential bookkeeping writes (e.g. last-login
	// stamps). It never affects authorization decisions.
	ReadOnly bool `env:"READ_ONLY_MODE" envDefault:"false"`
}

// Environment returns the parsed deployment label.
func (c Config) Environment() Environment {
	return Parse(c.Env)
}

// IsDemo reports whether the deployment is a demo environment.
func (c Config) IsDemo() bool {
	return c.Environment() == Demo
}
