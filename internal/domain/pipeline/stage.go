package pipeline

// Stage is a named, ordered group of actions forming one provisioning
// phase. Actions execute strictly in order. A stage is atomic from the
// executor's perspective: a failure anywhere rolls back the whole run,
// not just the stage.
type Stage struct {
	name    string
	actions []Action
}

// NewStage creates a Stage with the given name and actions.
func NewStage(name string, actions ...Action) Stage {
	return Stage{name: name, actions: actions}
}

// Name returns the stage name.
func (s Stage) Name() string {
	return s.name
}

// Actions returns the stage's actions in execution order.
func (s Stage) Actions() []Action {
	return s.actions
}

// Len returns the number of actions in the stage.
func (s Stage) Len() int {
	return len(s.actions)
}

// IsEmpty returns true if the stage has no actions.
func (s Stage) IsEmpty() bool {
	return len(s.actions) == 0
}

// Canonical stage names in fixed execution order.
const (
	StageDependencies  = "dependencies"
	StageDatabase      = "database"
	StageRuntimeConfig = "runtime-config"
	StageReverseProxy  = "reverse-proxy"
	StageCertificate   = "certificate"
	StageVerification  = "verification"

	StageFrontendDependencies = "frontend-dependencies"
	StageFrontendProxy        = "frontend-proxy"
	StageFrontendCertificate  = "frontend-certificate"
	StageFrontendVerification = "frontend-verification"
)
