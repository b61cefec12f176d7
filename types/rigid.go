package types

// RigidVariables is the pair of sets the canonicalizer/constraint
// generator hands the solver before solving starts: variables the user
// named explicitly, and wildcard variables rendered as "*".
type RigidVariables struct {
	Named     map[Variable]string
	Wildcards []Variable
}

// NewRigidVariables returns an empty RigidVariables.
func NewRigidVariables() RigidVariables {
	return RigidVariables{Named: make(map[Variable]string)}
}

// Register marks every variable in r as a RigidVar in subs: named
// rigids keep their user-visible name, wildcards become RigidVar("*").
func (r RigidVariables) Register(subs *Subs) {
	for v, name := range r.Named {
		subs.SetContent(v, RigidVar{Name: name})
	}
	for _, v := range r.Wildcards {
		subs.SetContent(v, RigidVar{Name: "*"})
	}
}
