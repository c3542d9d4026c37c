package auth

// State is a step of bearer token authorization
type State int

const (
	StateUnpresented State = iota
	StateDecoding
	StateDecoded
	StateRevocationCheck
	StateIdentityLookup
	StateAuthorized

	// Терминальные состояния отказа
	StateMalformed
	StateExpired
	StateRevoked
	StateNotFound
	StateInactive
)

var stateNames = map[State]string{
	StateUnpresented:     "unpresented",
	StateDecoding:        "decoding",
	StateDecoded:         "decoded",
	StateRevocationCheck: "revocation_check",
	StateIdentityLookup:  "identity_lookup",
	StateAuthorized:      "authorized",
	StateMalformed:       "malformed",
	StateExpired:         "expired",
	StateRevoked:         "revoked",
	StateNotFound:        "not_found",
	StateInactive:        "inactive",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Rejected reports whether s is a terminal rejection state
func (s State) Rejected() bool {
	return s >= StateMalformed
}
