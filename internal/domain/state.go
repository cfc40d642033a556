package domain

// State is the internal connection state of a WhatsApp instance.
type State string

const (
	StateNotAuthorized State = "notAuthorized"
	StateQRCode        State = "qr_code"
	StateStarting      State = "starting"
	StateAuthorized    State = "authorized"
	StateYellowCard    State = "yellowCard"
	StateBlocked       State = "blocked"
)

// gatewayStates maps the gateway's connection vocabulary onto internal
// states. Gateway vendors are inconsistent about vocabulary across API
// versions, so this table is the single point of truth; call sites must
// never embed gateway-specific strings.
var gatewayStates = map[string]State{
	"open":       StateAuthorized,
	"connecting": StateStarting,
	"close":      StateNotAuthorized,
	"qrcode":     StateQRCode,
	"refused":    StateBlocked,
}

// MapGatewayState translates a raw gateway connection-state value into the
// internal state. The second return value is false for unrecognized values:
// an unknown signal is far more likely to be a new event kind than a
// disconnection, so callers must keep the prior state rather than reset.
func MapGatewayState(raw string) (State, bool) {
	s, ok := gatewayStates[raw]
	return s, ok
}

// Valid reports whether s is one of the known internal states.
func (s State) Valid() bool {
	switch s {
	case StateNotAuthorized, StateQRCode, StateStarting, StateAuthorized, StateYellowCard, StateBlocked:
		return true
	}
	return false
}
