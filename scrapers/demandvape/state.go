package demandvape

const unknownProduct = "Unknown"

// searchState tracks how far a search request got
type searchState int

const (
	stateNotNavigated searchState = iota
	stateNavigated
	stateRedirectDetected
	stateNoRedirect
	stateCompleted
)

func (s searchState) String() string {
	switch s {
	case stateNotNavigated:
		return "NotNavigated"
	case stateNavigated:
		return "Navigated"
	case stateRedirectDetected:
		return "RedirectDetected"
	case stateNoRedirect:
		return "NoRedirect"
	case stateCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}
