package errcode

// Error code convention:
// - 0: no error
// - 4xxx: recoverable business errors (the flow can continue or be retried)
// - 5xxx: system errors (abort the flow)
const (
	OK                  = 0
	UnsupportedDocument = 4001
	ResourceMissing     = 4004
	SystemError         = 5000
)
