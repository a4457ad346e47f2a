package montecarlo

// InvalidConfigError signals a RunConfig that cannot be sanitized into a
// runnable shape: a zero/negative mandatory field, or an NGC that fails
// ngc.Validate (§4.4 error semantics, §7).
type InvalidConfigError struct {
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return "montecarlo: invalid config: " + e.Reason
}

