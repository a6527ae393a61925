package sim

import "errors"

// ErrUnstable is the single externally visible failure mode of the driver:
// a particle's position or velocity became NaN or infinite during a step.
// The conventional caller policy is to reset to initial conditions.
var ErrUnstable = errors.New("sim: simulation unstable (non-finite state)")
