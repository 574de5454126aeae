// internal/relay/spin.go
package relay

// Spinner runs busy-wait loops against hardware status.
// There is no sleeping and no cancellation check inside a spin.
// Limit 0 spins until the condition holds; Limit n gives up with
// ErrSpinLimit after n unsuccessful evaluations.
type Spinner struct {
	Limit int
}

// Until evaluates cond back-to-back until it reports true or fails.
func (s Spinner) Until(cond func() (bool, error)) error {
	for n := 1; ; n++ {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if s.Limit > 0 && n >= s.Limit {
			return ErrSpinLimit
		}
	}
}
