package integrator

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// OptionsFromViper builds Options from a loaded viper config, reading the
// same way the teacher's `smdConfig()` reads its `[SPICE]`/`[general]`
// tables — here an `[integrator]` table with `tolerance`, `min_step`,
// `max_step` (Go duration strings) and `attempts`. Unset keys fall back to
// DefaultOptions' values.
func OptionsFromViper(v *viper.Viper) (Options, error) {
	opts := DefaultOptions()
	if v == nil {
		return opts, nil
	}
	if v.IsSet("integrator.tolerance") {
		opts.Tolerance = v.GetFloat64("integrator.tolerance")
	}
	if v.IsSet("integrator.min_step") {
		d, err := time.ParseDuration(v.GetString("integrator.min_step"))
		if err != nil {
			return opts, fmt.Errorf("integrator.min_step: %w", err)
		}
		opts.MinStep = d
	}
	if v.IsSet("integrator.max_step") {
		d, err := time.ParseDuration(v.GetString("integrator.max_step"))
		if err != nil {
			return opts, fmt.Errorf("integrator.max_step: %w", err)
		}
		opts.MaxStep = d
	}
	if v.IsSet("integrator.attempts") {
		opts.Attempts = v.GetInt("integrator.attempts")
	}
	if v.IsSet("integrator.fixed_step") {
		opts.FixedStep = v.GetBool("integrator.fixed_step")
	}
	switch v.GetString("integrator.method") {
	case "RK4":
		opts.Method = RK4
	case "RKF45":
		opts.Method = RKF45
	case "DormandPrince54", "":
		opts.Method = DormandPrince54
	default:
		return opts, fmt.Errorf("unknown integrator.method %q", v.GetString("integrator.method"))
	}
	return opts, nil
}
