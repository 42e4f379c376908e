package position

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Profile is a YAML description of a sensor setup:
//
//	unit: deg
//	zpos: 12.5
//	mang: 180
//	conf:
//	  power_mode: nom
//	  hysteresis: 1lsb
//	  output_stage: pwm
//	  pwm_frequency: 920hz
//	  slow_filter: 4x
//	  fast_filter: 6lsb
//	  watchdog: on
//
// Omitted angles are left untouched. Use either MPosition or MaxAngle, not both.
type Profile struct {
	Unit          Unit           `yaml:"unit"`
	ZPosition     *float64       `yaml:"zpos,omitempty"`
	MPosition     *float64       `yaml:"mpos,omitempty"`
	MaxAngle      *float64       `yaml:"mang,omitempty"`
	Configuration *Configuration `yaml:"conf,omitempty"`
}

func LoadProfile(r io.Reader) (Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("could not decode profile: %w", err)
	}
	if p.Configuration != nil {
		if err := p.Configuration.Validate(); err != nil {
			return Profile{}, fmt.Errorf("invalid profile configuration: %w", err)
		}
	}
	return p, nil
}

// ApplyProfile writes the profile to the volatile registers. Nothing is burned.
func (s *AS5600) ApplyProfile(ctx context.Context, p Profile) error {
	if p.ZPosition != nil {
		if err := s.SetZPositionIn(ctx, p.Unit, *p.ZPosition); err != nil {
			return fmt.Errorf("could not set start position: %w", err)
		}
	}
	if p.MPosition != nil {
		if err := s.SetMPositionIn(ctx, p.Unit, *p.MPosition); err != nil {
			return fmt.Errorf("could not set stop position: %w", err)
		}
	}
	if p.MaxAngle != nil {
		if err := s.SetMaxAngleIn(ctx, p.Unit, *p.MaxAngle); err != nil {
			return fmt.Errorf("could not set max angle: %w", err)
		}
	}
	if p.Configuration != nil {
		if err := s.SetConfiguration(ctx, *p.Configuration); err != nil {
			return fmt.Errorf("could not set configuration: %w", err)
		}
	}
	return nil
}
